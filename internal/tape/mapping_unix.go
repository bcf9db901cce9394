/*
 * Copyright 2025 bfkit Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:build unix

package tape

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapping is one contiguous anonymous mapping laid out as
// [danger][cells][danger]. The danger zones stay PROT_NONE for the
// lifetime of the mapping.
type mapping struct {
	buf    []byte
	danger int
}

// mapTape maps danger+data+danger bytes, all PROT_NONE to begin with,
// then opens the middle for reads and writes. The region is registered
// with the fault handler before any page is unprotected.
func mapTape(danger int, data int) (*mapping, error) {
	total := 2*danger + data

	buf, err := unix.Mmap(-1, 0, total, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("tape: mmap %d bytes: %w", total, err)
	}

	m := &mapping{buf: buf, danger: danger}
	register(uintptr(unsafe.Pointer(&buf[0])), uintptr(total))

	if err := unix.Mprotect(buf[danger:danger+data], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		unregister(uintptr(unsafe.Pointer(&buf[0])))
		_ = unix.Munmap(buf)
		return nil, fmt.Errorf("tape: mprotect cell region: %w", err)
	}
	return m, nil
}

// base returns the start of the mapping (the left danger zone).
func (m *mapping) base() unsafe.Pointer {
	return unsafe.Pointer(&m.buf[0])
}

// release unmaps the whole region, unregistering it first so the fault
// handler never sees a dangling range.
func (m *mapping) release() {
	if m.buf != nil {
		unregister(uintptr(unsafe.Pointer(&m.buf[0])))
		_ = unix.Munmap(m.buf)
		m.buf = nil
	}
}
