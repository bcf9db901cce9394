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

package tape

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

type mapping struct {
	addr   uintptr
	total  int
	danger int
}

func mapTape(danger int, data int) (*mapping, error) {
	total := 2*danger + data

	addr, err := windows.VirtualAlloc(0, uintptr(total),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		return nil, fmt.Errorf("tape: VirtualAlloc %d bytes: %w", total, err)
	}

	m := &mapping{addr: addr, total: total, danger: danger}
	register(addr, uintptr(total))

	var old uint32
	if err := windows.VirtualProtect(addr+uintptr(danger), uintptr(data), windows.PAGE_READWRITE, &old); err != nil {
		unregister(addr)
		_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		return nil, fmt.Errorf("tape: VirtualProtect cell region: %w", err)
	}
	return m, nil
}

func (m *mapping) base() unsafe.Pointer {
	return unsafe.Pointer(m.addr)
}

func (m *mapping) release() {
	if m.addr != 0 {
		unregister(m.addr)
		_ = windows.VirtualFree(m.addr, 0, windows.MEM_RELEASE)
		m.addr = 0
	}
}
