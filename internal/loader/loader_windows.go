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

package loader

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

type Code struct {
	addr uintptr
	size int
}

func Load(code []byte) (*Code, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(len(code)),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("loader: VirtualAlloc %d bytes: %w", len(code), err)
	}

	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(code)), code)

	var old uint32
	if err := windows.VirtualProtect(addr, uintptr(len(code)), windows.PAGE_EXECUTE_READ, &old); err != nil {
		_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		return nil, fmt.Errorf("loader: VirtualProtect R+X: %w", err)
	}
	return &Code{addr: addr, size: len(code)}, nil
}

func (c *Code) Addr() uintptr {
	return c.addr
}

func (c *Code) Size() int {
	return c.size
}

func (c *Code) Release() {
	if c.addr != 0 {
		_ = windows.VirtualFree(c.addr, 0, windows.MEM_RELEASE)
		c.addr = 0
	}
}

type Data struct {
	addr uintptr
	size int
}

func AllocData(size int) (*Data, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("loader: VirtualAlloc data %d bytes: %w", size, err)
	}
	return &Data{addr: addr, size: size}, nil
}

func (d *Data) Addr() uintptr {
	return d.addr
}

func (d *Data) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(d.addr)), d.size)
}

func (d *Data) Release() {
	if d.addr != 0 {
		_ = windows.VirtualFree(d.addr, 0, windows.MEM_RELEASE)
		d.addr = 0
	}
}
