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

// Package loader turns emitted machine code into callable memory under
// the W^X discipline: bytes are written to read-write pages which are
// flipped to read-execute before the first call.
package loader

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Code is one executable mapping. It is never writable while mapped
// executable.
type Code struct {
	buf []byte
}

// Load maps fresh anonymous pages, copies the code in and seals them
// read-execute.
func Load(code []byte) (*Code, error) {
	buf, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("loader: mmap %d bytes: %w", len(code), err)
	}

	copy(buf, code)

	if err := unix.Mprotect(buf, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(buf)
		return nil, fmt.Errorf("loader: mprotect R+X: %w", err)
	}
	return &Code{buf: buf}, nil
}

// Addr returns the entry address of the mapping.
func (c *Code) Addr() uintptr {
	return uintptr(unsafe.Pointer(&c.buf[0]))
}

func (c *Code) Size() int {
	return len(c.buf)
}

// Release unmaps the code. The caller must guarantee nothing is
// executing inside it.
func (c *Code) Release() {
	if c.buf != nil {
		_ = unix.Munmap(c.buf)
		c.buf = nil
	}
}

// Data is a plain read-write allocation handed to generated code for its
// mutable runtime state (I/O scratch bytes, EOF flag). Kept separate from
// Code so the code pages never need write permission back.
type Data struct {
	buf []byte
}

func AllocData(size int) (*Data, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("loader: mmap data %d bytes: %w", size, err)
	}
	return &Data{buf: buf}, nil
}

func (d *Data) Addr() uintptr {
	return uintptr(unsafe.Pointer(&d.buf[0]))
}

func (d *Data) Bytes() []byte {
	return d.buf
}

func (d *Data) Release() {
	if d.buf != nil {
		_ = unix.Munmap(d.buf)
		d.buf = nil
	}
}
