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

// Package tape provides the sandboxed cell array the generated and
// interpreted code runs against. The cell region sits between two
// no-access danger zones, so a runaway cell pointer traps instead of
// scribbling over unrelated memory.
package tape

import (
	"os"
	"unsafe"
)

// Cell is the element type of the tape, an unsigned integer of the
// configured width. All arithmetic on cells wraps.
type Cell interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Tape is a page-guarded cell array. Exactly one tape is meant to be
// active per process; the fault handler identifies it through the
// process-wide registration in active.go.
type Tape[C Cell] struct {
	m      *mapping
	ptr    unsafe.Pointer // current cell
	base   unsafe.Pointer // first cell
	count  int            // configured cell count
	danger int            // danger zone size per side, bytes
}

// New maps a tape of count cells starting at cell start, with one danger
// page on either side. The mapping is published to the fault handler
// before any page becomes accessible.
func New[C Cell](count int, start int) (*Tape[C], error) {
	return newTape[C](count, start, os.Getpagesize())
}

func newTape[C Cell](count int, start int, danger int) (*Tape[C], error) {
	size := int(unsafe.Sizeof(C(0)))
	data := pageCeil(count * size)

	m, err := mapTape(danger, data)
	if err != nil {
		return nil, err
	}

	t := &Tape[C]{
		m:      m,
		count:  count,
		danger: danger,
	}
	t.base = unsafe.Add(m.base(), danger)
	t.ptr = unsafe.Add(t.base, start*size)
	return t, nil
}

// GrowDangerZone widens both danger zones to hold at least maxOff cells.
// Zones never shrink. Growing remaps the tape: the cells are copied and
// the pointer keeps its cell index.
func (t *Tape[C]) GrowDangerZone(maxOff int64) error {
	size := int(unsafe.Sizeof(C(0)))
	need := pageCeil(int(maxOff) * size)
	if need <= t.danger {
		return nil
	}

	idx := t.Index()
	data := pageCeil(t.count * size)

	m, err := mapTape(need, data)
	if err != nil {
		return err
	}

	old := t.m
	copy(unsafe.Slice((*byte)(unsafe.Add(m.base(), need)), data),
		unsafe.Slice((*byte)(t.base), data))

	t.m = m
	t.danger = need
	t.base = unsafe.Add(m.base(), need)
	t.ptr = unsafe.Add(t.base, idx*size)

	old.release()
	return nil
}

// Move advances the cell pointer. The result may point into a danger
// zone; the next Load or Store will trap there.
func (t *Tape[C]) Move(v int64) {
	t.ptr = unsafe.Add(t.ptr, v*int64(unsafe.Sizeof(C(0))))
}

func (t *Tape[C]) Load(off int64) C {
	return *(*C)(t.at(off))
}

func (t *Tape[C]) Store(off int64, v C) {
	*(*C)(t.at(off)) = v
}

// at computes the address of the cell at the given offset with plain
// wrapping pointer arithmetic: an out-of-range offset resolves to a
// danger-zone address and traps, it is never undefined behavior.
func (t *Tape[C]) at(off int64) unsafe.Pointer {
	return unsafe.Add(t.ptr, off*int64(unsafe.Sizeof(C(0))))
}

// Index reports the pointer position as a cell index from the start of
// the cell region. It may be out of range after a wild Move.
func (t *Tape[C]) Index() int {
	return int(uintptr(t.ptr)-uintptr(t.base)) / int(unsafe.Sizeof(C(0)))
}

// InBounds reports whether the pointer currently sits inside the
// writable cell region.
func (t *Tape[C]) InBounds() bool {
	return uintptr(t.ptr) >= uintptr(t.base) &&
		uintptr(t.ptr) < uintptr(t.base)+uintptr(t.count)*unsafe.Sizeof(C(0))
}

// Ptr returns the raw cell pointer for handing to generated code.
func (t *Tape[C]) Ptr() uintptr {
	return uintptr(t.ptr)
}

// SetPtr installs the cell pointer returned by generated code.
func (t *Tape[C]) SetPtr(p uintptr) {
	t.ptr = unsafe.Pointer(p)
}

// DangerBytes reports the per-side danger zone size.
func (t *Tape[C]) DangerBytes() int {
	return t.danger
}

// Cells returns the cell region as a slice, for tests and the profiler.
func (t *Tape[C]) Cells() []C {
	return unsafe.Slice((*C)(t.base), t.count)
}

// Release unregisters and unmaps the tape. The tape must not be used
// afterwards.
func (t *Tape[C]) Release() {
	if t.m != nil {
		t.m.release()
		t.m = nil
	}
}

func pageCeil(n int) int {
	p := os.Getpagesize()
	if n == 0 {
		return p
	}
	return (n + p - 1) / p * p
}
