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

package bfkit

import (
	"fmt"

	"github.com/bfkit/bfkit/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// CellWidth selects the wrapping width of one tape cell.
type CellWidth = opts.CellWidth

const (
	C8  = opts.C8
	C16 = opts.C16
	C32 = opts.C32
	C64 = opts.C64
)

// WithCellWidth sets the cell width; the default is 8 bits.
func WithCellWidth(w CellWidth) Option {
	if !w.Valid() {
		panic(fmt.Sprintf("bfkit: invalid cell width: %d", w))
	}
	return func(o *opts.Options) { o.Width = w }
}

// WithOptLevel sets the optimization level, 0 through 4. Higher levels
// subsume lower ones; the default is 4.
//
// This value can also be configured with the `BFKIT_OPT_LEVEL`
// environment variable.
func WithOptLevel(level int) Option {
	if level < 0 || level > 4 {
		panic(fmt.Sprintf("bfkit: invalid optimization level: %d", level))
	}
	return func(o *opts.Options) { o.OptLevel = level }
}

// WithCellCount sets the tape length in cells; it is rounded up so the
// cells fill whole pages.
//
// This value can also be configured with the `BFKIT_CELL_COUNT`
// environment variable.
func WithCellCount(n int) Option {
	if n <= 0 {
		panic(fmt.Sprintf("bfkit: invalid cell count: %d", n))
	}
	return func(o *opts.Options) { o.CellCount = n }
}

// WithStartCell sets the initial cell-pointer index.
func WithStartCell(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("bfkit: invalid start cell: %d", n))
	}
	return func(o *opts.Options) { o.StartCell = n }
}

// WithBudget caps the number of interpreted instructions. Exhaustion is
// a clean return. A budget forces the interpreter: the JIT has none.
func WithBudget(n int64) Option {
	if n < 0 {
		panic(fmt.Sprintf("bfkit: invalid instruction budget: %d", n))
	}
	return func(o *opts.Options) { o.Budget = n }
}

// WithEOFByte sets the byte stored by a read at end of input.
func WithEOFByte(b byte) Option {
	return func(o *opts.Options) { o.EOFByte = b }
}

// WithNoJIT forces the interpreter even on supported hosts.
//
// This can also be configured with the `BFKIT_NO_JIT` environment
// variable.
func WithNoJIT(v bool) Option {
	return func(o *opts.Options) { o.NoJIT = v }
}

// WithProfile records per-instruction execution counts and cell
// extremes, printing a summary to stderr after the run. Profiling
// forces the interpreter.
func WithProfile(v bool) Option {
	return func(o *opts.Options) { o.Profile = v }
}
