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
	"github.com/bfkit/bfkit/internal/ir"
	"github.com/bfkit/bfkit/internal/jit"
	"github.com/bfkit/bfkit/internal/jit/amd64"
	"github.com/bfkit/bfkit/internal/tape"
)

var (
	// ErrUnmatchedJumpForward: the source ends inside an open loop.
	// Interactive callers treat it as a request for more input.
	ErrUnmatchedJumpForward = ir.ErrUnmatchedJumpForward

	// ErrUnmatchedJumpBack: a stray ']' in the source.
	ErrUnmatchedJumpBack = ir.ErrUnmatchedJumpBack

	// ErrTapeOverrun: a cell access landed in a danger zone. There is
	// no recovery; the process is expected to exit with status 1.
	ErrTapeOverrun = tape.ErrOverrun
)

// UnsupportedArchError: the host has no JIT back-end. Fall back to the
// interpreter.
type UnsupportedArchError = jit.UnsupportedArchError

// LargeOffsetError: an optimized cell offset overflowed the x86-64
// 32-bit displacement form. Lowering the optimization level helps.
type LargeOffsetError = amd64.LargeOffsetError
