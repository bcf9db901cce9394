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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Silent(t *testing.T) {
	/* no I/O, interpreter path: just has to terminate cleanly */
	err := Run([]byte("+++[-]>++<"), WithNoJIT(true))
	require.NoError(t, err)
}

func TestRun_Budget(t *testing.T) {
	err := Run([]byte("+[]"), WithBudget(50000), WithNoJIT(true))
	require.NoError(t, err)
}

func TestRun_Widths(t *testing.T) {
	for _, w := range []CellWidth{C8, C16, C32, C64} {
		err := Run([]byte("++[->+<]"), WithCellWidth(w), WithNoJIT(true))
		require.NoError(t, err)
	}
}

func TestRun_SyntaxErrors(t *testing.T) {
	assert.ErrorIs(t, Run([]byte("][")), ErrUnmatchedJumpBack)
	assert.ErrorIs(t, Run([]byte("[[]")), ErrUnmatchedJumpForward)
}

func TestTranspile(t *testing.T) {
	c, err := Transpile([]byte("+."), "c")
	require.NoError(t, err)
	assert.Contains(t, c, "int main()")

	g, err := Transpile([]byte("+."), "go", WithCellWidth(C16))
	require.NoError(t, err)
	assert.Contains(t, g, "package main")
	assert.Contains(t, g, "uint16")
}

func TestOptions_Validation(t *testing.T) {
	assert.Panics(t, func() { WithCellWidth(12) })
	assert.Panics(t, func() { WithOptLevel(9) })
	assert.Panics(t, func() { WithCellCount(0) })
	assert.Panics(t, func() { WithBudget(-1) })
}
