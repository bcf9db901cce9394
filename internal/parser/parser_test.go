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

package parser

import (
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`

    `github.com/bfkit/bfkit/internal/ir`
)

func TestParse_Basic(t *testing.T) {
    p, err := Parse([]byte("+- ><\n.,[]"))
    require.NoError(t, err)
    require.Len(t, p, 8)

    assert.Equal(t, ir.Instr { Op: ir.OP_add, Iv: 1 }, p[0])
    assert.Equal(t, ir.Instr { Op: ir.OP_add, Iv: -1 }, p[1])
    assert.Equal(t, ir.Instr { Op: ir.OP_move, Iv: 1 }, p[2])
    assert.Equal(t, ir.Instr { Op: ir.OP_move, Iv: -1 }, p[3])
    assert.Equal(t, ir.OP_print, p[4].Op)
    assert.Equal(t, ir.OP_read, p[5].Op)
    assert.Equal(t, ir.OP_jmp_fwd, p[6].Op)
    assert.Equal(t, ir.OP_jmp_back, p[7].Op)
}

func TestParse_CommentsOnly(t *testing.T) {
    p, err := Parse([]byte("hello world! 123"))
    require.NoError(t, err)
    assert.Empty(t, p)
}

func TestParse_OpenLoop(t *testing.T) {
    _, err := Parse([]byte("[[]"))
    require.ErrorIs(t, err, ir.ErrUnmatchedJumpForward)
}

func TestParse_StrayClose(t *testing.T) {
    _, err := Parse([]byte("]["))
    require.ErrorIs(t, err, ir.ErrUnmatchedJumpBack)
}

func TestParse_NoCoalescing(t *testing.T) {
    /* folding runs is the optimizer's job, the parser stays 1:1 */
    p, err := Parse([]byte("+++"))
    require.NoError(t, err)
    assert.Len(t, p, 3)
}
