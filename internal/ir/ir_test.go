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

package ir

import (
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func TestFinalize_Matching(t *testing.T) {
    var p Program
    p.JmpFwd(0)
    p.Add(0, -1)
    p.JmpFwd(0)
    p.JmpBack(0)
    p.JmpBack(0)
    require.NoError(t, Finalize(p))

    /* outer pair */
    assert.Equal(t, 4, p[0].To)
    assert.Equal(t, 0, p[4].To)

    /* inner pair */
    assert.Equal(t, 3, p[2].To)
    assert.Equal(t, 2, p[3].To)
}

func TestFinalize_Bijection(t *testing.T) {
    var p Program
    for i := 0; i < 8; i++ {
        p.JmpFwd(0)
        p.Add(0, 1)
    }
    for i := 0; i < 8; i++ {
        p.JmpBack(0)
    }
    require.NoError(t, Finalize(p))

    for i, ins := range p {
        switch ins.Op {
            case OP_jmp_fwd:
                require.Greater(t, ins.To, i)
                require.Equal(t, OP_jmp_back, p[ins.To].Op)
                require.Equal(t, i, p[ins.To].To)
            case OP_jmp_back:
                require.Less(t, ins.To, i)
                require.Equal(t, OP_jmp_fwd, p[ins.To].Op)
                require.Equal(t, i, p[ins.To].To)
        }
    }
}

func TestFinalize_Unmatched(t *testing.T) {
    var open Program
    open.JmpFwd(0)
    require.ErrorIs(t, Finalize(open), ErrUnmatchedJumpForward)

    var stray Program
    stray.JmpBack(0)
    stray.JmpFwd(0)
    require.ErrorIs(t, Finalize(stray), ErrUnmatchedJumpBack)
}

func TestProgram_MaxOff(t *testing.T) {
    var p Program
    p.Add(-7, 1)
    p.Set(3, 0)
    p.Mac(2, -11, 5)
    assert.Equal(t, int64(11), p.MaxOff())
}

func TestProgram_Disassemble(t *testing.T) {
    var p Program
    p.JmpFwd(0)
    p.Add(0, -1)
    p.JmpBack(0)
    require.NoError(t, Finalize(p))

    s := p.Disassemble()
    assert.Contains(t, s, "jz")
    assert.Contains(t, s, "jnz")
    assert.Contains(t, s, "L_2")
    assert.Contains(t, s, "end")
}
