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

package optimizer

import (
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`

    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/parser`
)

func parse(t *testing.T, src string) ir.Program {
    p, err := parser.Parse([]byte(src))
    require.NoError(t, err)
    return p
}

func TestOptimize_Level0Identity(t *testing.T) {
    p := parse(t, "+++>><<[-]")
    q := Optimize(p, 0)
    assert.Equal(t, p, q)
}

func TestOptimize_FoldConstants(t *testing.T) {
    q := Optimize(parse(t, "+++--"), 1)
    require.Len(t, q, 1)
    assert.Equal(t, ir.Instr { Op: ir.OP_add, Iv: 1 }, q[0])

    q = Optimize(parse(t, ">>><<"), 1)
    require.Len(t, q, 1)
    assert.Equal(t, ir.Instr { Op: ir.OP_move, Iv: 1 }, q[0])

    /* zero-valued results stay */
    q = Optimize(parse(t, "+-"), 1)
    require.Len(t, q, 1)
    assert.Equal(t, int64(0), q[0].Iv)
}

func TestOptimize_ClearLoop(t *testing.T) {
    q := Optimize(parse(t, "[-]"), 2)
    require.Len(t, q, 1)
    assert.Equal(t, ir.Instr { Op: ir.OP_set, Iv: 0 }, q[0])

    /* set followed by add on the same cell merges */
    q = Optimize(parse(t, "[-]+++++"), 2)
    require.Len(t, q, 1)
    assert.Equal(t, ir.Instr { Op: ir.OP_set, Iv: 5 }, q[0])

    /* [+] decrements nothing, left alone */
    q = Optimize(parse(t, "[+]"), 2)
    assert.Len(t, q, 3)
}

func TestOptimize_MultiplyLoop(t *testing.T) {
    /* [->>+++<<] distributes 3x into the cell two to the right */
    q := Optimize(parse(t, "[->>+++<<]"), 3)
    require.Len(t, q, 2)
    assert.Equal(t, ir.Instr { Op: ir.OP_mac, Iv: 3, Md: 2 }, q[0])
    assert.Equal(t, ir.Instr { Op: ir.OP_set, Iv: 0 }, q[1])
}

func TestOptimize_MultiplyLoopTwoTargets(t *testing.T) {
    q := Optimize(parse(t, "[->+>++<<-]"), 3)

    /* net delta on the entry cell is -2, not a multiply loop */
    assert.Equal(t, ir.OP_jmp_fwd, q[0].Op)

    q = Optimize(parse(t, "[->+>++<<]"), 3)
    require.Len(t, q, 3)
    assert.Equal(t, ir.Instr { Op: ir.OP_mac, Iv: 1, Md: 1 }, q[0])
    assert.Equal(t, ir.Instr { Op: ir.OP_mac, Iv: 2, Md: 2 }, q[1])
    assert.Equal(t, ir.Instr { Op: ir.OP_set, Iv: 0 }, q[2])
}

func TestOptimize_MultiplyLoopRejections(t *testing.T) {
    for _, src := range []string { "[.-]", "[->+<[-]]", "[->+]", "[]", "[-->+<]" } {
        q := Optimize(parse(t, src), 3)
        assert.Equal(t, ir.OP_jmp_fwd, q[0].Op, "loop %q must stay", src)
    }
}

func TestOptimize_MoveOffsets(t *testing.T) {
    /* >+>++<. folds every move into offsets, one residual move */
    q := Optimize(parse(t, ">+>++<."), 4)
    require.Len(t, q, 4)
    assert.Equal(t, ir.Instr { Op: ir.OP_add, Off: 1, Iv: 1 }, q[0])
    assert.Equal(t, ir.Instr { Op: ir.OP_add, Off: 2, Iv: 2 }, q[1])
    assert.Equal(t, ir.Instr { Op: ir.OP_print, Off: 1 }, q[2])
    assert.Equal(t, ir.Instr { Op: ir.OP_move, Iv: 1 }, q[3])
}

func TestOptimize_MoveOffsetsBalancedLoop(t *testing.T) {
    /* a balanced loop body needs no explicit move at the bracket;
     * [>+<] is no multiply loop (entry delta 0), so it survives to
     * the offset pass intact */
    q := Optimize(parse(t, "[>+<]"), 4)
    require.Len(t, q, 3)
    assert.Equal(t, ir.Instr { Op: ir.OP_jmp_fwd }, q[0])
    assert.Equal(t, ir.Instr { Op: ir.OP_add, Off: 1, Iv: 1 }, q[1])
    assert.Equal(t, ir.Instr { Op: ir.OP_jmp_back }, q[2])
}

func TestOptimize_MoveOffsetsSkewedLoop(t *testing.T) {
    /* [+>] has net movement, the bracket gets an explicit move */
    q := Optimize(parse(t, "[+>]"), 4)
    require.Len(t, q, 4)
    assert.Equal(t, ir.Instr { Op: ir.OP_jmp_fwd }, q[0])
    assert.Equal(t, ir.Instr { Op: ir.OP_add, Iv: 1 }, q[1])
    assert.Equal(t, ir.Instr { Op: ir.OP_move, Iv: 1 }, q[2])
    assert.Equal(t, ir.Instr { Op: ir.OP_jmp_back }, q[3])
}

func TestOptimize_MacOffsetsShift(t *testing.T) {
    /* the mac source and destination both pick up the accumulator */
    q := Optimize(parse(t, ">[->+<]"), 4)
    require.NoError(t, ir.Finalize(q))
    require.Len(t, q, 3)
    assert.Equal(t, ir.Instr { Op: ir.OP_mac, Off: 1, Md: 2, Iv: 1 }, q[0])
    assert.Equal(t, ir.Instr { Op: ir.OP_set, Off: 1, Iv: 0 }, q[1])
    assert.Equal(t, ir.Instr { Op: ir.OP_move, Iv: 1 }, q[2])
}
