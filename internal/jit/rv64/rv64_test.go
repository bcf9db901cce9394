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

package rv64

import (
    `encoding/binary`
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`

    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/opts`
)

/* golden encodings cross-checked against binutils output */
func TestEncode_Golden(t *testing.T) {
    assert.Equal(t, uint32(0x00100513), encI(opImm, 0, A0, ZERO, 1))      /* addi a0, zero, 1 */
    assert.Equal(t, uint32(0x03f00893), encI(opImm, 0, A7, ZERO, 63))     /* addi a7, zero, 63 */
    assert.Equal(t, uint32(0x02113423), encS(opStore, 3, SP, RA, 40))     /* sd ra, 40(sp) */
    assert.Equal(t, uint32(0x00000073), encI(opSystem, 0, ZERO, ZERO, 0)) /* ecall */

    assert.Equal(t, uint16(0x4505), encCLi(A0, 1))   /* c.li a0, 1 */
    assert.Equal(t, uint16(0x8522), encCMv(A0, S0))  /* c.mv a0, s0 */
    assert.Equal(t, uint16(0x973e), encCAdd(A4, A5)) /* c.add a4, a5 */
    assert.Equal(t, uint16(0x147d), encCAddi(S0, -1))/* c.addi s0, -1 */
    assert.Equal(t, uint16(0x8082), encCJr(RA))      /* ret */
    assert.Equal(t, uint16(0x0001), cNop)            /* c.nop */
}

func TestAssembler_CompressedSelection(t *testing.T) {
    a := newAssembler()

    /* in range, right registers: 16-bit forms */
    a.addi(S0, S0, 1)
    require.Len(t, a.last().code, 2)

    a.li(A0, 7)
    require.Len(t, a.last().code, 4)

    a.load(8, A3, S0, 16)
    require.Len(t, a.last().code, 6)

    a.store(8, A3, S0, 248)
    require.Len(t, a.last().code, 8)

    /* constraint misses fall back to 32-bit forms */
    b := newAssembler()
    b.addi(S0, S0, 100)        /* imm out of 6-bit range */
    require.Len(t, b.last().code, 4)

    b.load(8, T0, S0, 16)      /* t0 is outside the 3-bit window */
    require.Len(t, b.last().code, 8)

    b.load(8, A3, S0, 12)      /* misaligned for c.ld */
    require.Len(t, b.last().code, 12)

    b.store(1, A3, S0, 0)      /* bytes have no compressed form */
    require.Len(t, b.last().code, 16)
}

func TestAssembler_Li(t *testing.T) {
    /* every tier has to terminate and produce at least one instruction */
    a := newAssembler()
    a.li(A3, 0)
    a.li(A3, -1)
    a.li(A3, 2047)
    a.li(A3, 1 << 20)
    a.li(A3, -(1 << 31))
    a.li(A3, 0x123456789abcdef0 >> 1)
    assert.NotEmpty(t, a.last().code)
}

func TestAssembler_Relaxation(t *testing.T) {
    /* a short forward branch relaxes to the 2-byte c.beqz */
    a := newAssembler()
    i := a.branch(blockBeq, A3, ZERO, -1)
    a.raw16(cNop)
    a.blocks[i].target = len(a.blocks)
    code := a.Assemble(nil)
    assert.Len(t, code, 4)
    assert.Equal(t, uint16(0xc001) | uint16(creg(A3)) << 7, binary.LittleEndian.Uint16(code) & 0xe383)

    /* a branch past the 9-bit window but inside 13 bits takes the
     * 32-bit form */
    b := newAssembler()
    j := b.branch(blockBeq, A3, ZERO, -1)
    for n := 0; n < 500; n++ {
        b.raw32(encI(opImm, 0, ZERO, ZERO, 0))
    }
    b.blocks[j].target = len(b.blocks)
    code = b.Assemble(nil)
    assert.Len(t, code, 4 + 500 * 4)

    /* and past the 13-bit range it becomes the inverted trampoline */
    c := newAssembler()
    k := c.branch(blockBeq, A3, ZERO, -1)
    for n := 0; n < 2000; n++ {
        c.raw32(encI(opImm, 0, ZERO, ZERO, 0))
    }
    c.blocks[k].target = len(c.blocks)
    code = c.Assemble(nil)
    assert.Len(t, code, 12 + 2000 * 4)
}

func TestAssembler_PadNops(t *testing.T) {
    out := padNops(le16(cNop), 8)
    assert.Len(t, out, 8)

    out = padNops(nil, 6)
    assert.Len(t, out, 6)
}

func TestCompiler_Scenario(t *testing.T) {
    prog, err := parseAndFinalize("++++++++[>++++++++<-]>+.")
    require.NoError(t, err)

    out, err := CreateCompiler(opts.C8, nil).Compile(prog, 0x10000, 0)
    require.NoError(t, err)

    assert.NotEmpty(t, out.Code)
    assert.Less(t, out.ReadOff, out.PrintOff)
    assert.Less(t, out.PrintOff, len(out.Code))

    /* everything is 2-byte aligned and ends with the print shim's ret */
    assert.Zero(t, len(out.Code) % 2)
    tail := binary.LittleEndian.Uint32(out.Code[len(out.Code) - 4:])
    assert.Equal(t, uint32(0x00008067), tail) /* jalr zero, 0(ra) */
}

func TestCompiler_BracketWiring(t *testing.T) {
    var p ir.Program
    p.JmpFwd(0)
    p.Add(0, -1)
    p.JmpBack(0)
    require.NoError(t, ir.Finalize(p))

    c := CreateCompiler(opts.C8, nil)
    _, err := c.Compile(p, 0, 0)
    require.NoError(t, err)

    var fwd, bck []int
    for i, b := range c.asm.blocks {
        switch b.kind {
            case blockBeq: fwd = append(fwd, i)
            case blockBne: bck = append(bck, i)
        }
    }
    require.Len(t, fwd, 1)
    require.Len(t, bck, 1)

    assert.Equal(t, bck[0] + 1, c.asm.blocks[fwd[0]].target)
    assert.Equal(t, fwd[0] + 1, c.asm.blocks[bck[0]].target)
}

func parseAndFinalize(src string) (ir.Program, error) {
    var p ir.Program
    for _, ch := range src {
        switch ch {
            case '+': p.Add(0, 1)
            case '-': p.Add(0, -1)
            case '>': p.Move(1)
            case '<': p.Move(-1)
            case '.': p.Print(0)
            case ',': p.Read(0)
            case '[': p.JmpFwd(0)
            case ']': p.JmpBack(0)
        }
    }
    return p, ir.Finalize(p)
}
