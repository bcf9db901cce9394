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

// Package rv64 emits RV64IMC machine code for a finalized instruction
// stream. Code is built as an ordered block list so branches can be
// sized by the relaxation pass; 16-bit compressed encodings are chosen
// whenever their operand constraints hold.
//
// Register plan: s0 carries the cell pointer, s1 the read callback, s2
// the print callback; a3..a5 are per-op scratch. The generated function
// takes (cells, read, print) in a0..a2 and returns the final cell
// pointer in a0. The M extension is only required when a stream carries
// a multiply-accumulate with a multiplier other than ±1.
package rv64

import (
    `fmt`

    `github.com/oleiade/lane`
    `go.uber.org/zap`

    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/opts`
)

// Output is the emitted code plus the entry offsets of the I/O shims
// appended after it.
type Output struct {
    Code     []byte
    ReadOff  int
    PrintOff int
}

type Compiler struct {
    asm   *Assembler
    log   *zap.Logger
    width opts.CellWidth
}

func CreateCompiler(width opts.CellWidth, log *zap.Logger) *Compiler {
    if log == nil {
        log = zap.NewNop()
    }
    return &Compiler {
        asm:   newAssembler(),
        log:   log,
        width: width,
    }
}

func (self *Compiler) size() int {
    return self.width.Bytes()
}

func (self *Compiler) Compile(prog ir.Program, state uintptr, eof byte) (out Output, err error) {
    a := self.asm
    stk := lane.NewStack()

    /* prologue: spill ra and the s-register set, then adopt the
     * argument registers */
    a.addi(SP, SP, -48)
    a.store(8, RA, SP, 40)
    a.store(8, S0, SP, 32)
    a.store(8, S1, SP, 24)
    a.store(8, S2, SP, 16)
    a.store(8, S3, SP, 8)
    a.mv(S0, A0)
    a.mv(S1, A1)
    a.mv(S2, A2)

    for _, ins := range prog {
        if err = self.translate(a, stk, ins); err != nil {
            return
        }
    }

    /* epilogue: the final cell pointer is the return value */
    a.mv(A0, S0)
    a.load(8, RA, SP, 40)
    a.load(8, S0, SP, 32)
    a.load(8, S1, SP, 24)
    a.load(8, S2, SP, 16)
    a.load(8, S3, SP, 8)
    a.addi(SP, SP, 48)
    a.ret()

    code := a.Assemble(self.log)
    out.ReadOff = len(code)

    code = append(code, self.emitReadShim(state, eof)...)
    out.PrintOff = len(code)

    out.Code = append(code, self.emitPrintShim(state)...)
    return
}

func (self *Compiler) translate(a *Assembler, stk *lane.Stack, ins ir.Instr) error {
    switch ins.Op {
        case ir.OP_add      : self.emitAdd(a, ins)
        case ir.OP_move     : self.emitMove(a, ins)
        case ir.OP_print    : self.emitPrint(a, ins)
        case ir.OP_read     : self.emitRead(a, ins)
        case ir.OP_jmp_fwd  : self.emitJmpFwd(a, stk, ins)
        case ir.OP_jmp_back : self.emitJmpBack(a, stk, ins)
        case ir.OP_set      : self.emitSet(a, ins)
        case ir.OP_mac      : self.emitMac(a, ins)
        default             : return fmt.Errorf("rv64: invalid opcode: %d", ins.Op)
    }
    return nil
}

// cellAddr resolves a cell offset to (base, displacement). Small
// displacements address s0 directly; larger ones stage the byte offset
// in a5. The scratch register stays live only until the op's last store.
func (self *Compiler) cellAddr(a *Assembler, off int64) (Reg, int64) {
    d := off * int64(self.size())
    if isImm12(d) {
        return S0, d
    }
    a.li(A5, d)
    a.add(A5, A5, S0)
    return A5, 0
}

func (self *Compiler) emitAdd(a *Assembler, ins ir.Instr) {
    base, d := self.cellAddr(a, ins.Off)
    a.load(self.size(), A3, base, d)

    if isImm12(ins.Iv) {
        a.addi(A3, A3, ins.Iv)
    } else {
        a.li(A4, ins.Iv)
        a.add(A3, A3, A4)
    }

    a.store(self.size(), A3, base, d)
}

func (self *Compiler) emitMove(a *Assembler, ins ir.Instr) {
    d := ins.Iv * int64(self.size())
    if isImm12(d) {
        a.addi(S0, S0, d)
    } else {
        a.li(A5, d)
        a.add(S0, S0, A5)
    }
}

func (self *Compiler) emitPrint(a *Assembler, ins ir.Instr) {
    base, d := self.cellAddr(a, ins.Off)
    a.load(self.size(), A0, base, d)
    a.andi(A0, A0, 0xff)
    a.jalrRA(S2)
}

func (self *Compiler) emitRead(a *Assembler, ins ir.Instr) {
    a.jalrRA(S1)
    a.andi(A0, A0, 0xff)

    /* resolve the address after the call, the scratch set is
     * caller-saved */
    base, d := self.cellAddr(a, ins.Off)
    a.store(self.size(), A0, base, d)
}

func (self *Compiler) emitSet(a *Assembler, ins ir.Instr) {
    a.li(A3, ins.Iv)
    base, d := self.cellAddr(a, ins.Off)
    a.store(self.size(), A3, base, d)
}

func (self *Compiler) emitJmpFwd(a *Assembler, stk *lane.Stack, ins ir.Instr) {
    base, d := self.cellAddr(a, ins.Off)
    a.load(self.size(), A3, base, d)

    /* exit target unknown until the matching bracket shows up */
    stk.Push(a.branch(blockBeq, A3, ZERO, -1))
}

func (self *Compiler) emitJmpBack(a *Assembler, stk *lane.Stack, ins ir.Instr) {
    fwd := stk.Pop().(int)

    base, d := self.cellAddr(a, ins.Off)
    a.load(self.size(), A3, base, d)

    /* loop back to the block after the forward branch, and point the
     * forward branch past this one */
    bck := a.branch(blockBne, A3, ZERO, fwd + 1)
    a.blocks[fwd].target = bck + 1
}

func (self *Compiler) emitMac(a *Assembler, ins ir.Instr) {
    base, d := self.cellAddr(a, ins.Off)
    a.load(self.size(), A3, base, d)

    if ins.Iv != 1 && ins.Iv != -1 {
        a.li(A4, ins.Iv)
        a.mul(A3, A3, A4)
    }

    base, d = self.cellAddr(a, ins.Md)
    a.load(self.size(), A4, base, d)

    if ins.Iv == -1 {
        a.sub(A4, A4, A3)
    } else {
        a.add(A4, A4, A3)
    }

    a.store(self.size(), A4, base, d)
}
