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

// Package amd64 emits position-dependent x86-64 SysV machine code for a
// finalized instruction stream.
//
// Register plan: rbp carries the cell pointer, rbx the print callback,
// r12 the read callback. The generated function takes (cells, read,
// print) in rdi/rsi/rdx and returns the final cell pointer in rax.
package amd64

import (
    `fmt`
    `math`

    `github.com/chenzhuoyu/iasm/x86_64`
    `github.com/oleiade/lane`

    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/opts`
)

// LargeOffsetError means a folded cell offset scaled past the signed
// 32-bit displacement the addressing templates use. Lowering the
// optimization level shrinks offsets back.
type LargeOffsetError struct {
    Off int64
}

func (self LargeOffsetError) Error() string {
    return fmt.Sprintf("cell offset %d does not fit a 32-bit displacement", self.Off)
}

// Output is the emitted code plus the entry offsets of the I/O shims
// appended after it.
type Output struct {
    Code     []byte
    ReadOff  int
    PrintOff int
}

type _LoopLabels struct {
    body *x86_64.Label
    exit *x86_64.Label
}

type Compiler struct {
    arch  *x86_64.Arch
    width opts.CellWidth
    loops int
}

func CreateCompiler(width opts.CellWidth) *Compiler {
    return &Compiler {
        arch:  x86_64.CreateArch(),
        width: width,
    }
}

// Compile translates the stream. state is the address of the read-write
// state page the I/O shims use for their scratch byte and EOF flag;
// eof is the byte the read shim yields at end of input.
func (self *Compiler) Compile(prog ir.Program, state uintptr, eof byte) (out Output, err error) {
    p := self.arch.CreateProgram()
    defer p.Free()

    stk := lane.NewStack()

    /* prologue: save the callee-saved set, keep rsp 16-byte aligned
     * across callback calls, then stage the arguments */
    p.PUSHQ(x86_64.RBP)
    p.PUSHQ(x86_64.RBX)
    p.PUSHQ(x86_64.R12)
    p.PUSHQ(x86_64.R13)
    p.PUSHQ(x86_64.R14)
    p.PUSHQ(x86_64.R15)
    p.SUBQ(8, x86_64.RSP)
    p.MOVQ(x86_64.RDI, x86_64.RBP)
    p.MOVQ(x86_64.RSI, x86_64.R12)
    p.MOVQ(x86_64.RDX, x86_64.RBX)

    for _, ins := range prog {
        if err = self.translate(p, stk, ins); err != nil {
            return
        }
    }

    /* epilogue: the final cell pointer is the return value */
    p.MOVQ(x86_64.RBP, x86_64.RAX)
    p.ADDQ(8, x86_64.RSP)
    p.POPQ(x86_64.R15)
    p.POPQ(x86_64.R14)
    p.POPQ(x86_64.R13)
    p.POPQ(x86_64.R12)
    p.POPQ(x86_64.RBX)
    p.POPQ(x86_64.RBP)
    p.RET()

    /* the I/O shims ride in the same buffer, past the epilogue */
    readRef := x86_64.CreateLabel("read_shim")
    printRef := x86_64.CreateLabel("print_shim")
    p.Link(readRef)
    self.emitReadShim(p, state, eof)
    p.Link(printRef)
    self.emitPrintShim(p, state)

    out.Code = p.Assemble(0)
    if out.ReadOff, err = labelOffset(readRef); err != nil {
        return
    }
    out.PrintOff, err = labelOffset(printRef)
    return
}

func (self *Compiler) translate(p *x86_64.Program, stk *lane.Stack, ins ir.Instr) error {
    switch ins.Op {
        case ir.OP_add      : return self.emitAdd(p, ins)
        case ir.OP_move     : return self.emitMove(p, ins)
        case ir.OP_print    : return self.emitPrint(p, ins)
        case ir.OP_read     : return self.emitRead(p, ins)
        case ir.OP_jmp_fwd  : return self.emitJmpFwd(p, stk, ins)
        case ir.OP_jmp_back : return self.emitJmpBack(p, stk, ins)
        case ir.OP_set      : return self.emitSet(p, ins)
        case ir.OP_mac      : return self.emitMac(p, ins)
        default             : return fmt.Errorf("amd64: invalid opcode: %d", ins.Op)
    }
}

/* disp scales a cell offset to a byte displacement, rejecting anything
 * past the signed 32-bit addressing form */
func (self *Compiler) disp(off int64) (int32, error) {
    v := off * int64(self.width.Bytes())
    if v < math.MinInt32 || v > math.MaxInt32 {
        return 0, LargeOffsetError { Off: off }
    }
    return int32(v), nil
}

func (self *Compiler) cell(off int32) *x86_64.MemoryOperand {
    return x86_64.Ptr(x86_64.RBP, off)
}

func (self *Compiler) emitAdd(p *x86_64.Program, ins ir.Instr) error {
    d, err := self.disp(ins.Off)
    if err != nil {
        return err
    }
    switch self.width {
        case opts.C8  : p.ADDB(int64(int8(ins.Iv)), self.cell(d))
        case opts.C16 : p.ADDW(int64(int16(ins.Iv)), self.cell(d))
        case opts.C32 : p.ADDL(int64(int32(ins.Iv)), self.cell(d))
        case opts.C64 : self.emitAddQ(p, ins.Iv, d)
    }
    return nil
}

/* 64-bit adds only take a sign-extended imm32; stage anything wider */
func (self *Compiler) emitAddQ(p *x86_64.Program, v int64, d int32) {
    if isInt32(v) {
        p.ADDQ(v, self.cell(d))
    } else {
        p.MOVQ(v, x86_64.RAX)
        p.ADDQ(x86_64.RAX, self.cell(d))
    }
}

func (self *Compiler) emitMove(p *x86_64.Program, ins ir.Instr) error {
    v := ins.Iv * int64(self.width.Bytes())
    if !isInt32(v) {
        return LargeOffsetError { Off: ins.Iv }
    }
    p.ADDQ(v, x86_64.RBP)
    return nil
}

func (self *Compiler) emitPrint(p *x86_64.Program, ins ir.Instr) error {
    d, err := self.disp(ins.Off)
    if err != nil {
        return err
    }
    /* output is the low byte of the cell regardless of width */
    p.MOVZBQ(self.cell(d), x86_64.RDI)
    p.CALLQ(x86_64.RBX)
    return nil
}

func (self *Compiler) emitRead(p *x86_64.Program, ins ir.Instr) error {
    d, err := self.disp(ins.Off)
    if err != nil {
        return err
    }
    p.CALLQ(x86_64.R12)
    switch self.width {
        case opts.C8  : p.MOVB(x86_64.AL, self.cell(d))
        case opts.C16 : p.MOVZBQ(x86_64.AL, x86_64.RAX); p.MOVW(x86_64.AX, self.cell(d))
        case opts.C32 : p.MOVZBQ(x86_64.AL, x86_64.RAX); p.MOVL(x86_64.EAX, self.cell(d))
        case opts.C64 : p.MOVZBQ(x86_64.AL, x86_64.RAX); p.MOVQ(x86_64.RAX, self.cell(d))
    }
    return nil
}

func (self *Compiler) emitCmpZero(p *x86_64.Program, d int32) {
    switch self.width {
        case opts.C8  : p.CMPB(0, self.cell(d))
        case opts.C16 : p.CMPW(0, self.cell(d))
        case opts.C32 : p.CMPL(0, self.cell(d))
        case opts.C64 : p.CMPQ(0, self.cell(d))
    }
}

func (self *Compiler) emitJmpFwd(p *x86_64.Program, stk *lane.Stack, ins ir.Instr) error {
    d, err := self.disp(ins.Off)
    if err != nil {
        return err
    }

    self.loops++
    ll := _LoopLabels {
        body: x86_64.CreateLabel(fmt.Sprintf("loop_%d", self.loops)),
        exit: x86_64.CreateLabel(fmt.Sprintf("exit_%d", self.loops)),
    }

    /* the exit displacement is a forward reference: the assembler
     * back-patches the je once the exit label is linked */
    self.emitCmpZero(p, d)
    p.JE(ll.exit)
    p.Link(ll.body)
    stk.Push(ll)
    return nil
}

func (self *Compiler) emitJmpBack(p *x86_64.Program, stk *lane.Stack, ins ir.Instr) error {
    d, err := self.disp(ins.Off)
    if err != nil {
        return err
    }

    ll := stk.Pop().(_LoopLabels)
    self.emitCmpZero(p, d)
    p.JNE(ll.body)
    p.Link(ll.exit)
    return nil
}

func (self *Compiler) emitSet(p *x86_64.Program, ins ir.Instr) error {
    d, err := self.disp(ins.Off)
    if err != nil {
        return err
    }
    switch self.width {
        case opts.C8  : p.MOVB(int64(int8(ins.Iv)), self.cell(d))
        case opts.C16 : p.MOVW(int64(int16(ins.Iv)), self.cell(d))
        case opts.C32 : p.MOVL(int64(int32(ins.Iv)), self.cell(d))
        case opts.C64 : self.emitSetQ(p, ins.Iv, d)
    }
    return nil
}

func (self *Compiler) emitSetQ(p *x86_64.Program, v int64, d int32) {
    if isInt32(v) {
        p.MOVQ(v, self.cell(d))
    } else {
        p.MOVQ(v, x86_64.RAX)
        p.MOVQ(x86_64.RAX, self.cell(d))
    }
}

func isInt32(v int64) bool {
    return v >= math.MinInt32 && v <= math.MaxInt32
}
