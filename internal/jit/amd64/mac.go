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

package amd64

import (
    `github.com/chenzhuoyu/iasm/x86_64`

    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/opts`
)

// emitMac translates cells[md] += cells[off] * iv. Multipliers of ±1
// degrade to plain add/sub; byte cells have no imm-form imul, so they
// stage the multiplier in eax and use the implicit-al mul.
func (self *Compiler) emitMac(p *x86_64.Program, ins ir.Instr) error {
    src, err := self.disp(ins.Off)
    if err != nil {
        return err
    }
    dst, err := self.disp(ins.Md)
    if err != nil {
        return err
    }

    switch {
        case ins.Iv == 1  : self.emitMacAdd(p, src, dst)
        case ins.Iv == -1 : self.emitMacSub(p, src, dst)
        default           : self.emitMacMul(p, ins.Iv, src, dst)
    }
    return nil
}

func (self *Compiler) emitMacAdd(p *x86_64.Program, src int32, dst int32) {
    switch self.width {
        case opts.C8  : p.MOVB(self.cell(src), x86_64.AL);   p.ADDB(x86_64.AL, self.cell(dst))
        case opts.C16 : p.MOVW(self.cell(src), x86_64.AX);   p.ADDW(x86_64.AX, self.cell(dst))
        case opts.C32 : p.MOVL(self.cell(src), x86_64.EAX);  p.ADDL(x86_64.EAX, self.cell(dst))
        case opts.C64 : p.MOVQ(self.cell(src), x86_64.RAX);  p.ADDQ(x86_64.RAX, self.cell(dst))
    }
}

func (self *Compiler) emitMacSub(p *x86_64.Program, src int32, dst int32) {
    switch self.width {
        case opts.C8  : p.MOVB(self.cell(src), x86_64.AL);   p.SUBB(x86_64.AL, self.cell(dst))
        case opts.C16 : p.MOVW(self.cell(src), x86_64.AX);   p.SUBW(x86_64.AX, self.cell(dst))
        case opts.C32 : p.MOVL(self.cell(src), x86_64.EAX);  p.SUBL(x86_64.EAX, self.cell(dst))
        case opts.C64 : p.MOVQ(self.cell(src), x86_64.RAX);  p.SUBQ(x86_64.RAX, self.cell(dst))
    }
}

func (self *Compiler) emitMacMul(p *x86_64.Program, mul int64, src int32, dst int32) {
    switch self.width {
        case opts.C8: {
            p.MOVL(int64(uint8(mul)), x86_64.EAX)
            p.MULB(self.cell(src))
            p.ADDB(x86_64.AL, self.cell(dst))
        }

        case opts.C16: {
            p.IMULW(int64(int16(mul)), self.cell(src), x86_64.AX)
            p.ADDW(x86_64.AX, self.cell(dst))
        }

        case opts.C32: {
            p.IMULL(int64(int32(mul)), self.cell(src), x86_64.EAX)
            p.ADDL(x86_64.EAX, self.cell(dst))
        }

        case opts.C64: {
            self.emitMacMulQ(p, mul, src, dst)
        }
    }
}

/* the 3-operand imul only takes an imm32 multiplier */
func (self *Compiler) emitMacMulQ(p *x86_64.Program, mul int64, src int32, dst int32) {
    if isInt32(mul) {
        p.IMULQ(mul, self.cell(src), x86_64.RAX)
    } else {
        p.MOVQ(mul, x86_64.RCX)
        p.MOVQ(self.cell(src), x86_64.RAX)
        p.IMULQ(x86_64.RCX, x86_64.RAX)
    }
    p.ADDQ(x86_64.RAX, self.cell(dst))
}
