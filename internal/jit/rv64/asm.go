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
)

type blockKind uint8

const (
    blockBasic blockKind = iota
    blockJump
    blockBne
    blockBeq
)

// block is one element of the ordered block list: either raw bytes or a
// branch whose encoding is chosen during relaxation. Branches address
// their target by block index, never by pointer, so the list can be
// re-measured without touching the blocks themselves.
type block struct {
    kind   blockKind
    code   []byte
    rs1    Reg
    rs2    Reg
    target int
}

// Assembler accumulates the block list. Ordinary instructions append to
// the trailing basic block; emitting a branch seals it and opens a fresh
// one.
type Assembler struct {
    blocks []block
}

func newAssembler() *Assembler {
    return &Assembler { blocks: []block { { kind: blockBasic } } }
}

func (self *Assembler) last() *block {
    return &self.blocks[len(self.blocks) - 1]
}

func (self *Assembler) raw32(v uint32) {
    b := self.last()
    b.code = binary.LittleEndian.AppendUint32(b.code, v)
}

func (self *Assembler) raw16(v uint16) {
    b := self.last()
    b.code = binary.LittleEndian.AppendUint16(b.code, v)
}

/* branch emits a branch block and returns its index; the target may be
 * filled in later for forward references */
func (self *Assembler) branch(kind blockKind, rs1 Reg, rs2 Reg, target int) int {
    i := len(self.blocks)
    self.blocks = append(self.blocks, block { kind: kind, rs1: rs1, rs2: rs2, target: target })
    self.blocks = append(self.blocks, block { kind: blockBasic })
    return i
}

/* ---- primitives with compressed-instruction selection ---- */

func (self *Assembler) addi(rd Reg, rs1 Reg, imm int64) {
    switch {
        case imm == 0 && rd == rs1           : /* nothing to do */
        case imm == 0 && rd != ZERO          : self.raw16(encCMv(rd, rs1))
        case rd == rs1 && rd != ZERO && isImm6(imm) : self.raw16(encCAddi(rd, int32(imm)))
        default                              : self.raw32(encI(opImm, 0, rd, rs1, int32(imm)))
    }
}

func (self *Assembler) addiw(rd Reg, rs1 Reg, imm int64) {
    self.raw32(encI(opImmW, 0, rd, rs1, int32(imm)))
}

func (self *Assembler) andi(rd Reg, rs1 Reg, imm int64) {
    if rd == rs1 && is3BitReg(rd) && isImm6(imm) {
        self.raw16(encCAndi(rd, int32(imm)))
    } else {
        self.raw32(encI(opImm, 7, rd, rs1, int32(imm)))
    }
}

func (self *Assembler) slli(rd Reg, rs1 Reg, shamt int64) {
    if rd == rs1 && rd != ZERO && shamt != 0 {
        self.raw16(encCSlli(rd, int32(shamt)))
    } else {
        self.raw32(encI(opImm, 1, rd, rs1, int32(shamt)))
    }
}

func (self *Assembler) mv(rd Reg, rs Reg) {
    if rd == rs {
        return
    }
    if rd != ZERO && rs != ZERO {
        self.raw16(encCMv(rd, rs))
    } else {
        self.raw32(encI(opImm, 0, rd, rs, 0))
    }
}

func (self *Assembler) add(rd Reg, rs1 Reg, rs2 Reg) {
    if rd == rs1 && rd != ZERO && rs2 != ZERO {
        self.raw16(encCAdd(rd, rs2))
    } else {
        self.raw32(encR(opReg, 0, 0, rd, rs1, rs2))
    }
}

func (self *Assembler) sub(rd Reg, rs1 Reg, rs2 Reg) {
    self.raw32(encR(opReg, 0, 0x20, rd, rs1, rs2))
}

/* mul needs the M extension; the back-end only emits it for multipliers
 * other than ±1 */
func (self *Assembler) mul(rd Reg, rs1 Reg, rs2 Reg) {
    self.raw32(encR(opReg, 0, 1, rd, rs1, rs2))
}

func (self *Assembler) lui(rd Reg, imm int32) {
    self.raw32(encU(opLui, rd, imm))
}

// li materializes an arbitrary 64-bit constant: c.li for imm6, addi for imm12,
// lui+addiw up to 32 bits, and the shift-and-patch ladder beyond.
func (self *Assembler) li(rd Reg, imm int64) {
    switch {
        case isImm6(imm) && rd != ZERO : self.raw16(encCLi(rd, int32(imm)))
        case isImm12(imm)              : self.raw32(encI(opImm, 0, rd, ZERO, int32(imm)))
        case isImm32(imm)              : self.li32(rd, imm)
        default                        : self.li64(rd, imm)
    }
}

func (self *Assembler) li32(rd Reg, imm int64) {
    lo := int32(imm << 52 >> 52)
    hi := int32(imm - int64(lo))
    self.lui(rd, hi)
    if lo != 0 {
        self.addiw(rd, rd, int64(lo))
    }
}

func (self *Assembler) li64(rd Reg, imm int64) {
    lo := imm << 52 >> 52
    self.li(rd, (imm - lo) >> 12)
    self.slli(rd, rd, 12)
    if lo != 0 {
        self.addi(rd, rd, lo)
    }
}

func (self *Assembler) load(size int, rd Reg, rs1 Reg, off int64) {
    switch {
        case size == 8 && is3BitReg(rd) && is3BitReg(rs1) && off >= 0 && off < 256 && off % 8 == 0: {
            self.raw16(encCLd(rd, rs1, int32(off)))
        }

        case size == 4 && is3BitReg(rd) && is3BitReg(rs1) && off >= 0 && off < 128 && off % 4 == 0: {
            /* c.lw sign-extends where lwu zero-extends; the difference
             * never reaches a store, a zero test or a truncated product,
             * so the compressed form is still sound for 32-bit cells */
            self.raw16(encCLw(rd, rs1, int32(off)))
        }

        default: {
            self.raw32(encI(opLoad, loadFunct(size), rd, rs1, int32(off)))
        }
    }
}

func loadFunct(size int) uint32 {
    switch size {
        case 1  : return 4 /* lbu */
        case 2  : return 5 /* lhu */
        case 4  : return 6 /* lwu */
        default : return 3 /* ld */
    }
}

func (self *Assembler) store(size int, rs2 Reg, rs1 Reg, off int64) {
    switch {
        case size == 8 && is3BitReg(rs2) && is3BitReg(rs1) && off >= 0 && off < 256 && off % 8 == 0: {
            self.raw16(encCSd(rs2, rs1, int32(off)))
        }

        case size == 4 && is3BitReg(rs2) && is3BitReg(rs1) && off >= 0 && off < 128 && off % 4 == 0: {
            self.raw16(encCSw(rs2, rs1, int32(off)))
        }

        default: {
            self.raw32(encS(opStore, storeFunct(size), rs1, rs2, int32(off)))
        }
    }
}

func storeFunct(size int) uint32 {
    switch size {
        case 1  : return 0 /* sb */
        case 2  : return 1 /* sh */
        case 4  : return 2 /* sw */
        default : return 3 /* sd */
    }
}

func (self *Assembler) jalrRA(rs1 Reg) {
    /* c.jalr */
    self.raw16(0x9002 | uint16(rs1) << 7)
}

func (self *Assembler) ret() {
    self.raw16(encCJr(RA))
}
