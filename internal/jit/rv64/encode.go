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

/* 32-bit base encodings, one helper per format */

const (
    opLoad   = 0x03
    opImm    = 0x13
    opAuipc  = 0x17
    opImmW   = 0x1b
    opStore  = 0x23
    opReg    = 0x33
    opLui    = 0x37
    opBranch = 0x63
    opJalr   = 0x67
    opJal    = 0x6f
    opSystem = 0x73
)

func encR(op uint32, f3 uint32, f7 uint32, rd Reg, rs1 Reg, rs2 Reg) uint32 {
    return f7 << 25 | uint32(rs2) << 20 | uint32(rs1) << 15 | f3 << 12 | uint32(rd) << 7 | op
}

func encI(op uint32, f3 uint32, rd Reg, rs1 Reg, imm int32) uint32 {
    return (uint32(imm) & 0xfff) << 20 | uint32(rs1) << 15 | f3 << 12 | uint32(rd) << 7 | op
}

func encS(op uint32, f3 uint32, rs1 Reg, rs2 Reg, imm int32) uint32 {
    v := uint32(imm)
    return (v >> 5 & 0x7f) << 25 | uint32(rs2) << 20 | uint32(rs1) << 15 | f3 << 12 | (v & 0x1f) << 7 | op
}

func encB(op uint32, f3 uint32, rs1 Reg, rs2 Reg, imm int32) uint32 {
    v := uint32(imm)
    return (v >> 12 & 1) << 31 | (v >> 5 & 0x3f) << 25 | uint32(rs2) << 20 | uint32(rs1) << 15 |
        f3 << 12 | (v >> 1 & 0xf) << 8 | (v >> 11 & 1) << 7 | op
}

func encU(op uint32, rd Reg, imm int32) uint32 {
    return uint32(imm) & 0xfffff000 | uint32(rd) << 7 | op
}

func encJ(op uint32, rd Reg, imm int32) uint32 {
    v := uint32(imm)
    return (v >> 20 & 1) << 31 | (v >> 1 & 0x3ff) << 21 | (v >> 11 & 1) << 20 | (v >> 12 & 0xff) << 12 |
        uint32(rd) << 7 | op
}

/* compressed (RVC) encodings; callers check the constraints */

const cNop = uint16(0x0001)

func encCAddi(rd Reg, imm int32) uint16 {
    v := uint16(imm)
    return 0x0001 | (v >> 5 & 1) << 12 | uint16(rd) << 7 | (v & 0x1f) << 2
}

func encCLi(rd Reg, imm int32) uint16 {
    v := uint16(imm)
    return 0x4001 | (v >> 5 & 1) << 12 | uint16(rd) << 7 | (v & 0x1f) << 2
}

func encCMv(rd Reg, rs2 Reg) uint16 {
    return 0x8002 | uint16(rd) << 7 | uint16(rs2) << 2
}

func encCAdd(rd Reg, rs2 Reg) uint16 {
    return 0x9002 | uint16(rd) << 7 | uint16(rs2) << 2
}

func encCSlli(rd Reg, shamt int32) uint16 {
    v := uint16(shamt)
    return 0x0002 | (v >> 5 & 1) << 12 | uint16(rd) << 7 | (v & 0x1f) << 2
}

func encCAndi(rd Reg, imm int32) uint16 {
    v := uint16(imm)
    return 0x8801 | (v >> 5 & 1) << 12 | creg(rd) << 7 | (v & 0x1f) << 2
}

func encCJr(rs1 Reg) uint16 {
    return 0x8002 | uint16(rs1) << 7
}

func encCLd(rd Reg, rs1 Reg, uimm int32) uint16 {
    v := uint16(uimm)
    return 0x6000 | (v >> 3 & 7) << 10 | creg(rs1) << 7 | (v >> 6 & 3) << 5 | creg(rd) << 2
}

func encCSd(rs2 Reg, rs1 Reg, uimm int32) uint16 {
    v := uint16(uimm)
    return 0xe000 | (v >> 3 & 7) << 10 | creg(rs1) << 7 | (v >> 6 & 3) << 5 | creg(rs2) << 2
}

func encCLw(rd Reg, rs1 Reg, uimm int32) uint16 {
    v := uint16(uimm)
    return 0x4000 | (v >> 3 & 7) << 10 | creg(rs1) << 7 | (v >> 2 & 1) << 6 | (v >> 6 & 1) << 5 | creg(rd) << 2
}

func encCSw(rs2 Reg, rs1 Reg, uimm int32) uint16 {
    v := uint16(uimm)
    return 0xc000 | (v >> 3 & 7) << 10 | creg(rs1) << 7 | (v >> 2 & 1) << 6 | (v >> 6 & 1) << 5 | creg(rs2) << 2
}

func encCJ(off int32) uint16 {
    v := uint16(off)
    return 0xa001 |
        (v >> 11 & 1) << 12 |
        (v >> 4  & 1) << 11 |
        (v >> 8  & 3) << 9  |
        (v >> 10 & 1) << 8  |
        (v >> 6  & 1) << 7  |
        (v >> 7  & 1) << 6  |
        (v >> 1  & 7) << 3  |
        (v >> 5  & 1) << 2
}

func encCBeqz(rs1 Reg, off int32) uint16 {
    return 0xc001 | encCBOff(off) | creg(rs1) << 7
}

func encCBnez(rs1 Reg, off int32) uint16 {
    return 0xe001 | encCBOff(off) | creg(rs1) << 7
}

func encCBOff(off int32) uint16 {
    v := uint16(off)
    return (v >> 8 & 1) << 12 |
        (v >> 3 & 3) << 10 |
        (v >> 6 & 3) << 5  |
        (v >> 1 & 3) << 3  |
        (v >> 5 & 1) << 2
}

/* immediate range predicates; branch and jump offsets are even, so the
 * fit checks take the raw byte displacement */

func fitsInt(v int64, bits uint) bool {
    min := int64(-1) << (bits - 1)
    return v >= min && v < -min
}

func isImm6(v int64) bool  { return fitsInt(v, 6) }
func isImm12(v int64) bool { return fitsInt(v, 12) }
func isImm32(v int64) bool { return fitsInt(v, 32) }

func isBranch9(v int64) bool  { return fitsInt(v, 9) && v & 1 == 0 }
func isBranch12(v int64) bool { return fitsInt(v, 12) && v & 1 == 0 }
func isBranch13(v int64) bool { return fitsInt(v, 13) && v & 1 == 0 }
func isBranch21(v int64) bool { return fitsInt(v, 21) && v & 1 == 0 }
