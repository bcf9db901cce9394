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

    `go.uber.org/zap`
)

// Assemble resolves every branch block to its shortest legal encoding
// and concatenates the block list. Sizing is a fixpoint: growing one
// branch can push another out of range, so measurement repeats until no
// block grows. A block is never allowed to shrink between iterations
// (shrinking could oscillate); if a smaller encoding turns up it is
// padded back to the previous length with nops and logged.
func (self *Assembler) Assemble(log *zap.Logger) []byte {
    if log == nil {
        log = zap.NewNop()
    }

    n := len(self.blocks)
    offs := make([]int64, n + 1)

    for {
        run := int64(0)
        for i := range self.blocks {
            offs[i] = run
            run += int64(len(self.blocks[i].code))
        }
        offs[n] = run

        grown := false
        for i := range self.blocks {
            b := &self.blocks[i]
            if b.kind == blockBasic {
                continue
            }

            enc := encodeBranch(b, offs[b.target] - offs[i])
            if len(enc) > len(b.code) {
                grown = true
            }
            if len(enc) < len(b.code) {
                log.Warn("relaxed branch shrank, padding",
                    zap.Int("block", i),
                    zap.Int("from", len(b.code)),
                    zap.Int("to", len(enc)))
                enc = padNops(enc, len(b.code))
            }
            b.code = enc
        }

        if !grown {
            break
        }
    }

    out := make([]byte, 0, offs[n])
    for i := range self.blocks {
        out = append(out, self.blocks[i].code...)
    }
    return out
}

// encodeBranch picks the smallest encoding reaching rel bytes from the
// start of the branch block:
//
//   jump:       c.j (i12) → jal (i21)
//   beq/bne:    c.beqz/c.bnez (i9, zero rs2, 3-bit rs1) → beq/bne (i13)
//               → inverted branch over an auipc+jalr far pair
func encodeBranch(b *block, rel int64) []byte {
    switch b.kind {
        case blockJump: {
            if isBranch12(rel) {
                return le16(encCJ(int32(rel)))
            }
            return le32(encJ(opJal, ZERO, int32(rel)))
        }

        case blockBne, blockBeq: {
            f3 := uint32(1)
            cf := uint32(0)
            if b.kind == blockBeq {
                f3, cf = 0, 1
            }

            if b.rs2 == ZERO && is3BitReg(b.rs1) && isBranch9(rel) {
                if b.kind == blockBeq {
                    return le16(encCBeqz(b.rs1, int32(rel)))
                }
                return le16(encCBnez(b.rs1, int32(rel)))
            }

            if isBranch13(rel) {
                return le32(encB(opBranch, f3, b.rs1, b.rs2, int32(rel)))
            }

            /* out of branch range: invert the condition to skip an
             * 8-byte absolute-ish far jump (auipc+jalr) */
            d := rel - 4
            lo := d << 52 >> 52
            hi := d - lo

            out := le32(encB(opBranch, cf, b.rs1, b.rs2, 12))
            out = append(out, le32(encU(opAuipc, T0, int32(hi)))...)
            out = append(out, le32(encI(opJalr, 0, ZERO, T0, int32(lo)))...)
            return out
        }
    }
    return nil
}

func padNops(code []byte, size int) []byte {
    for len(code) + 4 <= size {
        code = le32append(code, encI(opImm, 0, ZERO, ZERO, 0))
    }
    for len(code) < size {
        code = append(code, byte(cNop), byte(cNop >> 8))
    }
    return code
}

func le16(v uint16) []byte {
    return binary.LittleEndian.AppendUint16(nil, v)
}

func le32(v uint32) []byte {
    return binary.LittleEndian.AppendUint32(nil, v)
}

func le32append(b []byte, v uint32) []byte {
    return binary.LittleEndian.AppendUint32(b, v)
}
