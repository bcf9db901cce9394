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
    `github.com/bfkit/bfkit/internal/ir`
)

// MaxLevel is the highest supported optimization level.
const MaxLevel = 4

// Optimize rewrites the stream through every pass up to and including
// level. Each pass is pure: it consumes one stream, produces another, and
// never needs bracket targets to be assigned. Level 0 is an identity copy.
func Optimize(p ir.Program, level int) ir.Program {
    out := make(ir.Program, len(p))
    copy(out, p)

    if level >= 1 { out = foldConstants(out) }
    if level >= 2 { out = foldClearLoops(out) }
    if level >= 3 { out = foldMultiplyLoops(out) }
    if level >= 4 { out = foldMoveOffsets(out) }
    return out
}

// foldConstants merges adjacent same-kind arithmetic: runs of adds on the
// same cell sum into one add, runs of moves sum into one move. Zero-valued
// results are kept, later passes do not depend on their removal.
func foldConstants(p ir.Program) ir.Program {
    out := make(ir.Program, 0, len(p))

    for _, ins := range p {
        n := len(out)

        switch {
            case n > 0 && ins.Op == ir.OP_add && out[n - 1].Op == ir.OP_add && out[n - 1].Off == ins.Off: {
                out[n - 1].Iv += ins.Iv
            }

            case n > 0 && ins.Op == ir.OP_move && out[n - 1].Op == ir.OP_move: {
                out[n - 1].Iv += ins.Iv
            }

            default: {
                out = append(out, ins)
            }
        }
    }

    return out
}

// foldClearLoops rewrites the `[-]` idiom into a single set(0), and folds
// an add that lands on a freshly set cell into the set itself.
func foldClearLoops(p ir.Program) ir.Program {
    out := make(ir.Program, 0, len(p))

    for i := 0; i < len(p); i++ {
        ins := p[i]

        /* clear loop: jz, add(-1), jnz with nothing in between */
        if ins.Op == ir.OP_jmp_fwd && i + 2 < len(p) {
            if p[i + 1].Op == ir.OP_add && p[i + 1].Iv == -1 && p[i + 1].Off == ins.Off && p[i + 2].Op == ir.OP_jmp_back {
                out.Set(ins.Off, 0)
                i += 2
                continue
            }
        }

        /* set(s) directly followed by add(v) on the same cell is set(s+v) */
        if n := len(out); ins.Op == ir.OP_add && n > 0 && out[n - 1].Op == ir.OP_set && out[n - 1].Off == ins.Off {
            out[n - 1].Iv += ins.Iv
            continue
        }

        out = append(out, ins)
    }

    return out
}

// foldMultiplyLoops rewrites balanced decrement-and-distribute loops into
// multiply-accumulate sequences. A loop qualifies iff its body is non-empty,
// consists of adds and moves only, returns the pointer to the entry cell,
// and applies a net -1 to it. Everything else (nested loops, I/O, sets,
// macs) keeps the loop as-is.
func foldMultiplyLoops(p ir.Program) ir.Program {
    out := make(ir.Program, 0, len(p))

    for i := 0; i < len(p); i++ {
        ins := p[i]

        if ins.Op != ir.OP_jmp_fwd {
            out = append(out, ins)
            continue
        }

        /* locate the matching bracket, aborting on anything
         * that is not plain arithmetic or pointer movement */
        j, ok := i + 1, true
        for ; j < len(p) && p[j].Op != ir.OP_jmp_back; j++ {
            if p[j].Op != ir.OP_add && p[j].Op != ir.OP_move {
                ok = false
                break
            }
        }

        if !ok || j >= len(p) || j == i + 1 {
            out = append(out, ins)
            continue
        }

        /* the body must net to zero movement and a -1 on the entry cell */
        bal := int64(0)
        del := int64(0)

        for _, v := range p[i + 1 : j] {
            switch v.Op {
                case ir.OP_move: bal += v.Iv
                case ir.OP_add:
                    if bal + v.Off == ins.Off {
                        del += v.Iv
                    }
            }
        }

        if bal != 0 || del != -1 {
            out = append(out, ins)
            continue
        }

        /* one mac per add away from the entry cell, keyed by the movement
         * balance at the time of the add; entry-cell adds only feed the
         * -1 check and emit nothing */
        bal = 0
        for _, v := range p[i + 1 : j] {
            switch v.Op {
                case ir.OP_move: bal += v.Iv
                case ir.OP_add:
                    if bal + v.Off != ins.Off {
                        out.Mac(ins.Off, bal + v.Off, v.Iv)
                    }
            }
        }

        out.Set(ins.Off, 0)
        i = j
    }

    return out
}

// foldMoveOffsets deletes standalone moves by folding the accumulated
// displacement into the cell offset of every following instruction.
// Brackets delimit folding scopes: the accumulator is pushed at `[`,
// and a loop body with net movement gets one explicit move right before
// its `]` so iterations still advance the real pointer.
func foldMoveOffsets(p ir.Program) ir.Program {
    off := int64(0)
    stk := make([]int64, 0, 16)
    out := make(ir.Program, 0, len(p))

    for _, ins := range p {
        switch ins.Op {
            case ir.OP_move: {
                off += ins.Iv
            }

            case ir.OP_jmp_fwd: {
                stk = append(stk, off)
                out.JmpFwd(ins.Off + off)
            }

            case ir.OP_jmp_back: {
                start := stk[len(stk) - 1]
                stk = stk[:len(stk) - 1]

                if off != start {
                    out.Move(off - start)
                }

                out.JmpBack(ins.Off + start)
                off = start
            }

            case ir.OP_mac: {
                out.Mac(ins.Off + off, ins.Md + off, ins.Iv)
            }

            default: {
                v := ins
                v.Off += off
                out = append(out, v)
            }
        }
    }

    /* residual movement past the last instruction */
    if off != 0 {
        out.Move(off)
    }
    return out
}
