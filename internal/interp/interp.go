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

// Package interp executes finalized instruction streams by direct
// dispatch, one generic instantiation per cell width.
package interp

import (
    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/tape`
)

// Machine binds a program to its tape and I/O callbacks.
type Machine[C tape.Cell] struct {
    Tape   *tape.Tape[C]
    Read   func() byte
    Print  func(byte)
    Budget int64    // instructions, 0 means unlimited
}

// Run executes the stream to completion or budget exhaustion. Budget
// exhaustion is a clean return, not an error. A cell access that lands
// in a danger zone comes back as tape.ErrOverrun.
func (self *Machine[C]) Run(p ir.Program) error {
    return tape.Guard(func() error {
        self.dispatch(p, nil)
        return nil
    })
}

// RunProfiled is Run with a profiling context recording per-instruction
// execution counts and the cell extremes the program touched.
func (self *Machine[C]) RunProfiled(p ir.Program, prof *Profile) error {
    prof.reset(len(p))
    return tape.Guard(func() error {
        self.dispatch(p, prof)
        return nil
    })
}

func (self *Machine[C]) dispatch(p ir.Program, prof *Profile) {
    t := self.Tape
    pc := 0
    left := self.Budget

    for pc < len(p) {
        ins := &p[pc]

        if prof != nil {
            prof.step(pc, t.Index() + int(ins.Off))
        }

        switch ins.Op {
            case ir.OP_add: {
                v := t.Load(ins.Off) + C(ins.Iv)
                t.Store(ins.Off, v)
                prof.value(uint64(v))
            }

            case ir.OP_move: {
                t.Move(ins.Iv)
            }

            case ir.OP_print: {
                self.Print(byte(t.Load(ins.Off)))
            }

            case ir.OP_read: {
                v := C(self.Read())
                t.Store(ins.Off, v)
                prof.value(uint64(v))
            }

            case ir.OP_jmp_fwd: {
                if t.Load(ins.Off) == 0 {
                    pc = ins.To
                }
            }

            case ir.OP_jmp_back: {
                if t.Load(ins.Off) != 0 {
                    pc = ins.To
                }
            }

            case ir.OP_set: {
                t.Store(ins.Off, C(ins.Iv))
                prof.value(uint64(C(ins.Iv)))
            }

            case ir.OP_mac: {
                if prof != nil {
                    prof.touch(t.Index() + int(ins.Md))
                }
                v := t.Load(ins.Md) + t.Load(ins.Off) * C(ins.Iv)
                t.Store(ins.Md, v)
                prof.value(uint64(v))
            }
        }

        pc++

        if self.Budget > 0 {
            if left--; left == 0 {
                return
            }
        }
    }
}
