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

package ir

import (
    `fmt`
    `strings`
)

type OpCode uint8

const (
    OP_add OpCode = iota    // cells[ptr+off] += iv
    OP_move                 // ptr += iv
    OP_print                // print(cells[ptr+off] & 0xff)
    OP_read                 // cells[ptr+off] = read()
    OP_jmp_fwd              // if cells[ptr+off] == 0 { pc = to }
    OP_jmp_back             // if cells[ptr+off] != 0 { pc = to }
    OP_set                  // cells[ptr+off] = iv
    OP_mac                  // cells[ptr+md] += cells[ptr+off] * iv
)

var opNames = [...]string {
    OP_add      : "add",
    OP_move     : "move",
    OP_print    : "print",
    OP_read     : "read",
    OP_jmp_fwd  : "jz",
    OP_jmp_back : "jnz",
    OP_set      : "set",
    OP_mac      : "mac",
}

func (self OpCode) String() string {
    if int(self) < len(opNames) {
        return opNames[self]
    } else {
        return fmt.Sprintf("OpCode(%d)", self)
    }
}

// Instr is one tagged instruction. Off is meaningful for every
// operation except OP_move, and is always zero before offset folding.
type Instr struct {
    Op  OpCode
    Off int64
    Iv  int64   // add / move / set value, mac multiplier
    Md  int64   // mac destination offset
    To  int     // matching bracket index, filled by Finalize
}

// Program is a finite instruction stream. It is owned by the driver and
// handed to the interpreter, the back-ends and the profiler by value
// (the backing array is never mutated past Finalize).
type Program []Instr

func (self *Program) pc() int { return len(*self) }

func (self *Program) ins(v Instr)             { *self = append(*self, v) }
func (self *Program) Add(off int64, v int64)  { self.ins(Instr { Op: OP_add, Off: off, Iv: v }) }
func (self *Program) Move(v int64)            { self.ins(Instr { Op: OP_move, Iv: v }) }
func (self *Program) Print(off int64)         { self.ins(Instr { Op: OP_print, Off: off }) }
func (self *Program) Read(off int64)          { self.ins(Instr { Op: OP_read, Off: off }) }
func (self *Program) JmpFwd(off int64)        { self.ins(Instr { Op: OP_jmp_fwd, Off: off }) }
func (self *Program) JmpBack(off int64)       { self.ins(Instr { Op: OP_jmp_back, Off: off }) }
func (self *Program) Set(off int64, v int64)  { self.ins(Instr { Op: OP_set, Off: off, Iv: v }) }

func (self *Program) Mac(off int64, md int64, mul int64) {
    self.ins(Instr { Op: OP_mac, Off: off, Iv: mul, Md: md })
}

func (self Instr) disassemble() string {
    switch self.Op {
        case OP_add      : return fmt.Sprintf("%-8s%+d, [%+d]", self.Op, self.Iv, self.Off)
        case OP_move     : return fmt.Sprintf("%-8s%+d", self.Op, self.Iv)
        case OP_print    : fallthrough
        case OP_read     : return fmt.Sprintf("%-8s[%+d]", self.Op, self.Off)
        case OP_jmp_fwd  : fallthrough
        case OP_jmp_back : return fmt.Sprintf("%-8sL_%d, [%+d]", self.Op, self.To, self.Off)
        case OP_set      : return fmt.Sprintf("%-8s%+d, [%+d]", self.Op, self.Iv, self.Off)
        case OP_mac      : return fmt.Sprintf("%-8s[%+d] * %+d, [%+d]", self.Op, self.Off, self.Iv, self.Md)
        default          : return self.Op.String()
    }
}

// Disassemble dumps the stream in a label-annotated form.
func (self Program) Disassemble() string {
    nb  := len(self)
    tab := make([]bool, nb + 1)
    ret := make([]string, 0, nb + 1)

    /* prescan to get all the branch targets */
    for _, ins := range self {
        if ins.Op == OP_jmp_fwd || ins.Op == OP_jmp_back {
            tab[ins.To] = true
        }
    }

    /* disassemble each instruction */
    for i, ins := range self {
        if !tab[i] {
            ret = append(ret, "\t" + ins.disassemble())
        } else {
            ret = append(ret, fmt.Sprintf("L_%d:\n\t%s", i, ins.disassemble()))
        }
    }

    /* add the last label, if needed */
    if tab[nb] {
        ret = append(ret, fmt.Sprintf("L_%d:", nb))
    }

    /* add an "end" indicator, and join all the strings */
    return strings.Join(append(ret, "\tend"), "\n")
}

// MaxOff returns the largest absolute cell offset referenced anywhere in
// the stream. It bounds how far outside the current cell a single
// instruction may reach, and therefore the danger zone the stream needs.
func (self Program) MaxOff() int64 {
    ret := int64(0)
    for _, ins := range self {
        if v := abs64(ins.Off); v > ret {
            ret = v
        }
        if ins.Op == OP_mac {
            if v := abs64(ins.Md); v > ret {
                ret = v
            }
        }
    }
    return ret
}

func abs64(v int64) int64 {
    if v < 0 {
        return -v
    } else {
        return v
    }
}
