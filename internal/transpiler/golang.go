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

package transpiler

import (
    `fmt`
    `strings`

    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/opts`
)

// EmitGo renders the stream as a self-contained Go main package.
// Cell arithmetic wraps through the unsigned cell type; end of input
// leaves the cell untouched, matching the C emitter.
func EmitGo(p ir.Program, width opts.CellWidth, cells int, start int) string {
    var sb strings.Builder

    fmt.Fprintf(&sb, `package main

import (
	"bufio"
	"os"
)

func main() {
	mem := make([]uint%d, %d)
	c := %d
	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
`, width, cells, start)

    depth := 1
    for _, ins := range p {
        if ins.Op == ir.OP_jmp_back {
            depth--
        }

        sb.WriteString(strings.Repeat("\t", depth))
        sb.WriteString(goStmt(ins, width))
        sb.WriteByte('\n')

        if ins.Op == ir.OP_jmp_fwd {
            depth++
        }
    }

    sb.WriteString("\t_ = c\n\t_ = in\n}\n")
    return sb.String()
}

func goStmt(ins ir.Instr, width opts.CellWidth) string {
    w := int(width)

    /* negative constants have to be pre-wrapped, uint8(-1) does not
     * convert as a Go constant expression */
    mask := ^uint64(0) >> (64 - w)
    uv := uint64(ins.Iv) & mask

    switch ins.Op {
        case ir.OP_add      : return fmt.Sprintf("mem[c%+d] += uint%d(%#x)", ins.Off, w, uv)
        case ir.OP_move     : return fmt.Sprintf("c += %d", ins.Iv)
        case ir.OP_print    : return fmt.Sprintf("out.WriteByte(byte(mem[c%+d]))", ins.Off)
        case ir.OP_read     : return fmt.Sprintf("if b, err := in.ReadByte(); err == nil { mem[c%+d] = uint%d(b) }", ins.Off, w)
        case ir.OP_jmp_fwd  : return fmt.Sprintf("for mem[c%+d] != 0 {", ins.Off)
        case ir.OP_jmp_back : return "}"
        case ir.OP_set      : return fmt.Sprintf("mem[c%+d] = uint%d(%#x)", ins.Off, w, uv)
        case ir.OP_mac      : return fmt.Sprintf("mem[c%+d] += mem[c%+d] * uint%d(%#x)", ins.Md, ins.Off, w, uv)
        default             : return ""
    }
}
