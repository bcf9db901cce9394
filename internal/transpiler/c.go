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

// Package transpiler renders a finalized instruction stream as C or Go
// source text. It emits text only; compiling the result is the
// caller's business.
package transpiler

import (
    `fmt`
    `strings`

    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/opts`
)

// cTemplate is the fixed runtime the program body is spliced into.
// Note the read semantics: end of input leaves the cell untouched.
const cTemplate = `#include <stdint.h>
#include <stdio.h>

DEFINITIONS

static cell_t mem[MEMSIZE];
static cell_t *c = mem + INITIAL_CELL;

static inline void read(cell_t *c)
{
	int r = getc(stdin);
	if (r < 0)
		return;
	*c = (unsigned char)r;
}

static inline void print(cell_t c)
{
	(void)putc((unsigned char)c, stdout);
}

int main()
{
	PROGRAM
	return 0;
}
`

// EmitC renders the stream as a standalone C program.
func EmitC(p ir.Program, width opts.CellWidth, cells int, start int) string {
    var body strings.Builder

    depth := 1
    for _, ins := range p {
        if ins.Op == ir.OP_jmp_back {
            depth--
        }

        body.WriteString(strings.Repeat("\t", depth))
        body.WriteString(cStmt(ins))
        body.WriteByte('\n')

        if ins.Op == ir.OP_jmp_fwd {
            depth++
        }
    }

    defs := fmt.Sprintf("typedef uint%d_t cell_t;\n#define MEMSIZE %d\n#define INITIAL_CELL %d", width, cells, start)

    r := strings.NewReplacer("DEFINITIONS", defs, "\tPROGRAM\n", body.String())
    return r.Replace(cTemplate)
}

func cStmt(ins ir.Instr) string {
    switch ins.Op {
        case ir.OP_add      : return fmt.Sprintf("*(c + %d) += (cell_t)%d;", ins.Off, ins.Iv)
        case ir.OP_move     : return fmt.Sprintf("c += %d;", ins.Iv)
        case ir.OP_print    : return fmt.Sprintf("print(*(c + %d));", ins.Off)
        case ir.OP_read     : return fmt.Sprintf("read(c + %d);", ins.Off)
        case ir.OP_jmp_fwd  : return fmt.Sprintf("while (*(c + %d)) {", ins.Off)
        case ir.OP_jmp_back : return "}"
        case ir.OP_set      : return fmt.Sprintf("*(c + %d) = (cell_t)%d;", ins.Off, ins.Iv)
        case ir.OP_mac      : return fmt.Sprintf("*(c + %d) += *(c + %d) * (cell_t)%d;", ins.Md, ins.Off, ins.Iv)
        default             : return ""
    }
}
