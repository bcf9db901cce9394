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

//go:build linux && (amd64 || riscv64)

package jit

import (
    `io`
    `os`
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
    `golang.org/x/sys/unix`

    `github.com/bfkit/bfkit/internal/interp`
    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/optimizer`
    `github.com/bfkit/bfkit/internal/opts`
    `github.com/bfkit/bfkit/internal/parser`
    `github.com/bfkit/bfkit/internal/tape`
)

// runNative executes the stream through the back-end with stdin/stdout
// swapped onto pipes, and returns the bytes the program printed.
func runNative(t *testing.T, prog ir.Program, tp *tape.Tape[uint8], input string) string {
    inR, inW, err := os.Pipe()
    require.NoError(t, err)
    outR, outW, err := os.Pipe()
    require.NoError(t, err)

    _, err = inW.WriteString(input)
    require.NoError(t, err)
    require.NoError(t, inW.Close())

    saveIn, err := unix.Dup(0)
    require.NoError(t, err)
    saveOut, err := unix.Dup(1)
    require.NoError(t, err)

    require.NoError(t, unix.Dup2(int(inR.Fd()), 0))
    require.NoError(t, unix.Dup2(int(outW.Fd()), 1))

    execErr := Execute(prog, tp, opts.C8, 0, nil)

    require.NoError(t, unix.Dup2(saveIn, 0))
    require.NoError(t, unix.Dup2(saveOut, 1))
    _ = unix.Close(saveIn)
    _ = unix.Close(saveOut)
    require.NoError(t, outW.Close())
    require.NoError(t, inR.Close())

    require.NoError(t, execErr)

    buf, err := io.ReadAll(outR)
    require.NoError(t, err)
    require.NoError(t, outR.Close())
    return string(buf)
}

func prepare(t *testing.T, src string, level int) ir.Program {
    prog, err := parser.Parse([]byte(src))
    require.NoError(t, err)
    prog = optimizer.Optimize(prog, level)
    require.NoError(t, ir.Finalize(prog))
    return prog
}

func TestExecute_Scenarios(t *testing.T) {
    tests := []struct {
        src   string
        input string
        out   string
        cell  uint8
    }{
        { "++++++++[>++++++++<-]>+.", "", "A", 65 },
        { ",[.,]", "hi\n", "hi\n", 0 },
        { "+[-]+++++.", "", "\x05", 5 },
        { ">+<[->+<]>.", "", "\x01", 1 },
        { "++>+++[<+>-]<.", "", "\x05", 5 },
    }

    for _, tt := range tests {
        for level := 0; level <= optimizer.MaxLevel; level++ {
            prog := prepare(t, tt.src, level)

            tp, err := tape.New[uint8](256, 0)
            require.NoError(t, err)
            require.NoError(t, tp.GrowDangerZone(prog.MaxOff()))

            got := runNative(t, prog, tp, tt.input)
            assert.Equal(t, tt.out, got, "%q at O%d", tt.src, level)
            assert.Equal(t, tt.cell, tp.Cells()[tp.Index()], "%q at O%d", tt.src, level)
            tp.Release()
        }
    }
}

/* the back-end and the interpreter must agree on outputs and tape */
func TestExecute_MatchesInterpreter(t *testing.T) {
    corpus := []struct {
        src   string
        input string
    }{
        { "++[->+++[->++<]<]>>.", "" },
        { ">>>++[<+>->+<]<.", "" },
        { ",>,<[->->+<<]>.>.", "\x09\x04" },
    }

    for _, tt := range corpus {
        prog := prepare(t, tt.src, optimizer.MaxLevel)

        /* interpreter reference */
        it, err := tape.New[uint8](256, 0)
        require.NoError(t, err)
        require.NoError(t, it.GrowDangerZone(prog.MaxOff()))

        in := []byte(tt.input)
        var ref []byte
        m := &interp.Machine[uint8] {
            Tape:  it,
            Print: func(b byte) { ref = append(ref, b) },
            Read:  func() byte {
                if len(in) == 0 {
                    return 0
                }
                b := in[0]
                in = in[1:]
                return b
            },
        }
        require.NoError(t, m.Run(prog))

        /* native run */
        nt, err := tape.New[uint8](256, 0)
        require.NoError(t, err)
        require.NoError(t, nt.GrowDangerZone(prog.MaxOff()))

        got := runNative(t, prog, nt, tt.input)
        assert.Equal(t, string(ref), got, "%q", tt.src)
        assert.Equal(t, it.Cells(), nt.Cells(), "%q", tt.src)

        it.Release()
        nt.Release()
    }
}
