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
    `fmt`
    `runtime`

    `github.com/chenzhuoyu/iasm/x86_64`
)

// The generated code cannot call back into Go, so its read and print
// callbacks are freestanding syscall stubs emitted behind the epilogue.
// Their only mutable state (one scratch byte, one EOF flag) lives in the
// read-write state page whose address is baked in as an immediate:
//
//     state+0: I/O scratch byte
//     state+1: EOF-seen flag
//
// End of input yields the configured EOF byte once; the next read
// terminates the process with status 1.

const (
    _StateIO  = 0
    _StateEOF = 1
)

/* StateSize is the number of state-page bytes the shims use. */
const StateSize = 2

func sysno() (rd int64, wr int64, ex int64) {
    if runtime.GOOS == "darwin" {
        return 0x2000003, 0x2000004, 0x2000001
    }
    return 0, 1, 60
}

func (self *Compiler) emitReadShim(p *x86_64.Program, state uintptr, eof byte) {
    rd, _, ex := sysno()

    self.loops++
    ok := x86_64.CreateLabel(fmt.Sprintf("read_ok_%d", self.loops))
    die := x86_64.CreateLabel(fmt.Sprintf("read_die_%d", self.loops))

    /* read(0, state, 1); rsi survives the syscall (only rcx/r11 die) */
    p.MOVQ(int64(state), x86_64.RSI)
    p.MOVL(rd, x86_64.EAX)
    p.XORL(x86_64.EDI, x86_64.EDI)
    p.MOVL(1, x86_64.EDX)
    p.SYSCALL()

    p.TESTQ(x86_64.RAX, x86_64.RAX)
    p.JG(ok)

    /* end of input: once is the EOF byte, twice is fatal */
    p.CMPB(0, x86_64.Ptr(x86_64.RSI, _StateEOF))
    p.JNE(die)
    p.MOVB(1, x86_64.Ptr(x86_64.RSI, _StateEOF))
    p.MOVL(int64(eof), x86_64.EAX)
    p.RET()

    p.Link(die)
    p.MOVL(ex, x86_64.EAX)
    p.MOVL(1, x86_64.EDI)
    p.SYSCALL()

    p.Link(ok)
    p.MOVZBQ(x86_64.Ptr(x86_64.RSI, _StateIO), x86_64.RAX)
    p.RET()
}

func (self *Compiler) emitPrintShim(p *x86_64.Program, state uintptr) {
    _, wr, _ := sysno()

    /* write(1, state, 1) with the argument byte parked in the page */
    p.MOVQ(int64(state), x86_64.RSI)
    p.MOVB(x86_64.DIL, x86_64.Ptr(x86_64.RSI, _StateIO))
    p.MOVL(wr, x86_64.EAX)
    p.MOVL(1, x86_64.EDI)
    p.MOVL(1, x86_64.EDX)
    p.SYSCALL()
    p.RET()
}

func labelOffset(l *x86_64.Label) (int, error) {
    v, err := l.Evaluate()
    if err != nil {
        return 0, err
    }
    return int(v), nil
}
