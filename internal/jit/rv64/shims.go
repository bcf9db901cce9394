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

// The read and print callbacks handed to generated code are freestanding
// ecall stubs sharing one read-write state page:
//
//     state+0: I/O scratch byte
//     state+1: EOF-seen flag
//
// End of input yields the configured EOF byte once; the next read
// terminates the process with status 1. Everything after the variable
// address materialization is emitted as fixed 32-bit forms so the
// internal branch displacements are constants.

const (
    _StateIO  = 0
    _StateEOF = 1
)

/* StateSize is the number of state-page bytes the shims use. */
const StateSize = 2

const (
    sysRead  = 63
    sysWrite = 64
    sysExit  = 93
)

const (
    A7 Reg = 17
)

func (self *Compiler) emitReadShim(state uintptr, eof byte) []byte {
    a := newAssembler()
    a.li(A1, int64(state))

    a.raw32(encI(opImm, 0, A7, ZERO, sysRead))
    a.raw32(encI(opImm, 0, A0, ZERO, 0))
    a.raw32(encI(opImm, 0, A2, ZERO, 1))
    a.raw32(encI(opSystem, 0, ZERO, ZERO, 0))

    /* n <= 0 is end of input */
    a.raw32(encB(opBranch, 5, ZERO, A0, 12))

    a.raw32(encI(opLoad, 4, A0, A1, _StateIO))
    a.raw32(encI(opJalr, 0, ZERO, RA, 0))

    /* eof: the byte once, then die */
    a.raw32(encI(opLoad, 4, T1, A1, _StateEOF))
    a.raw32(encB(opBranch, 1, T1, ZERO, 20))
    a.raw32(encI(opImm, 0, T1, ZERO, 1))
    a.raw32(encS(opStore, 0, A1, T1, _StateEOF))
    a.raw32(encI(opImm, 0, A0, ZERO, int32(eof)))
    a.raw32(encI(opJalr, 0, ZERO, RA, 0))

    /* die: exit(1) */
    a.raw32(encI(opImm, 0, A7, ZERO, sysExit))
    a.raw32(encI(opImm, 0, A0, ZERO, 1))
    a.raw32(encI(opSystem, 0, ZERO, ZERO, 0))

    return a.last().code
}

func (self *Compiler) emitPrintShim(state uintptr) []byte {
    a := newAssembler()
    a.li(A1, int64(state))

    a.raw32(encS(opStore, 0, A1, A0, _StateIO))
    a.raw32(encI(opImm, 0, A7, ZERO, sysWrite))
    a.raw32(encI(opImm, 0, A0, ZERO, 1))
    a.raw32(encI(opImm, 0, A2, ZERO, 1))
    a.raw32(encI(opSystem, 0, ZERO, ZERO, 0))
    a.raw32(encI(opJalr, 0, ZERO, RA, 0))

    return a.last().code
}
