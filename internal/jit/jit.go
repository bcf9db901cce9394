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

// Package jit is the architecture-neutral compile driver: it selects a
// back-end for the host, loads the emitted bytes under W^X, and calls
// into them with the tape and the I/O shims.
package jit

import (
    `fmt`
    `runtime`

    `github.com/klauspost/cpuid/v2`
    `go.uber.org/zap`

    `github.com/bfkit/bfkit/internal/debug`
    `github.com/bfkit/bfkit/internal/ir`
    `github.com/bfkit/bfkit/internal/jit/amd64`
    `github.com/bfkit/bfkit/internal/jit/asmcall`
    `github.com/bfkit/bfkit/internal/jit/rv64`
    `github.com/bfkit/bfkit/internal/loader`
    `github.com/bfkit/bfkit/internal/opts`
    `github.com/bfkit/bfkit/internal/tape`
)

// UnsupportedArchError is reported when the host is neither x86-64 nor
// riscv64. Callers fall back to the interpreter.
type UnsupportedArchError struct {
    Arch string
}

func (self UnsupportedArchError) Error() string {
    return fmt.Sprintf("no back-end for host architecture %q", self.Arch)
}

// Supported reports whether the host has a back-end at all. Windows
// hosts only carry the tape and its exception handling; the generated
// code and its I/O shims assume a POSIX-like kernel.
func Supported() bool {
    if runtime.GOOS == "windows" {
        return false
    }
    return runtime.GOARCH == "amd64" || runtime.GOARCH == "riscv64"
}

// Pointered is the slice of the tape the driver needs: handing out the
// raw cell pointer and taking back the updated one.
type Pointered interface {
    Ptr() uintptr
    SetPtr(uintptr)
}

// Execute compiles the stream for the host and runs it against the
// tape. The emitted code calls the read/print shims directly; their
// mutable state lives in a page that stays writable while the code
// pages are execute-only.
func Execute(prog ir.Program, t Pointered, width opts.CellWidth, eof byte, log *zap.Logger) error {
    if log == nil {
        log = zap.NewNop()
    }
    if !Supported() {
        return UnsupportedArchError { Arch: runtime.GOOS + "/" + runtime.GOARCH }
    }
    if err := tape.InstallFaultHandler(); err != nil {
        return err
    }

    state, err := loader.AllocData(64)
    if err != nil {
        return err
    }
    defer state.Release()

    var code []byte
    var rdoff int
    var wroff int

    switch runtime.GOARCH {
        default: {
            return UnsupportedArchError { Arch: runtime.GOARCH }
        }

        case "amd64": {
            log.Debug("jit host", zap.String("cpu", cpuid.CPU.BrandName), zap.Int("x64level", cpuid.CPU.X64Level()))
            out, cerr := amd64.CreateCompiler(width).Compile(prog, state.Addr(), eof)
            if cerr != nil {
                return cerr
            }
            code, rdoff, wroff = out.Code, out.ReadOff, out.PrintOff
        }

        case "riscv64": {
            out, cerr := rv64.CreateCompiler(width, log).Compile(prog, state.Addr(), eof)
            if cerr != nil {
                return cerr
            }
            code, rdoff, wroff = out.Code, out.ReadOff, out.PrintOff
        }
    }

    debug.DumpCode("jit", code)

    fn, err := loader.Load(code)
    if err != nil {
        return err
    }
    defer fn.Release()

    ret := asmcall.CallCode(fn.Addr(), t.Ptr(), fn.Addr() + uintptr(rdoff), fn.Addr() + uintptr(wroff))
    t.SetPtr(ret)
    return nil
}

// Compile emits machine code for the host without running it, for the
// standalone-executable writer. The state-page address is the one the
// standalone runtime maps at startup.
func Compile(prog ir.Program, width opts.CellWidth, eof byte, state uintptr, log *zap.Logger) ([]byte, error) {
    switch runtime.GOARCH {
        case "amd64": {
            out, err := amd64.CreateCompiler(width).Compile(prog, state, eof)
            return out.Code, err
        }

        case "riscv64": {
            out, err := rv64.CreateCompiler(width, log).Compile(prog, state, eof)
            return out.Code, err
        }

        default: {
            return nil, UnsupportedArchError { Arch: runtime.GOARCH }
        }
    }
}
