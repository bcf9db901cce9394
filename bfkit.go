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

// Package bfkit is an optimizing Brainfuck toolchain: a multi-pass
// optimizer over a shared instruction stream, a direct interpreter, JIT
// back-ends for x86-64 and RV64IMC, source transpilers, and a
// page-guarded tape that converts overruns into a controlled exit.
package bfkit

import (
	"os"

	"github.com/bfkit/bfkit/internal/debug"
	"github.com/bfkit/bfkit/internal/interp"
	"github.com/bfkit/bfkit/internal/iox"
	"github.com/bfkit/bfkit/internal/ir"
	"github.com/bfkit/bfkit/internal/jit"
	"github.com/bfkit/bfkit/internal/optimizer"
	"github.com/bfkit/bfkit/internal/opts"
	"github.com/bfkit/bfkit/internal/parser"
	"github.com/bfkit/bfkit/internal/tape"
	"github.com/bfkit/bfkit/internal/transpiler"
)

// Run parses, optimizes and executes a program against a fresh tape,
// reading from stdin and writing to stdout. The JIT is used when the
// host supports it and nothing forces interpretation (budget,
// profiling, NoJIT); otherwise the interpreter runs.
func Run(src []byte, options ...Option) error {
	o := opts.GetDefaultOptions()
	for _, f := range options {
		f(&o)
	}

	switch o.Width {
	case opts.C16:
		return run[uint16](src, o)
	case opts.C32:
		return run[uint32](src, o)
	case opts.C64:
		return run[uint64](src, o)
	default:
		return run[uint8](src, o)
	}
}

func run[C tape.Cell](src []byte, o opts.Options) error {
	prog, err := prepare(src, o)
	if err != nil {
		return err
	}

	t, err := tape.New[C](o.CellCount, o.StartCell)
	if err != nil {
		return err
	}
	defer t.Release()

	if err := t.GrowDangerZone(prog.MaxOff()); err != nil {
		return err
	}

	if !o.NoJIT && !o.Profile && o.Budget == 0 && jit.Supported() {
		return jit.Execute(prog, t, o.Width, o.EOFByte, nil)
	}

	in := iox.NewReader(os.Stdin, o.EOFByte)
	out := iox.NewWriter(os.Stdout)
	defer out.Flush()

	m := &interp.Machine[C]{
		Tape:   t,
		Read:   in.ReadByte,
		Print:  out.PrintByte,
		Budget: o.Budget,
	}

	if !o.Profile {
		return m.Run(prog)
	}

	prof := new(interp.Profile)
	if err := m.RunProfiled(prog, prof); err != nil {
		return err
	}
	out.Flush()
	_, err = os.Stderr.WriteString(prof.Summary())
	return err
}

// Transpile renders the optimized program as source text; lang is "c"
// or "go".
func Transpile(src []byte, lang string, options ...Option) (string, error) {
	o := opts.GetDefaultOptions()
	for _, f := range options {
		f(&o)
	}

	prog, err := prepare(src, o)
	if err != nil {
		return "", err
	}

	if lang == "go" {
		return transpiler.EmitGo(prog, o.Width, o.CellCount, o.StartCell), nil
	}
	return transpiler.EmitC(prog, o.Width, o.CellCount, o.StartCell), nil
}

func prepare(src []byte, o opts.Options) (ir.Program, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	prog = optimizer.Optimize(prog, o.OptLevel)
	if err := ir.Finalize(prog); err != nil {
		return nil, err
	}

	debug.DumpIR("optimized", prog)
	return prog, nil
}
