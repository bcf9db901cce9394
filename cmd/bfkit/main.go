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

// Command bfkit runs, profiles or transpiles Brainfuck programs.
//
//	bfkit [-O level] [-w width] [-jit=false] [-budget n] [-profile] prog.bf
//	bfkit -transpile c prog.bf
//	bfkit -i
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bfkit/bfkit"
	"github.com/bfkit/bfkit/internal/tape"
)

var (
	optLevel  = flag.Int("O", 4, "optimization level (0..4)")
	width     = flag.Int("w", 8, "cell width in bits (8, 16, 32, 64)")
	cells     = flag.Int("n", 30000, "tape length in cells")
	useJIT    = flag.Bool("jit", true, "use the native back-end when the host supports it")
	budget    = flag.Int64("budget", 0, "instruction budget, 0 means unlimited (forces the interpreter)")
	profile   = flag.Bool("profile", false, "profile the run (forces the interpreter)")
	eofByte   = flag.Int("eof", 0, "byte stored on end of input")
	transpile = flag.String("transpile", "", "emit source text instead of running: c or go")
	repl      = flag.Bool("i", false, "interactive mode")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: bfkit [options] <file>\n")
	flag.PrintDefaults()
}

func newLogger() *zap.Logger {
	if os.Getenv("BFKIT_DEBUG") != "" {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

func main() {
	flag.Usage = usage
	flag.Parse()

	log := newLogger()
	defer func() { _ = log.Sync() }()

	if *repl {
		runREPL(log)
		return
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Error("cannot read program", zap.Error(err))
		os.Exit(1)
	}

	options := []bfkit.Option{
		bfkit.WithOptLevel(*optLevel),
		bfkit.WithCellWidth(bfkit.CellWidth(*width)),
		bfkit.WithCellCount(*cells),
		bfkit.WithBudget(*budget),
		bfkit.WithEOFByte(byte(*eofByte)),
		bfkit.WithNoJIT(!*useJIT),
		bfkit.WithProfile(*profile),
	}

	if *transpile != "" {
		text, err := bfkit.Transpile(src, *transpile, options...)
		if err != nil {
			log.Error("transpile failed", zap.Error(err))
			os.Exit(1)
		}
		fmt.Print(text)
		return
	}

	if err := bfkit.Run(src, options...); err != nil {
		exitOn(log, err)
	}
}

// exitOn maps toolchain errors to the process contract: overruns and
// syntax errors end with status 1, everything else is reported the
// same way.
func exitOn(log *zap.Logger, err error) {
	switch {
	case errors.Is(err, tape.ErrOverrun):
		fmt.Fprintln(os.Stderr, "Reached end of tape")
		os.Exit(1)

	case errors.Is(err, bfkit.ErrUnmatchedJumpForward):
		log.Warn("unexpected end of input inside a loop")
		os.Exit(1)

	case errors.Is(err, bfkit.ErrUnmatchedJumpBack):
		log.Warn("unmatched ']' in program")
		os.Exit(1)

	default:
		var large bfkit.LargeOffsetError
		if errors.As(err, &large) {
			log.Error("program too large for the x86-64 back-end, try a lower -O level", zap.Error(err))
		} else {
			log.Error("run failed", zap.Error(err))
		}
		os.Exit(1)
	}
}
