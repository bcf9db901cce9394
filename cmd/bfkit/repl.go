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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/bfkit/bfkit/internal/interp"
	"github.com/bfkit/bfkit/internal/iox"
	"github.com/bfkit/bfkit/internal/ir"
	"github.com/bfkit/bfkit/internal/optimizer"
	"github.com/bfkit/bfkit/internal/parser"
	"github.com/bfkit/bfkit/internal/tape"
)

// runREPL evaluates chunks against one persistent tape. A chunk is
// complete once its brackets balance; an open loop just keeps the
// prompt reading. Program reads and prompt lines share stdin, in line
// order.
func runREPL(log *zap.Logger) {
	switch *width {
	case 16:
		repl16(log)
	case 32:
		repl32(log)
	case 64:
		repl64(log)
	default:
		repl8(log)
	}
}

func repl8(log *zap.Logger)  { replWith[uint8](log) }
func repl16(log *zap.Logger) { replWith[uint16](log) }
func repl32(log *zap.Logger) { replWith[uint32](log) }
func repl64(log *zap.Logger) { replWith[uint64](log) }

func replWith[C tape.Cell](log *zap.Logger) {
	t, err := tape.New[C](*cells, 0)
	if err != nil {
		log.Error("cannot map tape", zap.Error(err))
		os.Exit(1)
	}
	defer t.Release()

	in := bufio.NewReader(os.Stdin)
	out := iox.NewWriter(os.Stdout)
	defer out.Flush()

	rd := iox.NewReaderFrom(in, byte(*eofByte))

	m := &interp.Machine[C]{
		Tape:   t,
		Read:   rd.ReadByte,
		Print:  out.PrintByte,
		Budget: *budget,
	}

	var chunk []byte
	for {
		if len(chunk) == 0 {
			fmt.Print("bf> ")
		} else {
			fmt.Print("..> ")
		}

		line, err := in.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Println()
			return
		}
		if err != nil && line == "" {
			log.Error("read failed", zap.Error(err))
			return
		}

		chunk = append(chunk, line...)
		prog, perr := parser.Parse(chunk)

		switch {
		case errors.Is(perr, ir.ErrUnmatchedJumpForward):
			continue

		case errors.Is(perr, ir.ErrUnmatchedJumpBack):
			log.Warn("unmatched ']', chunk dropped")
			chunk = chunk[:0]
			continue
		}

		chunk = chunk[:0]
		prog = optimizer.Optimize(prog, *optLevel)

		if err := ir.Finalize(prog); err != nil {
			log.Warn("bad chunk", zap.Error(err))
			continue
		}

		/* the chunk may reach further out than any before it */
		if err := t.GrowDangerZone(prog.MaxOff()); err != nil {
			log.Error("cannot grow danger zone", zap.Error(err))
			return
		}

		if err := m.Run(prog); err != nil {
			out.Flush()
			if errors.Is(err, tape.ErrOverrun) {
				fmt.Fprintln(os.Stderr, "Reached end of tape")
				os.Exit(1)
			}
			log.Error("chunk failed", zap.Error(err))
			return
		}
		out.Flush()
	}
}
