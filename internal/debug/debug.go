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

// Package debug dumps intermediate artifacts when BFKIT_DEBUG names
// them, comma-separated: "ir" for the instruction stream, "asm" for the
// emitted machine code.
package debug

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/bfkit/bfkit/internal/ir"
)

var flags = func() map[string]bool {
	m := make(map[string]bool)
	for _, f := range strings.Split(os.Getenv("BFKIT_DEBUG"), ",") {
		if f = strings.TrimSpace(f); f != "" {
			m[f] = true
		}
	}
	return m
}()

func Enabled(flag string) bool {
	return flags[flag]
}

// DumpIR writes the disassembled stream, and the raw records when
// "ir+" is set too.
func DumpIR(tag string, p ir.Program) {
	if !Enabled("ir") {
		return
	}
	fmt.Fprintf(os.Stderr, "--- %s (%d instructions) ---\n%s\n", tag, len(p), p.Disassemble())
	if Enabled("ir+") {
		spew.Fdump(os.Stderr, p)
	}
}
