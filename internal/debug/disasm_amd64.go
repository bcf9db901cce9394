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

package debug

import (
	"fmt"
	"os"

	"golang.org/x/arch/x86/x86asm"
)

// DumpCode disassembles emitted x86-64 bytes to stderr when "asm" is
// set. Undecodable tails (the odd data byte) are hex-dumped one byte at
// a time.
func DumpCode(tag string, code []byte) {
	if !Enabled("asm") {
		return
	}

	fmt.Fprintf(os.Stderr, "--- %s (%d bytes) ---\n", tag, len(code))
	for pos := 0; pos < len(code); {
		inst, err := x86asm.Decode(code[pos:], 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%6x:\t.byte %#02x\n", pos, code[pos])
			pos++
			continue
		}
		fmt.Fprintf(os.Stderr, "%6x:\t%s\n", pos, x86asm.GNUSyntax(inst, uint64(pos), nil))
		pos += inst.Len
	}
}
