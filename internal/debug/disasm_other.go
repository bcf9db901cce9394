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

//go:build !amd64

package debug

import (
	"fmt"
	"os"
)

// DumpCode hex-dumps emitted bytes when "asm" is set; there is no
// disassembler wired for this architecture.
func DumpCode(tag string, code []byte) {
	if !Enabled("asm") {
		return
	}
	fmt.Fprintf(os.Stderr, "--- %s (%d bytes) ---\n% x\n", tag, len(code), code)
}
