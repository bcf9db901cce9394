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

package parser

import (
    `github.com/bfkit/bfkit/internal/ir`
)

// Parse decodes source text into an instruction stream. Every non-command
// byte is a comment and skipped. The stream comes out one instruction per
// command with zero cell offsets; folding of runs is the optimizer's job.
//
// Bracket targets are NOT assigned here: the stream has to survive the
// optimizer first. Parse only checks that the brackets balance, so that an
// interactive caller can distinguish "keep typing" (ErrUnmatchedJumpForward)
// from a plain syntax error (ErrUnmatchedJumpBack).
func Parse(src []byte) (ir.Program, error) {
    depth := 0
    p := make(ir.Program, 0, len(src))

    for _, c := range src {
        switch c {
            case '+': p.Add(0, 1)
            case '-': p.Add(0, -1)
            case '>': p.Move(1)
            case '<': p.Move(-1)
            case '.': p.Print(0)
            case ',': p.Read(0)

            case '[': {
                depth++
                p.JmpFwd(0)
            }

            case ']': {
                if depth--; depth < 0 {
                    return nil, ir.ErrUnmatchedJumpBack
                }
                p.JmpBack(0)
            }
        }
    }

    if depth != 0 {
        return p, ir.ErrUnmatchedJumpForward
    } else {
        return p, nil
    }
}
