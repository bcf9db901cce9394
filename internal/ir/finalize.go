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

package ir

import (
    `errors`

    `github.com/oleiade/lane`
)

// ErrUnmatchedJumpForward is reported when the stream ends inside an open
// loop. Interactive callers treat it as "read more input".
var ErrUnmatchedJumpForward = errors.New("unmatched '[': stream ends inside a loop")

// ErrUnmatchedJumpBack is reported for a stray ']'. It is a plain syntax
// error, there is no recovery.
var ErrUnmatchedJumpBack = errors.New("unmatched ']'")

// Finalize fills the branch targets of every bracket pair with a single
// linear pass. Each forward jump points at its matching back jump and
// vice versa, so the interpreter's post-dispatch increment lands just
// past the partner bracket in both directions: after the back jump when
// skipping a loop, at the start of the body when repeating it.
func Finalize(p Program) error {
    s := lane.NewStack()

    for i := range p {
        switch p[i].Op {
            default: continue

            case OP_jmp_fwd: {
                s.Push(i)
            }

            case OP_jmp_back: {
                if s.Empty() {
                    return ErrUnmatchedJumpBack
                }
                j := s.Pop().(int)
                p[j].To = i
                p[i].To = j
            }
        }
    }

    if !s.Empty() {
        return ErrUnmatchedJumpForward
    } else {
        return nil
    }
}
