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

package tape

import (
	"errors"
	"runtime/debug"
)

// ErrOverrun reports a cell access that landed in a danger zone.
var ErrOverrun = errors.New("tape overrun")

// Guard runs fn with faults converted to panics and classifies any fault
// against the active mapping: inside it, fn "reached the end of the tape"
// and ErrOverrun comes back; anywhere else the panic is not ours and is
// re-raised. This is the Go-code counterpart of the native handler, which
// covers faults raised by generated code.
func Guard(fn func() error) (err error) {
	prev := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(prev)

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if fe, ok := v.(interface{ Addr() uintptr }); ok && Contains(fe.Addr()) {
			err = ErrOverrun
			return
		}
		panic(v)
	}()

	return fn()
}
