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

//go:build !(linux && cgo && (amd64 || riscv64))

package tape

// Without the native handler, faults from Go-side tape accesses are still
// converted by Guard; only generated code loses the controlled-exit path,
// and hosts that cannot run generated code do not take it anyway.
func InstallFaultHandler() error {
	return nil
}

func publishRange(base uintptr, size uintptr) {}
