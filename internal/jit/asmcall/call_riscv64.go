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

// Package asmcall enters emitted machine code with the platform C
// calling convention. The trampolines are plain assembly so no Go frame
// metadata ever describes the generated code.
package asmcall

// CallCode calls the code at entry with (cells, read, print) in the
// first three integer argument registers and returns the first result
// register: the updated cell pointer.
func CallCode(entry uintptr, cells uintptr, read uintptr, print uintptr) uintptr
