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

// The fault handler identifies the currently active tape through one
// process-wide address range: a weak reference, never dereferenced.
// Ordering contract: register before unprotecting any page, unregister
// before unmapping. The core is single-threaded, so plain stores do.
var active struct {
	base uintptr
	size uintptr
}

func register(base uintptr, size uintptr) {
	active.base = base
	active.size = size
	publishRange(base, size)
}

// unregister clears the registration iff it still refers to the given
// mapping. Growing the tape registers the replacement first and then
// releases the old mapping, which must not knock out the new range.
func unregister(base uintptr) {
	if active.base == base {
		active.base = 0
		active.size = 0
		publishRange(0, 0)
	}
}

// Contains reports whether addr falls inside the active mapping,
// danger zones included.
func Contains(addr uintptr) bool {
	return active.base != 0 && addr >= active.base && addr < active.base+active.size
}
