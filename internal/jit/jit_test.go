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

package jit

import (
    `runtime`
    `testing`

    `github.com/stretchr/testify/assert`
)

func TestSupported(t *testing.T) {
    want := runtime.GOOS != "windows" && (runtime.GOARCH == "amd64" || runtime.GOARCH == "riscv64")
    assert.Equal(t, want, Supported())
}

func TestUnsupportedArchError(t *testing.T) {
    err := UnsupportedArchError { Arch: "wasm" }
    assert.Contains(t, err.Error(), "wasm")
}
