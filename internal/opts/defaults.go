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

package opts

import (
	"os"
	"strconv"
)

const (
	_DefaultOptLevel  = 4
	_DefaultCellCount = 30000
	_DefaultEOFByte   = 0
)

var (
	OptLevel  = parseOrDefault("BFKIT_OPT_LEVEL", _DefaultOptLevel, 4)
	CellCount = parseOrDefault("BFKIT_CELL_COUNT", _DefaultCellCount, 1<<30)
	NoJIT     = os.Getenv("BFKIT_NO_JIT") != ""
)

func parseOrDefault(key string, def int, max int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("bfkit: invalid value for " + key)
	} else if ret := int(val); ret > max {
		panic("bfkit: value too large for " + key)
	} else {
		return ret
	}
}
