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

// CellWidth selects the unsigned integer type of one tape cell. All cell
// arithmetic wraps at this width.
type CellWidth uint8

const (
	C8 CellWidth = 8 << iota
	C16
	C32
	C64
)

func (self CellWidth) Bytes() int {
	return int(self) / 8
}

func (self CellWidth) Valid() bool {
	switch self {
	case C8, C16, C32, C64:
		return true
	default:
		return false
	}
}

type Options struct {
	Width     CellWidth
	OptLevel  int
	CellCount int
	StartCell int
	Budget    int64 // interpreter instruction budget, 0 means unlimited
	EOFByte   byte
	NoJIT     bool
	Profile   bool
}

func GetDefaultOptions() Options {
	return Options{
		Width:     C8,
		OptLevel:  OptLevel,
		CellCount: CellCount,
		StartCell: 0,
		EOFByte:   _DefaultEOFByte,
		NoJIT:     NoJIT,
	}
}
