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

// Package standalone reads and writes the trailer format of standalone
// executables: a runtime blob followed by the emitted machine code, one
// cell-width byte, the danger-zone size and the machine-code length,
// both 8-byte little-endian. The runtime reads the fields back from the
// file tail.
package standalone

import (
	"encoding/binary"
	"fmt"

	"github.com/bfkit/bfkit/internal/opts"
)

const tailSize = 1 + 8 + 8

// Pack appends code and the trailer fields to a copy of the runtime
// blob.
func Pack(runtime []byte, code []byte, width opts.CellWidth, danger uint64) []byte {
	out := make([]byte, 0, len(runtime)+len(code)+tailSize)
	out = append(out, runtime...)
	out = append(out, code...)
	out = append(out, byte(width))
	out = binary.LittleEndian.AppendUint64(out, danger)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(code)))
	return out
}

// Unpack recovers the machine code and the trailer fields from a packed
// executable image.
func Unpack(blob []byte) (code []byte, width opts.CellWidth, danger uint64, err error) {
	if len(blob) < tailSize {
		return nil, 0, 0, fmt.Errorf("standalone: image too short: %d bytes", len(blob))
	}

	tail := blob[len(blob)-tailSize:]
	width = opts.CellWidth(tail[0])
	danger = binary.LittleEndian.Uint64(tail[1:9])
	size := binary.LittleEndian.Uint64(tail[9:17])

	if !width.Valid() {
		return nil, 0, 0, fmt.Errorf("standalone: invalid cell width %d", width)
	}
	if size > uint64(len(blob)-tailSize) {
		return nil, 0, 0, fmt.Errorf("standalone: code length %d exceeds image", size)
	}

	body := blob[:len(blob)-tailSize]
	return body[uint64(len(body))-size:], width, danger, nil
}
