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
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTape_Basic(t *testing.T) {
	tp, err := New[uint8](64, 3)
	require.NoError(t, err)
	defer tp.Release()

	assert.Equal(t, 3, tp.Index())
	assert.True(t, tp.InBounds())

	tp.Store(0, 41)
	tp.Store(2, 7)
	assert.Equal(t, uint8(41), tp.Load(0))
	assert.Equal(t, uint8(7), tp.Load(2))

	tp.Move(2)
	assert.Equal(t, 5, tp.Index())
	assert.Equal(t, uint8(7), tp.Load(0))
}

func TestTape_Widths(t *testing.T) {
	tp, err := New[uint32](16, 0)
	require.NoError(t, err)
	defer tp.Release()

	tp.Store(1, 0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), tp.Load(1))
	assert.Equal(t, uint32(0xdeadbeef), tp.Cells()[1])
}

func TestTape_GrowDangerZone(t *testing.T) {
	tp, err := New[uint16](32, 4)
	require.NoError(t, err)
	defer tp.Release()

	tp.Store(0, 0x1234)
	before := tp.DangerBytes()

	/* a small reach changes nothing */
	require.NoError(t, tp.GrowDangerZone(1))
	assert.Equal(t, before, tp.DangerBytes())

	/* a reach past the current zone grows it; cells and the pointer
	 * index survive the remap */
	maxOff := int64(3 * os.Getpagesize())
	require.NoError(t, tp.GrowDangerZone(maxOff))

	need := maxOff * int64(unsafe.Sizeof(uint16(0)))
	assert.GreaterOrEqual(t, int64(tp.DangerBytes()), need)
	assert.Equal(t, 4, tp.Index())
	assert.Equal(t, uint16(0x1234), tp.Load(0))

	/* zones never shrink */
	grown := tp.DangerBytes()
	require.NoError(t, tp.GrowDangerZone(1))
	assert.Equal(t, grown, tp.DangerBytes())
}

func TestTape_InBounds(t *testing.T) {
	tp, err := New[uint8](16, 0)
	require.NoError(t, err)
	defer tp.Release()

	tp.Move(-1)
	assert.False(t, tp.InBounds())
	tp.Move(1)
	assert.True(t, tp.InBounds())
}

func TestTape_ActiveRange(t *testing.T) {
	tp, err := New[uint8](16, 0)
	require.NoError(t, err)

	assert.True(t, Contains(tp.Ptr()))
	assert.False(t, Contains(0x1))

	tp.Release()
	assert.False(t, Contains(tp.Ptr()))
}

func TestGuard_Overrun(t *testing.T) {
	tp, err := New[uint8](16, 0)
	require.NoError(t, err)
	defer tp.Release()

	/* into the right danger zone (the cell region rounds up to whole
	 * pages): the access faults and the guard reports it as an overrun
	 * instead of crashing the process */
	err = Guard(func() error {
		tp.Store(int64(pageCeil(16)+tp.DangerBytes()/2), 1)
		return nil
	})
	require.ErrorIs(t, err, ErrOverrun)

	/* the tape itself is still fine */
	tp.Store(0, 9)
	assert.Equal(t, uint8(9), tp.Load(0))
}

func TestGuard_PassThrough(t *testing.T) {
	require.NoError(t, Guard(func() error { return nil }))

	assert.Panics(t, func() {
		_ = Guard(func() error { panic("unrelated") })
	})
}
