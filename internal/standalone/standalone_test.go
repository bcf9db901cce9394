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

package standalone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfkit/bfkit/internal/opts"
)

func TestPackUnpack(t *testing.T) {
	rt := []byte("fake runtime blob")
	code := []byte{0x55, 0x48, 0x89, 0xe5, 0xc3}

	img := Pack(rt, code, opts.C32, 0x2000)
	assert.Equal(t, rt, img[:len(rt)])

	got, width, danger, err := Unpack(img)
	require.NoError(t, err)
	assert.Equal(t, code, got)
	assert.Equal(t, opts.C32, width)
	assert.Equal(t, uint64(0x2000), danger)
}

func TestUnpack_Invalid(t *testing.T) {
	_, _, _, err := Unpack([]byte{1, 2, 3})
	assert.Error(t, err)

	/* a width byte outside {8,16,32,64} is rejected */
	img := Pack(nil, []byte{0xc3}, opts.C8, 0)
	img[len(img)-17] = 7
	_, _, _, err = Unpack(img)
	assert.Error(t, err)

	/* a code length larger than the image is rejected */
	img = Pack(nil, []byte{0xc3}, opts.C8, 0)
	img[len(img)-8] = 0xff
	_, _, _, err = Unpack(img)
	assert.Error(t, err)
}
