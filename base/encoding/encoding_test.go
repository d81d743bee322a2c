// Copyright 2024 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadMatrix(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	m := [][]float32{{1, 2, 3}, {4, 5, 6}}
	err := WriteMatrix(buf, m)
	assert.NoError(t, err)
	read := [][]float32{make([]float32, 3), make([]float32, 3)}
	err = ReadMatrix(buf, read)
	assert.NoError(t, err)
	assert.Equal(t, m, read)
}

func TestWriteReadString(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	err := WriteString(buf, "hello, world")
	assert.NoError(t, err)
	s, err := ReadString(buf)
	assert.NoError(t, err)
	assert.Equal(t, "hello, world", s)
}

func TestWriteReadGob(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	err := WriteGob(buf, map[string]int{"a": 1, "b": 2})
	assert.NoError(t, err)
	var read map[string]int
	err = ReadGob(buf, &read)
	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, read)
}

func TestReadBytesNegativeLength(t *testing.T) {
	// a corrupt stream must fail instead of allocating a negative-length slice
	_, err := ReadBytes(bytes.NewReader([]byte{0xff, 0xff, 0xff, 0xff}))
	assert.Error(t, err)
}

func TestFormatFloat32(t *testing.T) {
	assert.Equal(t, "0.1", FormatFloat32(0.1))
	assert.Equal(t, "1", FormatFloat32(1))
}
