// Copyright 2025 gorse Project Authors
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

package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/tabular/base"
)

func TestDict(t *testing.T) {
	d := NewDict()
	assert.Equal(t, int32(0), d.Id("M"))
	assert.Equal(t, int32(1), d.Id("F"))
	assert.Equal(t, int32(0), d.Id("M"))
	assert.Equal(t, 2, d.Count())

	assert.Equal(t, int32(1), d.Lookup("F"))
	assert.Equal(t, base.NotId, d.Lookup("X"))
	// Lookup never extends the vocabulary
	assert.Equal(t, 2, d.Count())

	s, ok := d.String(0)
	assert.True(t, ok)
	assert.Equal(t, "M", s)
	_, ok = d.String(5)
	assert.False(t, ok)
	assert.Equal(t, []string{"M", "F"}, d.Strings())
}

func TestDictMarshal(t *testing.T) {
	d := NewDict()
	d.Id("a")
	d.Id("b")
	d.Id("c")

	buf := bytes.NewBuffer(nil)
	require.NoError(t, d.Marshal(buf))
	read := NewDict()
	require.NoError(t, read.Unmarshal(buf))
	assert.Equal(t, 3, read.Count())
	assert.Equal(t, int32(1), read.Lookup("b"))
	assert.Equal(t, base.NotId, read.Lookup("d"))
}
