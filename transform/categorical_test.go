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

package transform

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/tabular/dataset"
)

func TestCategoricalFitTransform(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddCategorical("gender", []string{"M", "F", "", "M"}))
	transformer := NewCategorical([]string{"gender"})
	require.NoError(t, transformer.Fit(table))
	// vocabulary: M, F, __missing__
	assert.Equal(t, 3, transformer.Width())

	features, err := transformer.Transform(table)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, features[0])
	assert.Equal(t, []float32{0, 1, 0}, features[1])
	assert.Equal(t, []float32{0, 0, 1}, features[2])
	assert.Equal(t, []float32{1, 0, 0}, features[3])
}

func TestCategoricalUnknownCategory(t *testing.T) {
	train := dataset.NewTable()
	require.NoError(t, train.AddCategorical("gender", []string{"M", "F"}))
	transformer := NewCategorical([]string{"gender"})
	require.NoError(t, transformer.Fit(train))

	unseen := dataset.NewTable()
	require.NoError(t, unseen.AddCategorical("gender", []string{"X", "F"}))
	features, err := transformer.Transform(unseen)
	require.NoError(t, err)
	// unknown category encodes as the all-zero vector and adds no column
	assert.Equal(t, []float32{0, 0}, features[0])
	assert.Equal(t, []float32{0, 1}, features[1])
	assert.Equal(t, 2, transformer.Width())
}

func TestCategoricalNotFitted(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddCategorical("gender", []string{"M"}))
	transformer := NewCategorical([]string{"gender"})
	_, err := transformer.Transform(table)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestCategoricalMultipleColumns(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddCategorical("a", []string{"x", "y"}))
	require.NoError(t, table.AddCategorical("b", []string{"u", "u"}))
	transformer := NewCategorical([]string{"a", "b"})
	require.NoError(t, transformer.Fit(table))
	assert.Equal(t, 3, transformer.Width())
	features, err := transformer.Transform(table)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 1}, features[0])
	assert.Equal(t, []float32{0, 1, 1}, features[1])
}

func TestCategoricalMarshal(t *testing.T) {
	table := dataset.NewTable()
	require.NoError(t, table.AddCategorical("gender", []string{"M", "F", ""}))
	transformer := NewCategorical([]string{"gender"})
	require.NoError(t, transformer.Fit(table))

	buf := bytes.NewBuffer(nil)
	require.NoError(t, transformer.Marshal(buf))
	var read Categorical
	require.NoError(t, read.Unmarshal(buf))
	assert.Equal(t, transformer.Width(), read.Width())

	features, err := read.Transform(table)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, features[1])
}
