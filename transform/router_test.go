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

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/tabular/dataset"
)

func routerFixture(t *testing.T) (*ColumnRouter, *dataset.Table) {
	t.Helper()
	table := dataset.NewTable()
	require.NoError(t, table.AddNumerical("age", []float32{20, 40, math32.NaN()}))
	require.NoError(t, table.AddNumerical("credit_score", []float32{500, 600, 550}))
	require.NoError(t, table.AddCategorical("gender", []string{"M", "F", "F"}))
	router, err := NewColumnRouter(
		Stage{Name: "numerical", Transformer: NewNumerical([]string{"age", "credit_score"})},
		Stage{Name: "categorical", Transformer: NewCategorical([]string{"gender"})},
	)
	require.NoError(t, err)
	return router, table
}

func TestColumnRouterFitTransform(t *testing.T) {
	router, table := routerFixture(t)
	require.NoError(t, router.Fit(table))
	assert.Equal(t, 4, router.Width())
	assert.Equal(t, []string{"age", "credit_score", "gender"}, router.Columns())

	features, err := router.Transform(table)
	require.NoError(t, err)
	assert.Len(t, features, 3)
	for _, row := range features {
		assert.Len(t, row, 4)
	}
	// numerical block first, categorical block after, in stage order
	assert.Equal(t, float32(1), features[0][2])
	assert.Equal(t, float32(1), features[1][3])
}

func TestColumnRouterDisjointColumns(t *testing.T) {
	_, err := NewColumnRouter(
		Stage{Name: "a", Transformer: NewNumerical([]string{"x"})},
		Stage{Name: "b", Transformer: NewNumerical([]string{"x"})},
	)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestColumnRouterMissingColumn(t *testing.T) {
	router, table := routerFixture(t)
	require.NoError(t, router.Fit(table))

	incomplete := dataset.NewTable()
	require.NoError(t, incomplete.AddNumerical("age", []float32{30}))
	require.NoError(t, incomplete.AddCategorical("gender", []string{"F"}))
	_, err := router.Transform(incomplete)
	assert.True(t, errors.Is(err, errors.NotFound))
	assert.Contains(t, err.Error(), "credit_score")
}

func TestColumnRouterNotFitted(t *testing.T) {
	router, table := routerFixture(t)
	_, err := router.Transform(table)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestColumnRouterMarshal(t *testing.T) {
	router, table := routerFixture(t)
	require.NoError(t, router.Fit(table))
	want, err := router.Transform(table)
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	require.NoError(t, router.Marshal(buf))
	var read ColumnRouter
	require.NoError(t, read.Unmarshal(buf))

	got, err := read.Transform(table)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
