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
	"io"

	"github.com/chewxy/math32"
	"github.com/juju/errors"

	"github.com/gorse-io/tabular/base/encoding"
	"github.com/gorse-io/tabular/dataset"
)

// Numerical imputes missing values with the per-column training mean and
// standardizes with training mean and standard deviation. Statistics are
// learned once at fit time and never recomputed from transformed data.
type Numerical struct {
	ColumnNames []string
	Means       []float32
	Scales      []float32
}

// NewNumerical creates a numerical transformer bound to the given columns.
func NewNumerical(columns []string) *Numerical {
	return &Numerical{ColumnNames: columns}
}

func (t *Numerical) Columns() []string {
	return t.ColumnNames
}

func (t *Numerical) Width() int {
	return len(t.ColumnNames)
}

func (t *Numerical) fitted() bool {
	return len(t.Means) == len(t.ColumnNames) && len(t.Scales) == len(t.ColumnNames)
}

// Fit computes per-column mean and standard deviation, skipping missing
// cells. A constant column scales by 1 so its output is exactly zero.
func (t *Numerical) Fit(table *dataset.Table) error {
	t.Means = make([]float32, len(t.ColumnNames))
	t.Scales = make([]float32, len(t.ColumnNames))
	for c, name := range t.ColumnNames {
		column, err := table.Numerical(name)
		if err != nil {
			return errors.Trace(err)
		}
		var sum float32
		var count int
		for _, value := range column {
			if !math32.IsNaN(value) {
				sum += value
				count++
			}
		}
		if count == 0 {
			return errors.NotValidf("column %s with no observed values", name)
		}
		mean := sum / float32(count)
		var sumSquares float32
		for _, value := range column {
			if !math32.IsNaN(value) {
				sumSquares += (value - mean) * (value - mean)
			}
		}
		scale := math32.Sqrt(sumSquares / float32(count))
		if scale == 0 {
			scale = 1
		}
		t.Means[c] = mean
		t.Scales[c] = scale
	}
	return nil
}

// Transform fills missing cells with the stored mean, then standardizes with
// the stored statistics.
func (t *Numerical) Transform(table *dataset.Table) ([][]float32, error) {
	if !t.fitted() {
		return nil, errors.Trace(ErrNotFitted)
	}
	features := make([][]float32, table.NumRows())
	for i := range features {
		features[i] = make([]float32, len(t.ColumnNames))
	}
	for c, name := range t.ColumnNames {
		column, err := table.Numerical(name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		for i, value := range column {
			if math32.IsNaN(value) {
				value = t.Means[c]
			}
			features[i][c] = (value - t.Means[c]) / t.Scales[c]
		}
	}
	return features, nil
}

// Marshal writes fitted statistics to a byte stream.
func (t *Numerical) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, t.ColumnNames); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.WriteGob(w, t.Means); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(encoding.WriteGob(w, t.Scales))
}

// Unmarshal reads fitted statistics from a byte stream.
func (t *Numerical) Unmarshal(r io.Reader) error {
	if err := encoding.ReadGob(r, &t.ColumnNames); err != nil {
		return errors.Trace(err)
	}
	if err := encoding.ReadGob(r, &t.Means); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(encoding.ReadGob(r, &t.Scales))
}
