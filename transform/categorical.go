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

	"github.com/juju/errors"

	"github.com/gorse-io/tabular/base"
	"github.com/gorse-io/tabular/base/encoding"
	"github.com/gorse-io/tabular/dataset"
)

// Placeholder fills missing categorical cells before encoding. It takes part
// in the fitted vocabulary like any observed category.
const Placeholder = "__missing__"

// Categorical imputes missing values with a constant placeholder and one-hot
// encodes each column against a vocabulary frozen at fit time. Categories
// unseen during fit encode as an all-zero block, never an error.
type Categorical struct {
	ColumnNames  []string
	Vocabularies []*dataset.Dict
}

// NewCategorical creates a categorical transformer bound to the given columns.
func NewCategorical(columns []string) *Categorical {
	return &Categorical{ColumnNames: columns}
}

func (t *Categorical) Columns() []string {
	return t.ColumnNames
}

func (t *Categorical) Width() int {
	width := 0
	for _, vocabulary := range t.Vocabularies {
		width += vocabulary.Count()
	}
	return width
}

// Fit records the vocabulary of observed categories per column.
func (t *Categorical) Fit(table *dataset.Table) error {
	t.Vocabularies = make([]*dataset.Dict, len(t.ColumnNames))
	for c, name := range t.ColumnNames {
		column, err := table.Categorical(name)
		if err != nil {
			return errors.Trace(err)
		}
		vocabulary := dataset.NewDict()
		for _, value := range column {
			if value == "" {
				value = Placeholder
			}
			vocabulary.Id(value)
		}
		t.Vocabularies[c] = vocabulary
	}
	return nil
}

// Transform fills missing cells with the placeholder and expands each column
// into one indicator column per known category.
func (t *Categorical) Transform(table *dataset.Table) ([][]float32, error) {
	if len(t.Vocabularies) != len(t.ColumnNames) {
		return nil, errors.Trace(ErrNotFitted)
	}
	features := make([][]float32, table.NumRows())
	for i := range features {
		features[i] = make([]float32, t.Width())
	}
	offset := 0
	for c, name := range t.ColumnNames {
		column, err := table.Categorical(name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		vocabulary := t.Vocabularies[c]
		for i, value := range column {
			if value == "" {
				value = Placeholder
			}
			if id := vocabulary.Lookup(value); id != base.NotId {
				features[i][offset+int(id)] = 1
			}
		}
		offset += vocabulary.Count()
	}
	return features, nil
}

// Marshal writes fitted vocabularies to a byte stream.
func (t *Categorical) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, t.ColumnNames); err != nil {
		return errors.Trace(err)
	}
	for _, vocabulary := range t.Vocabularies {
		if err := vocabulary.Marshal(w); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Unmarshal reads fitted vocabularies from a byte stream.
func (t *Categorical) Unmarshal(r io.Reader) error {
	if err := encoding.ReadGob(r, &t.ColumnNames); err != nil {
		return errors.Trace(err)
	}
	t.Vocabularies = make([]*dataset.Dict, len(t.ColumnNames))
	for c := range t.Vocabularies {
		t.Vocabularies[c] = dataset.NewDict()
		if err := t.Vocabularies[c].Unmarshal(r); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
