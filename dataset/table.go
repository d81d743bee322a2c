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
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gorse-io/tabular/base"
	"github.com/gorse-io/tabular/base/log"
)

// ColumnType is the declared type of a table column. Column typing always
// comes from the caller, it is never inferred from cell values.
type ColumnType int

const (
	Numerical ColumnType = iota
	Categorical
)

// Schema declares the columns of a table. Target is optional and names the
// label column inside the source file.
type Schema struct {
	Numerical   []string
	Categorical []string
	Target      string
}

// FeatureColumns returns feature column names in declaration order.
func (schema Schema) FeatureColumns() []string {
	return append(append([]string{}, schema.Numerical...), schema.Categorical...)
}

// Table is an in-memory column-oriented table. Numerical columns store NaN
// for missing cells, categorical columns store the empty string.
type Table struct {
	names       []string
	types       map[string]ColumnType
	numerical   map[string][]float32
	categorical map[string][]string
	numRows     int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		types:       make(map[string]ColumnType),
		numerical:   make(map[string][]float32),
		categorical: make(map[string][]string),
	}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.numRows
}

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	return t.names
}

// Type returns the declared type of a column.
func (t *Table) Type(name string) (ColumnType, error) {
	columnType, exist := t.types[name]
	if !exist {
		return 0, errors.NotFoundf("column %s", name)
	}
	return columnType, nil
}

// AddNumerical adds a numerical column. All columns must have the same length.
func (t *Table) AddNumerical(name string, values []float32) error {
	if _, exist := t.types[name]; exist {
		return errors.AlreadyExistsf("column %s", name)
	}
	if len(t.names) > 0 && len(values) != t.numRows {
		return errors.NotValidf("column %s with %d rows in a table of %d rows", name, len(values), t.numRows)
	}
	t.names = append(t.names, name)
	t.types[name] = Numerical
	t.numerical[name] = values
	t.numRows = len(values)
	return nil
}

// AddCategorical adds a categorical column. All columns must have the same length.
func (t *Table) AddCategorical(name string, values []string) error {
	if _, exist := t.types[name]; exist {
		return errors.AlreadyExistsf("column %s", name)
	}
	if len(t.names) > 0 && len(values) != t.numRows {
		return errors.NotValidf("column %s with %d rows in a table of %d rows", name, len(values), t.numRows)
	}
	t.names = append(t.names, name)
	t.types[name] = Categorical
	t.categorical[name] = values
	t.numRows = len(values)
	return nil
}

// Numerical returns a numerical column by name.
func (t *Table) Numerical(name string) ([]float32, error) {
	column, exist := t.numerical[name]
	if !exist {
		if _, isCategorical := t.categorical[name]; isCategorical {
			return nil, errors.NotValidf("column %s is categorical", name)
		}
		return nil, errors.NotFoundf("column %s", name)
	}
	return column, nil
}

// Categorical returns a categorical column by name.
func (t *Table) Categorical(name string) ([]string, error) {
	column, exist := t.categorical[name]
	if !exist {
		if _, isNumerical := t.numerical[name]; isNumerical {
			return nil, errors.NotValidf("column %s is numerical", name)
		}
		return nil, errors.NotFoundf("column %s", name)
	}
	return column, nil
}

// SubSet returns a new table keeping the rows selected by indices, in the
// order given.
func (t *Table) SubSet(indices []int) *Table {
	subset := NewTable()
	for _, name := range t.names {
		switch t.types[name] {
		case Numerical:
			column := t.numerical[name]
			_ = subset.AddNumerical(name, lo.Map(indices, func(i int, _ int) float32 {
				return column[i]
			}))
		case Categorical:
			column := t.categorical[name]
			_ = subset.AddCategorical(name, lo.Map(indices, func(i int, _ int) string {
				return column[i]
			}))
		}
	}
	subset.numRows = len(indices)
	return subset
}

// IsMissing reports whether a raw cell represents a missing value.
func IsMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NaN", "nan", "NA", "null":
		return true
	}
	return false
}

// LoadCSV reads a delimited file with a header row into a table following the
// declared schema. If schema.Target names a column, its raw values are
// returned as labels. Declared columns absent from the header fail with the
// column name.
func LoadCSV(path, sep string, schema Schema) (*Table, []string, error) {
	start := time.Now()
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	defer file.Close()

	var (
		header  []string
		indices map[string]int
		rows    [][]string
	)
	sc := bufio.NewScanner(file)
	err = base.ReadLines(sc, sep, func(lineNumber int, fields []string) bool {
		if lineNumber == 0 {
			header = lo.Map(fields, func(field string, _ int) string {
				return strings.TrimSpace(field)
			})
			indices = make(map[string]int)
			for i, name := range header {
				indices[name] = i
			}
			return true
		}
		rows = append(rows, fields)
		return true
	})
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if header == nil {
		return nil, nil, errors.NotValidf("file %s without header row", path)
	}

	// locate declared columns
	declared := schema.FeatureColumns()
	if schema.Target != "" {
		declared = append(declared, schema.Target)
	}
	for _, name := range declared {
		if _, exist := indices[name]; !exist {
			return nil, nil, errors.NotFoundf("column %s in %s", name, path)
		}
	}
	for _, row := range rows {
		if len(row) != len(header) {
			return nil, nil, errors.NotValidf("row with %d fields, header has %d", len(row), len(header))
		}
	}

	table := NewTable()
	for _, name := range schema.Numerical {
		index := indices[name]
		column := make([]float32, len(rows))
		for i, row := range rows {
			cell := strings.TrimSpace(row[index])
			if IsMissing(cell) {
				column[i] = math32.NaN()
				continue
			}
			value, err := strconv.ParseFloat(cell, 32)
			if err != nil {
				return nil, nil, errors.NotValidf("cell %q at row %d, column %s", cell, i+1, name)
			}
			column[i] = float32(value)
		}
		if err = table.AddNumerical(name, column); err != nil {
			return nil, nil, errors.Trace(err)
		}
	}
	for _, name := range schema.Categorical {
		index := indices[name]
		column := make([]string, len(rows))
		for i, row := range rows {
			cell := strings.TrimSpace(row[index])
			if !IsMissing(cell) {
				column[i] = cell
			}
		}
		if err = table.AddCategorical(name, column); err != nil {
			return nil, nil, errors.Trace(err)
		}
	}

	var labels []string
	if schema.Target != "" {
		index := indices[schema.Target]
		labels = make([]string, len(rows))
		for i, row := range rows {
			labels[i] = strings.TrimSpace(row[index])
		}
	}
	log.Logger().Info("load csv",
		zap.String("path", path),
		zap.Int("n_rows", len(rows)),
		zap.Int("n_columns", len(table.Columns())),
		zap.Duration("used_time", time.Since(start)))
	return table, labels, nil
}
