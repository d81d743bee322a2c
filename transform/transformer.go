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

// Package transform provides fitted feature transformers for tabular data.
// A transformer is bound to a fixed set of column names, learns its
// parameters once from training data, and afterwards applies them verbatim
// to any input.
package transform

import (
	"io"

	"github.com/juju/errors"

	"github.com/gorse-io/tabular/dataset"
)

// ErrNotFitted is returned when a transformer is used before fitting.
var ErrNotFitted = errors.New("transformer is not fitted")

// Transformer learns parameters from training data and converts assigned
// columns into a dense feature block.
type Transformer interface {
	// Fit learns transformation parameters from training data.
	Fit(table *dataset.Table) error
	// Transform converts assigned columns into feature columns using fitted
	// parameters only.
	Transform(table *dataset.Table) ([][]float32, error)
	// Columns returns the assigned column names.
	Columns() []string
	// Width returns the number of output feature columns. Only valid after Fit.
	Width() int
	// Marshal writes fitted parameters to a byte stream.
	Marshal(w io.Writer) error
	// Unmarshal reads fitted parameters from a byte stream.
	Unmarshal(r io.Reader) error
}
