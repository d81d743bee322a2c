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
	"github.com/samber/lo"

	"github.com/gorse-io/tabular/base/encoding"
	"github.com/gorse-io/tabular/dataset"
)

// Stage is a named transformer inside a router.
type Stage struct {
	Name        string
	Transformer Transformer
}

// ColumnRouter dispatches disjoint column subsets to their transformers and
// concatenates the outputs in a fixed stage order.
type ColumnRouter struct {
	Stages []Stage
	fitted bool
}

// NewColumnRouter creates a router over the given stages. Stage column sets
// must be disjoint.
func NewColumnRouter(stages ...Stage) (*ColumnRouter, error) {
	seen := make(map[string]string)
	for _, stage := range stages {
		for _, column := range stage.Transformer.Columns() {
			if owner, exist := seen[column]; exist {
				return nil, errors.NotValidf("column %s assigned to both %s and %s", column, owner, stage.Name)
			}
			seen[column] = stage.Name
		}
	}
	return &ColumnRouter{Stages: stages}, nil
}

// Columns returns all assigned column names in stage order.
func (router *ColumnRouter) Columns() []string {
	return lo.FlatMap(router.Stages, func(stage Stage, _ int) []string {
		return stage.Transformer.Columns()
	})
}

// Width returns the total output width. Only valid after Fit.
func (router *ColumnRouter) Width() int {
	return lo.SumBy(router.Stages, func(stage Stage) int {
		return stage.Transformer.Width()
	})
}

// Fit fits every stage on its column subset of the training table.
func (router *ColumnRouter) Fit(table *dataset.Table) error {
	for _, stage := range router.Stages {
		if err := stage.Transformer.Fit(table); err != nil {
			return errors.Annotatef(err, "fit stage %s", stage.Name)
		}
	}
	router.fitted = true
	return nil
}

// Transform applies every stage to its assigned columns and concatenates the
// feature blocks in stage order.
func (router *ColumnRouter) Transform(table *dataset.Table) ([][]float32, error) {
	if !router.fitted {
		return nil, errors.Trace(ErrNotFitted)
	}
	features := make([][]float32, table.NumRows())
	for i := range features {
		features[i] = make([]float32, 0, router.Width())
	}
	for _, stage := range router.Stages {
		block, err := stage.Transformer.Transform(table)
		if err != nil {
			return nil, errors.Annotatef(err, "transform stage %s", stage.Name)
		}
		for i := range features {
			features[i] = append(features[i], block[i]...)
		}
	}
	return features, nil
}

// Marshal writes all fitted stages to a byte stream.
func (router *ColumnRouter) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, int32(len(router.Stages))); err != nil {
		return errors.Trace(err)
	}
	for _, stage := range router.Stages {
		if err := encoding.WriteString(w, stage.Name); err != nil {
			return errors.Trace(err)
		}
		var kind string
		switch stage.Transformer.(type) {
		case *Numerical:
			kind = "numerical"
		case *Categorical:
			kind = "categorical"
		default:
			return errors.NotSupportedf("transformer type %T", stage.Transformer)
		}
		if err := encoding.WriteString(w, kind); err != nil {
			return errors.Trace(err)
		}
		if err := stage.Transformer.Marshal(w); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Unmarshal reads all fitted stages from a byte stream.
func (router *ColumnRouter) Unmarshal(r io.Reader) error {
	var count int32
	if err := encoding.ReadGob(r, &count); err != nil {
		return errors.Trace(err)
	}
	router.Stages = make([]Stage, count)
	for i := range router.Stages {
		name, err := encoding.ReadString(r)
		if err != nil {
			return errors.Trace(err)
		}
		kind, err := encoding.ReadString(r)
		if err != nil {
			return errors.Trace(err)
		}
		var transformer Transformer
		switch kind {
		case "numerical":
			transformer = &Numerical{}
		case "categorical":
			transformer = &Categorical{}
		default:
			return errors.NotSupportedf("transformer type %s", kind)
		}
		if err := transformer.Unmarshal(r); err != nil {
			return errors.Trace(err)
		}
		router.Stages[i] = Stage{Name: name, Transformer: transformer}
	}
	router.fitted = true
	return nil
}
