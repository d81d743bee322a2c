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

// Package pipeline composes a column router and a classifier into one unit
// that fits, predicts and persists together.
package pipeline

import (
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/tabular/base/log"
	"github.com/gorse-io/tabular/dataset"
	"github.com/gorse-io/tabular/model"
	"github.com/gorse-io/tabular/transform"
)

// ErrNotFitted is returned when a pipeline predicts before fitting.
var ErrNotFitted = errors.New("pipeline is not fitted")

// Pipeline chains a column router and a swappable classifier. Once fit, the
// same column names and fitted parameters are applied verbatim to any input.
type Pipeline struct {
	Router    *transform.ColumnRouter
	Estimator model.Classifier
	Labels    *dataset.Dict
	fitted    bool
}

// NewPipeline creates a pipeline over a router and a classifier. Swapping
// the classifier does not change preprocessing behavior.
func NewPipeline(router *transform.ColumnRouter, estimator model.Classifier) *Pipeline {
	return &Pipeline{
		Router:    router,
		Estimator: estimator,
		Labels:    dataset.NewDict(),
	}
}

// Fit fits the router on the training table, then the classifier on the
// transformed features and dictionary-encoded labels.
func (p *Pipeline) Fit(table *dataset.Table, labels []string, config *model.FitConfig) error {
	if table.NumRows() != len(labels) {
		return errors.NotValidf("%d labels for %d rows", len(labels), table.NumRows())
	}
	fitStart := time.Now()
	if err := p.Router.Fit(table); err != nil {
		return errors.Trace(err)
	}
	features, err := p.Router.Transform(table)
	if err != nil {
		return errors.Trace(err)
	}
	p.Labels = dataset.NewDict()
	encoded := make([]int32, len(labels))
	for i, label := range labels {
		encoded[i] = p.Labels.Id(label)
	}
	if err = p.Estimator.Fit(features, encoded, p.Labels.Count(), config); err != nil {
		return errors.Trace(err)
	}
	p.fitted = true
	log.Logger().Info("fit pipeline complete",
		zap.Int("train_size", table.NumRows()),
		zap.Int("n_features", p.Router.Width()),
		zap.Strings("classes", p.Labels.Strings()),
		zap.String("fit_time", time.Since(fitStart).String()))
	return nil
}

// Predict returns one label per row of a raw, unprocessed table.
func (p *Pipeline) Predict(table *dataset.Table) ([]string, error) {
	if !p.fitted {
		return nil, errors.Trace(ErrNotFitted)
	}
	features, err := p.Router.Transform(table)
	if err != nil {
		return nil, errors.Trace(err)
	}
	encoded, err := p.Estimator.Predict(features)
	if err != nil {
		return nil, errors.Trace(err)
	}
	labels := make([]string, len(encoded))
	for i, id := range encoded {
		label, ok := p.Labels.String(id)
		if !ok {
			return nil, errors.NotValidf("predicted class %d", id)
		}
		labels[i] = label
	}
	return labels, nil
}

// PredictProba returns per-class probabilities per row. Columns follow the
// label dictionary order reported by Classes.
func (p *Pipeline) PredictProba(table *dataset.Table) ([][]float32, error) {
	if !p.fitted {
		return nil, errors.Trace(ErrNotFitted)
	}
	features, err := p.Router.Transform(table)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return p.Estimator.PredictProba(features)
}

// Classes returns fitted class labels in probability column order.
func (p *Pipeline) Classes() []string {
	return p.Labels.Strings()
}

// Evaluate predicts on held-out rows and scores against true labels.
func (p *Pipeline) Evaluate(table *dataset.Table, labels []string) (model.Score, error) {
	predicted, err := p.Predict(table)
	if err != nil {
		return model.Score{}, errors.Trace(err)
	}
	pred := make([]int32, len(predicted))
	truth := make([]int32, len(labels))
	for i := range predicted {
		pred[i] = p.Labels.Lookup(predicted[i])
		truth[i] = p.Labels.Lookup(labels[i])
		if truth[i] < 0 {
			return model.Score{}, errors.NotValidf("label %s unseen during fit", labels[i])
		}
	}
	return model.Evaluate(pred, truth, p.Labels.Count()), nil
}
