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

// Package model provides classifiers with a shared fit/predict contract.
// Classifiers consume the dense feature matrix produced by a column router
// and integer-encoded labels.
package model

import (
	"io"

	"github.com/juju/errors"

	"github.com/gorse-io/tabular/base"
)

// ErrNotFitted is returned when a classifier predicts before fitting.
var ErrNotFitted = errors.New("classifier is not fitted")

// Classifier is the interface for all classifiers. Any classifier in this
// package should implement it.
type Classifier interface {
	// Set hyper-parameters.
	SetParams(params Params)
	// Get hyper-parameters.
	GetParams() Params
	// Fit the classifier on integer-encoded labels in [0, nClasses).
	Fit(x [][]float32, y []int32, nClasses int, config *FitConfig) error
	// Predict labels for a feature matrix.
	Predict(x [][]float32) ([]int32, error)
	// PredictProba predicts per-class probabilities for a feature matrix.
	PredictProba(x [][]float32) ([][]float32, error)
	// Clear fitted weights.
	Clear()
	// Invalid reports whether the classifier misses fitted weights.
	Invalid() bool
	// Marshal fitted state into a byte stream.
	Marshal(w io.Writer) error
	// Unmarshal fitted state from a byte stream.
	Unmarshal(r io.Reader) error
}

// BaseClassifier must be included by every classifier. Hyper-parameters and
// the seeded random generator are managed by the BaseClassifier.
type BaseClassifier struct {
	Params    Params
	rng       base.RandomGenerator
	randState int64
}

// SetParams sets hyper-parameters for the BaseClassifier.
func (c *BaseClassifier) SetParams(params Params) {
	c.Params = params
	c.randState = c.Params.GetInt64(RandomState, 0)
	c.rng = base.NewRandomGenerator(c.randState)
}

// GetParams returns all hyper-parameters.
func (c *BaseClassifier) GetParams() Params {
	return c.Params
}

func (c *BaseClassifier) GetRandomGenerator() base.RandomGenerator {
	return c.rng
}

// FitConfig is options for fitting classifiers.
type FitConfig struct {
	Jobs    int
	Verbose int
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 10,
	}
}

func (config *FitConfig) SetJobs(nJobs int) *FitConfig {
	config.Jobs = nJobs
	return config
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

func (config *FitConfig) LoadDefaultIfNil() *FitConfig {
	if config == nil {
		return NewFitConfig()
	}
	return config
}
