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

package model

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/tabular/base"
	"github.com/gorse-io/tabular/base/encoding"
	"github.com/gorse-io/tabular/base/log"
)

// RandomForest is a bagged ensemble of CART trees. Each tree fits on a
// bootstrap sample drawn from a per-tree seed, so results are deterministic
// for a fixed RandomState no matter how many jobs fit the forest.
type RandomForest struct {
	BaseClassifier
	// Model parameters
	Trees    []*DecisionTree
	NClasses int32
	// Hyper parameters
	nTrees          int
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
}

// NewRandomForest creates a random forest classifier.
func NewRandomForest(params Params) *RandomForest {
	forest := new(RandomForest)
	forest.SetParams(params)
	return forest
}

// SetParams sets hyper-parameters for the random forest classifier.
func (f *RandomForest) SetParams(params Params) {
	f.BaseClassifier.SetParams(params)
	f.nTrees = f.Params.GetInt(NTrees, 100)
	f.maxDepth = f.Params.GetInt(MaxDepth, 0)
	f.minSamplesSplit = f.Params.GetInt(MinSamplesSplit, 2)
	f.maxFeatures = f.Params.GetInt(MaxFeatures, 0)
}

func (f *RandomForest) Clear() {
	f.Trees = nil
	f.NClasses = 0
}

func (f *RandomForest) Invalid() bool {
	return f == nil || f.Trees == nil || f.NClasses == 0
}

// Fit trains the forest. Trees are fit in parallel when config.Jobs > 1.
func (f *RandomForest) Fit(x [][]float32, y []int32, nClasses int, config *FitConfig) error {
	config = config.LoadDefaultIfNil()
	if len(x) == 0 {
		return errors.NotValidf("empty training set")
	}
	if len(x) != len(y) {
		return errors.NotValidf("%d rows with %d labels", len(x), len(y))
	}
	if nClasses < 2 {
		return errors.NotValidf("%d classes", nClasses)
	}
	for _, label := range y {
		if label < 0 || label >= int32(nClasses) {
			return errors.NotValidf("label %d for %d classes", label, nClasses)
		}
	}
	maxFeatures := f.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math32.Ceil(math32.Sqrt(float32(len(x[0])))))
	}
	log.Logger().Info("fit random forest",
		zap.Int("train_size", len(x)),
		zap.Int("n_features", len(x[0])),
		zap.Int("n_classes", nClasses),
		zap.Int("jobs", config.Jobs),
		zap.Any("params", f.GetParams()))
	fitStart := time.Now()
	f.NClasses = int32(nClasses)
	f.Trees = make([]*DecisionTree, f.nTrees)
	randState := f.Params.GetInt64(RandomState, 0)
	err := base.Parallel(f.nTrees, config.Jobs, func(i int) error {
		// per-tree generator keeps bootstrap samples independent of scheduling
		rng := base.NewRandomGenerator(randState + int64(i))
		indices := make([]int, len(x))
		for j := range indices {
			indices[j] = rng.Intn(len(x))
		}
		tree := &DecisionTree{
			maxDepth:        f.maxDepth,
			minSamplesSplit: f.minSamplesSplit,
			maxFeatures:     maxFeatures,
			nClasses:        nClasses,
		}
		tree.fit(x, y, indices, rng)
		f.Trees[i] = tree
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("fit random forest complete",
		zap.Int("n_trees", f.nTrees),
		zap.String("fit_time", time.Since(fitStart).String()))
	return nil
}

// Predict returns the majority vote of all trees. Ties break towards the
// smaller class id.
func (f *RandomForest) Predict(x [][]float32) ([]int32, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return nil, errors.Trace(err)
	}
	pred := make([]int32, len(x))
	for i := range proba {
		pred[i] = argmax(proba[i])
	}
	return pred, nil
}

// PredictProba returns vote fractions per class.
func (f *RandomForest) PredictProba(x [][]float32) ([][]float32, error) {
	if f.Invalid() {
		return nil, errors.Trace(ErrNotFitted)
	}
	proba := base.NewMatrix32(len(x), int(f.NClasses))
	for i, row := range x {
		for _, tree := range f.Trees {
			proba[i][tree.predict(row)]++
		}
		for c := range proba[i] {
			proba[i][c] /= float32(len(f.Trees))
		}
	}
	return proba, nil
}

// Marshal fitted state into a byte stream.
func (f *RandomForest) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, f.Params); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, f.NClasses); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(f.Trees))); err != nil {
		return errors.Trace(err)
	}
	for _, tree := range f.Trees {
		if err := encoding.WriteGob(w, tree.Nodes); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Unmarshal fitted state from a byte stream.
func (f *RandomForest) Unmarshal(r io.Reader) error {
	if err := encoding.ReadGob(r, &f.Params); err != nil {
		return errors.Trace(err)
	}
	f.SetParams(f.Params)
	var nTrees int32
	if err := binary.Read(r, binary.LittleEndian, &f.NClasses); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nTrees); err != nil {
		return errors.Trace(err)
	}
	f.Trees = make([]*DecisionTree, nTrees)
	for i := range f.Trees {
		f.Trees[i] = &DecisionTree{nClasses: int(f.NClasses)}
		if err := encoding.ReadGob(r, &f.Trees[i].Nodes); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
