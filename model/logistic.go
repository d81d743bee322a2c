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

// LogisticRegression is a multinomial logistic regression classifier trained
// with mini-batch gradient descent. With two classes the softmax reduces to
// the usual sigmoid formulation.
type LogisticRegression struct {
	BaseClassifier
	// Model parameters
	W        [][]float32
	B        []float32
	NClasses int32
	// Hyper parameters
	lr        float32
	reg       float32
	nEpochs   int
	batchSize int
}

// NewLogisticRegression creates a logistic regression classifier.
func NewLogisticRegression(params Params) *LogisticRegression {
	lr := new(LogisticRegression)
	lr.SetParams(params)
	return lr
}

// SetParams sets hyper-parameters for the logistic regression classifier.
func (m *LogisticRegression) SetParams(params Params) {
	m.BaseClassifier.SetParams(params)
	m.lr = m.Params.GetFloat32(Lr, 0.1)
	m.reg = m.Params.GetFloat32(Reg, 0.0)
	m.nEpochs = m.Params.GetInt(NEpochs, 200)
	m.batchSize = m.Params.GetInt(BatchSize, 32)
}

func (m *LogisticRegression) Clear() {
	m.W = nil
	m.B = nil
	m.NClasses = 0
}

func (m *LogisticRegression) Invalid() bool {
	return m == nil || m.W == nil || m.B == nil || m.NClasses == 0
}

// Fit trains the classifier. Training is sequential and deterministic for a
// fixed RandomState.
func (m *LogisticRegression) Fit(x [][]float32, y []int32, nClasses int, config *FitConfig) error {
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
	nFeatures := len(x[0])
	for _, label := range y {
		if label < 0 || label >= int32(nClasses) {
			return errors.NotValidf("label %d for %d classes", label, nClasses)
		}
	}
	log.Logger().Info("fit logistic regression",
		zap.Int("train_size", len(x)),
		zap.Int("n_features", nFeatures),
		zap.Int("n_classes", nClasses),
		zap.Any("params", m.GetParams()))
	// a fresh generator makes every fit reproduce the same weights
	rng := base.NewRandomGenerator(m.randState)
	m.NClasses = int32(nClasses)
	m.W = rng.NormalMatrix(nClasses, nFeatures, 0, 0.01)
	m.B = make([]float32, nClasses)

	proba := make([]float32, nClasses)
	gradW := base.NewMatrix32(nClasses, nFeatures)
	gradB := make([]float32, nClasses)
	fitStart := time.Now()
	for epoch := 1; epoch <= m.nEpochs; epoch++ {
		cost := float32(0)
		perm := rng.Perm(len(x))
		for begin := 0; begin < len(perm); begin += m.batchSize {
			end := min(begin+m.batchSize, len(perm))
			for c := range gradW {
				clear(gradW[c])
			}
			clear(gradB)
			for _, i := range perm[begin:end] {
				m.softmax(x[i], proba)
				cost -= math32.Log(math32.Max(proba[y[i]], 1e-12))
				for c := 0; c < nClasses; c++ {
					grad := proba[c]
					if int32(c) == y[i] {
						grad -= 1
					}
					for j, value := range x[i] {
						gradW[c][j] += grad * value
					}
					gradB[c] += grad
				}
			}
			scale := 1 / float32(end-begin)
			for c := 0; c < nClasses; c++ {
				for j := range m.W[c] {
					m.W[c][j] -= m.lr * (gradW[c][j]*scale + m.reg*m.W[c][j])
				}
				m.B[c] -= m.lr * gradB[c] * scale
			}
		}
		if (config.Verbose > 0 && epoch%config.Verbose == 0) || epoch == m.nEpochs {
			log.Logger().Debug("fit logistic regression",
				zap.Int("epoch", epoch),
				zap.Int("n_epochs", m.nEpochs),
				zap.Float32("loss", cost/float32(len(x))))
		}
		if math32.IsNaN(cost) {
			log.Logger().Warn("model diverged", zap.Float32("lr", m.lr))
			break
		}
	}
	log.Logger().Info("fit logistic regression complete",
		zap.String("fit_time", time.Since(fitStart).String()))
	return nil
}

// softmax writes class probabilities for a single row into proba.
func (m *LogisticRegression) softmax(row []float32, proba []float32) {
	maxLogit := math32.Inf(-1)
	for c := range proba {
		logit := m.B[c]
		for j, value := range row {
			logit += m.W[c][j] * value
		}
		proba[c] = logit
		maxLogit = math32.Max(maxLogit, logit)
	}
	var sum float32
	for c := range proba {
		proba[c] = math32.Exp(proba[c] - maxLogit)
		sum += proba[c]
	}
	for c := range proba {
		proba[c] /= sum
	}
}

// Predict returns the most probable class per row.
func (m *LogisticRegression) Predict(x [][]float32) ([]int32, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, errors.Trace(err)
	}
	pred := make([]int32, len(x))
	for i := range proba {
		pred[i] = argmax(proba[i])
	}
	return pred, nil
}

// PredictProba returns per-class probabilities per row.
func (m *LogisticRegression) PredictProba(x [][]float32) ([][]float32, error) {
	if m.Invalid() {
		return nil, errors.Trace(ErrNotFitted)
	}
	proba := base.NewMatrix32(len(x), int(m.NClasses))
	for i, row := range x {
		if len(row) != len(m.W[0]) {
			return nil, errors.NotValidf("row with %d features, expect %d", len(row), len(m.W[0]))
		}
		m.softmax(row, proba[i])
	}
	return proba, nil
}

// Marshal fitted state into a byte stream.
func (m *LogisticRegression) Marshal(w io.Writer) error {
	if err := encoding.WriteGob(w, m.Params); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.NClasses); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(m.W[0]))); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.B); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(encoding.WriteMatrix(w, m.W))
}

// Unmarshal fitted state from a byte stream.
func (m *LogisticRegression) Unmarshal(r io.Reader) error {
	if err := encoding.ReadGob(r, &m.Params); err != nil {
		return errors.Trace(err)
	}
	m.SetParams(m.Params)
	var nFeatures int32
	if err := binary.Read(r, binary.LittleEndian, &m.NClasses); err != nil {
		return errors.Trace(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nFeatures); err != nil {
		return errors.Trace(err)
	}
	m.B = make([]float32, m.NClasses)
	if err := binary.Read(r, binary.LittleEndian, m.B); err != nil {
		return errors.Trace(err)
	}
	m.W = base.NewMatrix32(int(m.NClasses), int(nFeatures))
	return errors.Trace(encoding.ReadMatrix(r, m.W))
}

func argmax(values []float32) int32 {
	best := int32(0)
	for i, value := range values {
		if value > values[best] {
			best = int32(i)
		}
	}
	return best
}
