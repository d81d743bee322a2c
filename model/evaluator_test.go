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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	truth := []int32{0, 0, 0, 1, 1, 1}
	pred := []int32{0, 0, 1, 1, 1, 0}
	score := Evaluate(pred, truth, 2)
	assert.InDelta(t, 4.0/6.0, score.Accuracy, 1e-6)
	assert.InDelta(t, 2.0/3.0, score.Precision, 1e-6)
	assert.InDelta(t, 2.0/3.0, score.Recall, 1e-6)
	assert.InDelta(t, 2.0/3.0, score.F1, 1e-6)
}

func TestEvaluatePerfect(t *testing.T) {
	truth := []int32{0, 1, 2, 0, 1, 2}
	score := Evaluate(truth, truth, 3)
	assert.Equal(t, float32(1), score.Accuracy)
	assert.Equal(t, float32(1), score.Precision)
	assert.Equal(t, float32(1), score.Recall)
	assert.Equal(t, float32(1), score.F1)
}

func TestEvaluateEmpty(t *testing.T) {
	assert.Equal(t, Score{}, Evaluate(nil, nil, 2))
	assert.Equal(t, Score{}, Evaluate([]int32{0}, []int32{0, 1}, 2))
}

func TestScoreBetterThan(t *testing.T) {
	assert.True(t, Score{Accuracy: 0.9}.BetterThan(Score{Accuracy: 0.8}))
	assert.False(t, Score{Accuracy: 0.8}.BetterThan(Score{Accuracy: 0.9}))
}

func TestConfusionMatrix(t *testing.T) {
	truth := []int32{0, 0, 1, 1}
	pred := []int32{0, 1, 1, 1}
	matrix := ConfusionMatrix(pred, truth, 2)
	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, matrix)
}

func TestAUC(t *testing.T) {
	// perfect ranking
	assert.Equal(t, float32(1), AUC([]float32{0.8, 0.9}, []float32{0.1, 0.2}))
	// inverted ranking
	assert.Equal(t, float32(0), AUC([]float32{0.1, 0.2}, []float32{0.8, 0.9}))
	// no samples
	assert.Equal(t, float32(0), AUC(nil, []float32{0.5}))
}
