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
	"sort"

	"go.uber.org/zap"
	"modernc.org/sortutil"
)

// Score is the result of evaluating a classifier on held-out data. Precision,
// recall and F1 are macro-averaged over classes.
type Score struct {
	Accuracy  float32
	Precision float32
	Recall    float32
	F1        float32
}

func (score Score) ZapFields() []zap.Field {
	return []zap.Field{
		zap.Float32("Accuracy", score.Accuracy),
		zap.Float32("Precision", score.Precision),
		zap.Float32("Recall", score.Recall),
		zap.Float32("F1", score.F1),
	}
}

func (score Score) BetterThan(s Score) bool {
	return score.Accuracy > s.Accuracy
}

// Evaluate compares predicted labels against truth. Accuracy is the
// exact-match rate.
func Evaluate(pred, truth []int32, nClasses int) Score {
	if len(pred) == 0 || len(pred) != len(truth) {
		return Score{}
	}
	matrix := ConfusionMatrix(pred, truth, nClasses)
	var correct int
	for c := 0; c < nClasses; c++ {
		correct += matrix[c][c]
	}
	var precision, recall, f1 float32
	for c := 0; c < nClasses; c++ {
		var predicted, actual int
		for o := 0; o < nClasses; o++ {
			predicted += matrix[o][c]
			actual += matrix[c][o]
		}
		var classPrecision, classRecall float32
		if predicted > 0 {
			classPrecision = float32(matrix[c][c]) / float32(predicted)
		}
		if actual > 0 {
			classRecall = float32(matrix[c][c]) / float32(actual)
		}
		precision += classPrecision
		recall += classRecall
		if classPrecision+classRecall > 0 {
			f1 += 2 * classPrecision * classRecall / (classPrecision + classRecall)
		}
	}
	return Score{
		Accuracy:  float32(correct) / float32(len(pred)),
		Precision: precision / float32(nClasses),
		Recall:    recall / float32(nClasses),
		F1:        f1 / float32(nClasses),
	}
}

// ConfusionMatrix returns counts indexed by [actual][predicted].
func ConfusionMatrix(pred, truth []int32, nClasses int) [][]int {
	matrix := make([][]int, nClasses)
	for c := range matrix {
		matrix[c] = make([]int, nClasses)
	}
	for i := range pred {
		matrix[truth[i]][pred[i]]++
	}
	return matrix
}

// AUC computes the area under the ROC curve from scores of positive and
// negative samples.
func AUC(posPrediction, negPrediction []float32) float32 {
	sort.Sort(sortutil.Float32Slice(posPrediction))
	sort.Sort(sortutil.Float32Slice(negPrediction))
	var sum float32
	var nPos int
	for pPos := range posPrediction {
		// count negative samples scored below the current positive sample
		for nPos < len(negPrediction) && negPrediction[nPos] < posPrediction[pPos] {
			nPos++
		}
		sum += float32(nPos)
	}
	if len(posPrediction)*len(negPrediction) == 0 {
		return 0
	}
	return sum / float32(len(posPrediction)*len(negPrediction))
}
