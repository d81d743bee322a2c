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
	"math"
	"sort"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gorse-io/tabular/base"
	"github.com/gorse-io/tabular/base/log"
)

// Split is the result of a train/test partition.
type Split struct {
	TrainTable  *Table
	TrainLabels []string
	TestTable   *Table
	TestLabels  []string
}

// StratifiedSplit partitions rows into train and test subsets preserving
// label proportions. Within each label stratum, round(n*testRatio) rows are
// sampled for the test set, clamped so that a stratum with at least two rows
// always contributes at least one training row. The partition is exact and
// deterministic for a fixed seed.
func StratifiedSplit(table *Table, labels []string, testRatio float32, seed int64) (*Split, error) {
	if table.NumRows() != len(labels) {
		return nil, errors.NotValidf("%d labels for %d rows", len(labels), table.NumRows())
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, errors.NotValidf("test ratio %f", testRatio)
	}
	// group row indices by label, strata in first-appearance order
	strata := make(map[string][]int)
	var order []string
	for i, label := range labels {
		if _, exist := strata[label]; !exist {
			order = append(order, label)
		}
		strata[label] = append(strata[label], i)
	}
	// sample test rows per stratum
	rng := base.NewRandomGenerator(seed)
	var trainIndices, testIndices []int
	for _, label := range order {
		rows := strata[label]
		testCount := int(math.Round(float64(testRatio) * float64(len(rows))))
		if len(rows) >= 2 && testCount >= len(rows) {
			testCount = len(rows) - 1
		}
		perm := rng.Perm(len(rows))
		for i, p := range perm {
			if i < testCount {
				testIndices = append(testIndices, rows[p])
			} else {
				trainIndices = append(trainIndices, rows[p])
			}
		}
	}
	sort.Ints(trainIndices)
	sort.Ints(testIndices)
	split := &Split{
		TrainTable: table.SubSet(trainIndices),
		TrainLabels: lo.Map(trainIndices, func(i int, _ int) string {
			return labels[i]
		}),
		TestTable: table.SubSet(testIndices),
		TestLabels: lo.Map(testIndices, func(i int, _ int) string {
			return labels[i]
		}),
	}
	log.Logger().Info("stratified split",
		zap.Int("train_size", len(trainIndices)),
		zap.Int("test_size", len(testIndices)),
		zap.Float32("test_ratio", testRatio),
		zap.Int64("random_state", seed))
	return split, nil
}
