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

	"github.com/gorse-io/tabular/base"
)

// blobs generates two gaussian clusters, one per class.
func blobs(n int, seed int64) ([][]float32, []int32) {
	rng := base.NewRandomGenerator(seed)
	x := make([][]float32, n)
	y := make([]int32, n)
	for i := 0; i < n; i++ {
		center := float32(-1)
		if i%2 == 1 {
			center = 1
			y[i] = 1
		}
		x[i] = rng.NormalVector(2, center, 0.3)
	}
	return x, y
}

func TestFitConfig(t *testing.T) {
	config := NewFitConfig().SetJobs(4).SetVerbose(1)
	assert.Equal(t, 4, config.Jobs)
	assert.Equal(t, 1, config.Verbose)
	var nilConfig *FitConfig
	assert.Equal(t, NewFitConfig(), nilConfig.LoadDefaultIfNil())
}

func TestBaseClassifierRandomGenerator(t *testing.T) {
	var a, b BaseClassifier
	a.SetParams(Params{RandomState: 42})
	b.SetParams(Params{RandomState: 42})
	assert.Equal(t, a.GetRandomGenerator().Perm(10), b.GetRandomGenerator().Perm(10))
}
