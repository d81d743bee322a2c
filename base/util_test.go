// Copyright 2024 gorse Project Authors
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

package base

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMax(t *testing.T) {
	assert.Equal(t, int32(3), Max(1, 2, 3))
	assert.Equal(t, int32(1), Max(1))
}

func TestRangeInt(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, RangeInt(4))
}

func TestRepeatFloat32s(t *testing.T) {
	assert.Equal(t, []float32{2, 2, 2}, RepeatFloat32s(3, 2))
}

func TestNewMatrix32(t *testing.T) {
	m := NewMatrix32(2, 3)
	assert.Len(t, m, 2)
	assert.Len(t, m[0], 3)
}

func TestParallel(t *testing.T) {
	var count int64
	err := Parallel(100, 4, func(i int) error {
		atomic.AddInt64(&count, int64(i))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(4950), count)
	// sequential fallback
	count = 0
	err = Parallel(10, 1, func(i int) error {
		count += int64(i)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(45), count)
	// error propagation
	err = Parallel(10, 2, func(i int) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRandomGenerator(t *testing.T) {
	a := NewRandomGenerator(42)
	b := NewRandomGenerator(42)
	assert.Equal(t, a.Perm(10), b.Perm(10))
	assert.Equal(t, a.NormalVector(8, 0, 0.01), b.NormalVector(8, 0, 0.01))
	sampled := a.Sample(0, 10, 5)
	assert.Len(t, sampled, 5)
	for _, v := range sampled {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
	// sample more than interval
	sampled = a.Sample(0, 3, 10)
	assert.ElementsMatch(t, []int{0, 1, 2}, sampled)
}
