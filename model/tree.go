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

	"github.com/gorse-io/tabular/base"
)

// TreeNode is a node of a fitted decision tree. Leaves have Feature == -1.
type TreeNode struct {
	Feature   int32
	Threshold float32
	Left      int32
	Right     int32
	Class     int32
}

// DecisionTree is a CART classification tree splitting on gini impurity.
type DecisionTree struct {
	Nodes []TreeNode

	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
	nClasses        int
}

type treeBuilder struct {
	tree *DecisionTree
	x    [][]float32
	y    []int32
	rng  base.RandomGenerator
}

// fit grows the tree on the rows selected by indices. Duplicated indices are
// allowed, which makes bootstrap samples cheap.
func (t *DecisionTree) fit(x [][]float32, y []int32, indices []int, rng base.RandomGenerator) {
	builder := &treeBuilder{tree: t, x: x, y: y, rng: rng}
	builder.grow(indices, 0)
}

// grow builds a subtree and returns its node index.
func (b *treeBuilder) grow(indices []int, depth int) int32 {
	t := b.tree
	counts := make([]int, t.nClasses)
	for _, i := range indices {
		counts[b.y[i]]++
	}
	majority := int32(0)
	for c, count := range counts {
		if count > counts[majority] {
			majority = int32(c)
		}
	}
	leaf := func() int32 {
		t.Nodes = append(t.Nodes, TreeNode{Feature: -1, Class: majority})
		return int32(len(t.Nodes) - 1)
	}
	if len(indices) < t.minSamplesSplit || (t.maxDepth > 0 && depth >= t.maxDepth) || pure(counts) {
		return leaf()
	}
	feature, threshold, ok := b.bestSplit(indices, counts)
	if !ok {
		return leaf()
	}
	var left, right []int
	for _, i := range indices {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf()
	}
	// reserve the node slot before growing children
	t.Nodes = append(t.Nodes, TreeNode{Feature: int32(feature), Threshold: threshold})
	node := int32(len(t.Nodes) - 1)
	leftChild := b.grow(left, depth+1)
	rightChild := b.grow(right, depth+1)
	t.Nodes[node].Left = leftChild
	t.Nodes[node].Right = rightChild
	return node
}

// bestSplit searches a random feature subset for the gini-optimal split.
func (b *treeBuilder) bestSplit(indices []int, counts []int) (int, float32, bool) {
	t := b.tree
	nFeatures := len(b.x[indices[0]])
	candidates := b.rng.Sample(0, nFeatures, t.maxFeatures)
	sort.Ints(candidates)

	var (
		bestFeature   int
		bestThreshold float32
		bestImpurity  = gini(counts, len(indices))
		found         bool
	)
	ordered := make([]int, len(indices))
	leftCounts := make([]int, t.nClasses)
	rightCounts := make([]int, t.nClasses)
	for _, feature := range candidates {
		copy(ordered, indices)
		sort.Slice(ordered, func(i, j int) bool {
			return b.x[ordered[i]][feature] < b.x[ordered[j]][feature]
		})
		clear(leftCounts)
		copy(rightCounts, counts)
		for i := 0; i < len(ordered)-1; i++ {
			label := b.y[ordered[i]]
			leftCounts[label]++
			rightCounts[label]--
			value, next := b.x[ordered[i]][feature], b.x[ordered[i+1]][feature]
			if value == next {
				continue
			}
			nLeft, nRight := i+1, len(ordered)-i-1
			impurity := (float32(nLeft)*gini(leftCounts, nLeft) +
				float32(nRight)*gini(rightCounts, nRight)) / float32(len(ordered))
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = (value + next) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

// predict walks the tree for a single row.
func (t *DecisionTree) predict(row []float32) int32 {
	node := int32(0)
	for t.Nodes[node].Feature >= 0 {
		if row[t.Nodes[node].Feature] <= t.Nodes[node].Threshold {
			node = t.Nodes[node].Left
		} else {
			node = t.Nodes[node].Right
		}
	}
	return t.Nodes[node].Class
}

func gini(counts []int, total int) float32 {
	if total == 0 {
		return 0
	}
	impurity := float32(1)
	for _, count := range counts {
		p := float32(count) / float32(total)
		impurity -= p * p
	}
	return impurity
}

func pure(counts []int) bool {
	nonZero := 0
	for _, count := range counts {
		if count > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}
