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

package splitter

import (
	"sort"

	"github.com/juju/errors"

	"github.com/gorse-io/split/base"
)

// FoldPlan is the result of fold assignment: a matrix with the sparsity
// pattern of the rating matrix whose cell values are 1-based fold
// identifiers. The plan is immutable once built and may be reused across
// any number of KthFold calls.
type FoldPlan struct {
	assignments *base.SparseMatrix
	numFolds    int
}

// NumFolds returns the number of folds in the plan.
func (p *FoldPlan) NumFolds() int {
	return p.numFolds
}

// Counts returns the number of entries assigned to each fold. Counts[i] is
// the size of fold i+1.
func (p *FoldPlan) Counts() []int {
	counts := make([]int, p.numFolds)
	p.assignments.ForEach(func(user, item int, fold float64) {
		counts[int(fold)-1]++
	})
	return counts
}

// SplitFolds assigns every rating to one of k folds of near-equal size. If k
// exceeds the number of ratings it is clamped down, leaving one rating per
// fold. Fold labels are balanced by construction and then randomly permuted
// across entries, so fold sizes differ by at most one entry.
func (s *DataSplitter) SplitFolds(k int) (*FoldPlan, error) {
	if k <= 0 {
		return nil, errors.NotValidf("fold count %d", k)
	}
	numRates := s.rateMatrix.Len()
	if k > numRates {
		k = numRates
	}

	// Balanced labels: the i-th entry gets fold floor(i/(n/k))+1.
	perEntry := make([]struct {
		key  float64
		fold int
	}, numRates)
	foldSize := float64(numRates) / float64(k)
	for i := range perEntry {
		perEntry[i].key = s.rng.Float64()
		perEntry[i].fold = int(float64(i)/foldSize) + 1
	}
	// Shuffle labels by sorting on the random keys.
	sort.Slice(perEntry, func(i, j int) bool {
		return perEntry[i].key < perEntry[j].key
	})

	assignments := base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	next := 0
	s.rateMatrix.ForEach(func(user, item int, rating float64) {
		assignments.Set(user, item, float64(perEntry[next].fold))
		next++
	})
	return &FoldPlan{assignments: assignments, numFolds: k}, nil
}

// KthFold returns the k-th fold (1-based) as the test set and all other
// folds as the training set. The plan must come from SplitFolds over the
// same rating matrix.
func (s *DataSplitter) KthFold(plan *FoldPlan, k int) (train, test *base.SparseMatrix, err error) {
	if plan == nil {
		return nil, nil, errors.NotValidf("nil fold plan")
	}
	if k < 1 || k > plan.numFolds {
		return nil, nil, errors.NotFoundf("fold %d of %d", k, plan.numFolds)
	}
	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	s.rateMatrix.ForEach(func(user, item int, rating float64) {
		if int(plan.assignments.Get(user, item)) == k {
			test.Set(user, item, rating)
		} else {
			train.Set(user, item, rating)
		}
	})
	s.debugInfo(train, test, k)
	return train, test, nil
}
