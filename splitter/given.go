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
	"github.com/juju/errors"

	"github.com/gorse-io/split/base"
)

// Given keeps numGiven randomly chosen ratings per user for training and
// moves the rest to the test set. A user with numGiven ratings or fewer
// keeps all of them in the training set.
func (s *DataSplitter) Given(numGiven int) (train, test *base.SparseMatrix, err error) {
	if numGiven <= 0 {
		return nil, nil, errors.NotValidf("given count %d", numGiven)
	}
	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	for user := 0; user < s.rateMatrix.NumRows(); user++ {
		row := s.rateMatrix.Row(user)
		numRated := row.Len()
		if numRated <= numGiven {
			// all ratings are used for training
			row.ForEach(func(i, item int, rating float64) {
				train.Set(user, item, rating)
			})
			continue
		}
		s.keepGiven(user, row, s.rng.SortedSample(numGiven, numRated), train, test)
	}
	s.debugInfo(train, test, 0)
	return train, test, nil
}

// GivenRatio keeps floor(numRated*ratio) randomly chosen ratings per user
// for training and moves the rest to the test set. Unlike Given there is no
// small-count fallback: a user whose count rounds to zero contributes
// nothing to training.
func (s *DataSplitter) GivenRatio(ratio float64) (train, test *base.SparseMatrix, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.NotValidf("given ratio %v", ratio)
	}
	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	for user := 0; user < s.rateMatrix.NumRows(); user++ {
		row := s.rateMatrix.Row(user)
		numRated := row.Len()
		numGiven := int(float64(numRated) * ratio)
		s.keepGiven(user, row, s.rng.SortedSample(numGiven, numRated), train, test)
	}
	s.debugInfo(train, test, 0)
	return train, test, nil
}

// keepGiven merges the sorted sample of positions against the user's rated
// items in a single pass: sampled positions go to train, the rest to test.
func (s *DataSplitter) keepGiven(user int, row *base.SparseVector, givenIndex []int, train, test *base.SparseMatrix) {
	i := 0
	row.ForEach(func(j, item int, rating float64) {
		if i < len(givenIndex) && givenIndex[i] == j {
			train.Set(user, item, rating)
			i++
		} else {
			test.Set(user, item, rating)
		}
	})
}
