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
	"github.com/samber/lo"

	"github.com/gorse-io/split/base"
)

// RatingContext records when a user rated an item. It only exists while a
// chronological split sorts entries and is discarded afterwards.
type RatingContext struct {
	User      int
	Item      int
	Timestamp int64
}

// Timestamps is the lookup of rating times keyed by (user, item). Every
// nonzero entry of the rating matrix passed to a chronological split must
// have a timestamp.
type Timestamps struct {
	times map[[2]int]int64
}

// NewTimestamps creates an empty timestamp table.
func NewTimestamps() *Timestamps {
	return &Timestamps{times: make(map[[2]int]int64)}
}

// Put records the rating time of a (user, item) pair.
func (t *Timestamps) Put(user, item int, timestamp int64) {
	t.times[[2]int{user, item}] = timestamp
}

// Get returns the rating time of a (user, item) pair.
func (t *Timestamps) Get(user, item int) (int64, bool) {
	timestamp, ok := t.times[[2]int{user, item}]
	return timestamp, ok
}

// Len returns the number of recorded timestamps.
func (t *Timestamps) Len() int {
	return len(t.times)
}

// sortByTime orders rating contexts from the earliest to the latest. Ties
// keep the original matrix order.
func sortByTime(rcs []RatingContext) {
	sort.SliceStable(rcs, func(i, j int) bool {
		return rcs[i].Timestamp < rcs[j].Timestamp
	})
}

// RatioByRatingDate splits ratings chronologically: the earliest
// floor(ratio*n) ratings become the test set, the rest the training set.
// Unlike Ratio this split is deterministic and ratio-exact.
func (s *DataSplitter) RatioByRatingDate(ratio float64, timestamps *Timestamps) (train, test *base.SparseMatrix, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.NotValidf("split ratio %v", ratio)
	}
	rcs := make([]RatingContext, 0, s.rateMatrix.Len())
	s.rateMatrix.ForEach(func(user, item int, rating float64) {
		if err == nil {
			var timestamp int64
			var ok bool
			if timestamp, ok = timestamps.Get(user, item); !ok {
				err = errors.NotValidf("missing timestamp for (%d,%d)", user, item)
				return
			}
			rcs = append(rcs, RatingContext{User: user, Item: item, Timestamp: timestamp})
		}
	})
	if err != nil {
		return nil, nil, err
	}
	sortByTime(rcs)

	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	testSize := int(float64(len(rcs)) * ratio)
	for i, rc := range rcs {
		rating := s.rateMatrix.Get(rc.User, rc.Item)
		if i < testSize {
			test.Set(rc.User, rc.Item, rating)
		} else {
			train.Set(rc.User, rc.Item, rating)
		}
	}
	s.debugInfo(train, test, 0)
	return train, test, nil
}

// RatioByUserDate splits each user's ratings chronologically: per user, the
// earliest floor(ratio*numRated) ratings become test data and the rest
// training data.
func (s *DataSplitter) RatioByUserDate(ratio float64, timestamps *Timestamps) (train, test *base.SparseMatrix, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.NotValidf("split ratio %v", ratio)
	}
	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	for user := 0; user < s.rateMatrix.NumRows(); user++ {
		row := s.rateMatrix.Row(user)
		rcs, err := collectContexts(row, timestamps, func(item int) (int, int) { return user, item })
		if err != nil {
			return nil, nil, err
		}
		sortByTime(rcs)
		cutTest(rcs, ratio, s.rateMatrix, train, test)
	}
	s.debugInfo(train, test, 0)
	return train, test, nil
}

// RatioByItemDate splits each item's ratings chronologically: per item, the
// earliest floor(ratio*numRated) ratings become test data and the rest
// training data.
func (s *DataSplitter) RatioByItemDate(ratio float64, timestamps *Timestamps) (train, test *base.SparseMatrix, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.NotValidf("split ratio %v", ratio)
	}
	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	for item := 0; item < s.rateMatrix.NumColumns(); item++ {
		column := s.rateMatrix.Column(item)
		rcs, err := collectContexts(column, timestamps, func(user int) (int, int) { return user, item })
		if err != nil {
			return nil, nil, err
		}
		sortByTime(rcs)
		cutTest(rcs, ratio, s.rateMatrix, train, test)
	}
	s.debugInfo(train, test, 0)
	return train, test, nil
}

// collectContexts builds rating contexts for one row or column. The pair
// function maps a vector index to the (user, item) cell it denotes.
func collectContexts(vec *base.SparseVector, timestamps *Timestamps, pair func(index int) (int, int)) ([]RatingContext, error) {
	var missing error
	rcs := lo.Map(vec.Indices, func(index int, _ int) RatingContext {
		user, item := pair(index)
		timestamp, ok := timestamps.Get(user, item)
		if !ok && missing == nil {
			missing = errors.NotValidf("missing timestamp for (%d,%d)", user, item)
		}
		return RatingContext{User: user, Item: item, Timestamp: timestamp}
	})
	if missing != nil {
		return nil, missing
	}
	return rcs, nil
}

// cutTest sends the earliest floor(ratio*n) contexts to test and the rest
// to train.
func cutTest(rcs []RatingContext, ratio float64, source, train, test *base.SparseMatrix) {
	testSize := int(float64(len(rcs)) * ratio)
	for i, rc := range rcs {
		rating := source.Get(rc.User, rc.Item)
		if i < testSize {
			test.Set(rc.User, rc.Item, rating)
		} else {
			train.Set(rc.User, rc.Item, rating)
		}
	}
}
