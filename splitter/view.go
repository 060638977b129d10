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
	"strings"

	"github.com/juju/errors"

	"github.com/gorse-io/split/base"
)

// ColdStartView selects users with fewer than five ratings into the test
// set and everyone else into the training set.
const ColdStartView = "cold-start"

// users with fewer ratings than this are cold
const coldStartThreshold = 5

// DataView partitions ratings by a named evaluation view. Only the
// cold-start view is defined: cold users (fewer than five ratings) land
// entirely in the test set, warm users entirely in the training set. An
// unknown view name yields a NotFound error.
func (s *DataSplitter) DataView(view string) (train, test *base.SparseMatrix, err error) {
	switch strings.ToLower(view) {
	case ColdStartView:
		train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
		test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
		for user := 0; user < s.rateMatrix.NumRows(); user++ {
			row := s.rateMatrix.Row(user)
			target := train
			if row.Len() < coldStartThreshold {
				target = test
			}
			row.ForEach(func(i, item int, rating float64) {
				target.Set(user, item, rating)
			})
		}
		return train, test, nil
	default:
		return nil, nil, errors.NotFoundf("data view %q", view)
	}
}
