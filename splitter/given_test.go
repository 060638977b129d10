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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiven(t *testing.T) {
	m := newRatingMatrix()
	s := NewDataSplitter(m, 0)
	train, test, err := s.Given(2)
	require.NoError(t, err)
	assertPartition(t, m, train, test)
	// users rating more than 2 items keep exactly 2 in train
	assert.Equal(t, 2, train.Row(0).Len())
	assert.Equal(t, 2, test.Row(0).Len())
	assert.Equal(t, 2, train.Row(1).Len())
	assert.Equal(t, 1, test.Row(1).Len())
	// users rating 2 or fewer items keep everything in train
	assert.Equal(t, 2, train.Row(2).Len())
	assert.Equal(t, 0, test.Row(2).Len())
	assert.Equal(t, 1, train.Row(3).Len())
	assert.Equal(t, 0, test.Row(3).Len())
}

func TestGiven_Invalid(t *testing.T) {
	s := NewDataSplitter(newRatingMatrix(), 0)
	_, _, err := s.Given(0)
	assert.True(t, errors.IsNotValid(err))
	_, _, err = s.Given(-3)
	assert.True(t, errors.IsNotValid(err))
}

func TestGivenRatio(t *testing.T) {
	m := newRatingMatrix()
	s := NewDataSplitter(m, 0)
	train, test, err := s.GivenRatio(0.5)
	require.NoError(t, err)
	assertPartition(t, m, train, test)
	// per-user train counts are floor(numRated * ratio)
	assert.Equal(t, 2, train.Row(0).Len())
	assert.Equal(t, 1, train.Row(1).Len())
	assert.Equal(t, 1, train.Row(2).Len())
	// no fallback: floor(1*0.5) = 0, the single rating goes to test
	assert.Equal(t, 0, train.Row(3).Len())
	assert.Equal(t, 1, test.Row(3).Len())
}

func TestGivenRatio_Invalid(t *testing.T) {
	s := NewDataSplitter(newRatingMatrix(), 0)
	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := s.GivenRatio(ratio)
		assert.True(t, errors.IsNotValid(err))
	}
}
