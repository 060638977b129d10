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
	"math"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/split/base"
)

// newRatingMatrix builds a 4x5 matrix with 10 ratings:
// user 0 rated 4 items, user 1 rated 3, user 2 rated 2, user 3 rated 1.
func newRatingMatrix() *base.SparseMatrix {
	m := base.NewSparseMatrix(4, 5)
	m.Set(0, 0, 5)
	m.Set(0, 1, 4)
	m.Set(0, 2, 3)
	m.Set(0, 4, 2)
	m.Set(1, 0, 1)
	m.Set(1, 2, 2)
	m.Set(1, 3, 3)
	m.Set(2, 1, 4)
	m.Set(2, 4, 5)
	m.Set(3, 3, 1)
	return m
}

// assertPartition checks the primary correctness property: the outputs are
// pairwise disjoint, their union is the source, and no rating is altered.
func assertPartition(t *testing.T, source *base.SparseMatrix, parts ...*base.SparseMatrix) {
	t.Helper()
	total := 0
	seen := mapset.NewSet[[2]int]()
	for _, part := range parts {
		total += part.Len()
		part.ForEach(func(user, item int, rating float64) {
			assert.False(t, seen.Contains([2]int{user, item}), "cell (%d,%d) in two outputs", user, item)
			seen.Add([2]int{user, item})
			assert.Equal(t, source.Get(user, item), rating, "rating of (%d,%d) altered", user, item)
		})
	}
	assert.Equal(t, source.Len(), total)
}

func TestDataSplitter_Ratio(t *testing.T) {
	m := newRatingMatrix()
	s := NewDataSplitter(m, 0)
	train, test, err := s.Ratio(0.3)
	require.NoError(t, err)
	assertPartition(t, m, train, test)
	// source untouched
	assert.Equal(t, 10, m.Len())

	// the realized training share is a Binomial(10, 0.3) draw
	sum := 0
	const rounds = 1000
	for i := 0; i < rounds; i++ {
		train, _, err := s.Ratio(0.3)
		require.NoError(t, err)
		sum += train.Len()
	}
	mean := float64(sum) / rounds
	assert.InDelta(t, 3, mean, 3*math.Sqrt(10*0.3*0.7/rounds)+0.1)
}

func TestDataSplitter_Ratio_Invalid(t *testing.T) {
	s := NewDataSplitter(newRatingMatrix(), 0)
	for _, ratio := range []float64{-1, 0, 1, 2} {
		_, _, err := s.Ratio(ratio)
		assert.True(t, errors.IsNotValid(err))
	}
}

func TestDataSplitter_RatioWithValidation(t *testing.T) {
	m := newRatingMatrix()
	s := NewDataSplitter(m, 0)
	train, valid, test, err := s.RatioWithValidation(0.5, 0.25)
	require.NoError(t, err)
	assertPartition(t, m, train, valid, test)
	assert.Equal(t, 10, m.Len())
}

func TestDataSplitter_RatioWithValidation_Invalid(t *testing.T) {
	s := NewDataSplitter(newRatingMatrix(), 0)
	_, _, _, err := s.RatioWithValidation(0.5, 0.5)
	assert.True(t, errors.IsNotValid(err))
	_, _, _, err = s.RatioWithValidation(0, 0.5)
	assert.True(t, errors.IsNotValid(err))
	_, _, _, err = s.RatioWithValidation(0.5, 0)
	assert.True(t, errors.IsNotValid(err))
}

func TestDataSplitter_Reproducible(t *testing.T) {
	m := newRatingMatrix()
	a, _, err := NewDataSplitter(m, 42).Ratio(0.5)
	require.NoError(t, err)
	b, _, err := NewDataSplitter(m, 42).Ratio(0.5)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestDataSplitter_DebugDump(t *testing.T) {
	m := newRatingMatrix()
	s := NewDataSplitter(m, 0)
	dir := t.TempDir()
	s.EnableDebugDump(dir)
	_, _, err := s.Ratio(0.5)
	require.NoError(t, err)
	for _, name := range []string{"training.txt", "test.txt"} {
		assert.FileExists(t, dir+"/"+name)
	}
}
