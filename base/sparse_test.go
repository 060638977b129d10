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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseVector(t *testing.T) {
	vec := NewSparseVector()
	vec.Add(3, 1)
	vec.Add(1, 2)
	vec.Add(2, 3)
	assert.Equal(t, 3, vec.Len())
	vec.SortIndex()
	assert.Equal(t, []int{1, 2, 3}, vec.Indices)
	assert.Equal(t, []float64{2, 3, 1}, vec.Values)
	assert.Equal(t, 2.0, vec.Mean())
}

func TestSparseMatrix(t *testing.T) {
	m := NewSparseMatrix(3, 4)
	m.Set(0, 0, 5)
	m.Set(0, 3, 3)
	m.Set(1, 1, 4)
	m.Set(2, 0, 1)
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 3, m.NumRows())
	assert.Equal(t, 4, m.NumColumns())
	assert.Equal(t, 5.0, m.Get(0, 0))
	assert.Equal(t, 0.0, m.Get(2, 3))
	// row and column mirrors agree
	assert.Equal(t, 2, m.Row(0).Len())
	assert.Equal(t, 2, m.Column(0).Len())
	assert.Equal(t, []int{0, 2}, m.Column(0).Indices)
	// overwrite
	m.Set(0, 0, 2)
	assert.Equal(t, 2.0, m.Get(0, 0))
	assert.Equal(t, 2.0, m.Column(0).Values[0])
	assert.Equal(t, 4, m.Len())
	assert.Equal(t, 2.5, m.Mean())
}

func TestSparseMatrix_ForEach(t *testing.T) {
	m := NewSparseMatrix(2, 3)
	m.Set(0, 2, 1)
	m.Set(0, 1, 2)
	m.Set(1, 0, 3)
	// row-major iteration, insertion order within rows
	var rows, columns []int
	m.ForEach(func(row, column int, value float64) {
		rows = append(rows, row)
		columns = append(columns, column)
	})
	assert.Equal(t, []int{0, 0, 1}, rows)
	assert.Equal(t, []int{2, 1, 0}, columns)
}

func TestSparseMatrix_Reshape(t *testing.T) {
	m := NewSparseMatrix(2, 2)
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)
	m.Set(1, 1, 3)
	// tombstone one cell
	m.Set(0, 1, 0)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 2, m.Row(0).Len())
	compacted := m.Reshape()
	assert.Equal(t, 2, compacted.Len())
	assert.Equal(t, 1, compacted.Row(0).Len())
	assert.Equal(t, 1.0, compacted.Get(0, 0))
	assert.Equal(t, 3.0, compacted.Get(1, 1))
}

func TestSparseMatrix_Copy(t *testing.T) {
	m := NewSparseMatrix(2, 2)
	m.Set(0, 0, 1)
	m.Set(1, 0, 2)
	cp := NewSparseMatrixFrom(m)
	cp.Set(0, 0, 9)
	assert.Equal(t, 1.0, m.Get(0, 0))
	assert.Equal(t, 9.0, cp.Get(0, 0))
	assert.Equal(t, m.Len(), cp.Len())
}

func TestSparseMatrix_String(t *testing.T) {
	m := NewSparseMatrix(1, 2)
	m.Set(0, 1, 4)
	s := m.String()
	assert.True(t, strings.HasPrefix(s, "1x2 matrix, 1 entries\n"))
	assert.Contains(t, s, "0 1 4\n")
}
