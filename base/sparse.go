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
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// SparseVector stores the indices and values of nonzero entries in one row
// or one column of a sparse matrix.
type SparseVector struct {
	Indices []int
	Values  []float64
	sorted  bool
}

// NewSparseVector creates a SparseVector.
func NewSparseVector() *SparseVector {
	return &SparseVector{
		Indices: make([]int, 0),
		Values:  make([]float64, 0),
	}
}

// Add appends a new entry.
func (vec *SparseVector) Add(index int, value float64) {
	vec.Indices = append(vec.Indices, index)
	vec.Values = append(vec.Values, value)
	vec.sorted = false
}

// Len returns the number of entries.
func (vec *SparseVector) Len() int {
	return len(vec.Values)
}

// Less returns true if the index of the i-th entry is less than the index of the j-th entry.
func (vec *SparseVector) Less(i, j int) bool {
	return vec.Indices[i] < vec.Indices[j]
}

// Swap two entries.
func (vec *SparseVector) Swap(i, j int) {
	vec.Indices[i], vec.Indices[j] = vec.Indices[j], vec.Indices[i]
	vec.Values[i], vec.Values[j] = vec.Values[j], vec.Values[i]
}

// ForEach iterates entries in the sparse vector.
func (vec *SparseVector) ForEach(f func(i, index int, value float64)) {
	for i := range vec.Indices {
		f(i, vec.Indices[i], vec.Values[i])
	}
}

// SortIndex sorts entries by indices.
func (vec *SparseVector) SortIndex() {
	if !vec.sorted {
		sort.Sort(vec)
		vec.sorted = true
	}
}

// Mean returns the mean of values.
func (vec *SparseVector) Mean() float64 {
	return stat.Mean(vec.Values, nil)
}

// SparseMatrix is a sparse matrix of ratings. Rows are users and columns are
// items. A stored cell holds a positive rating, a missing cell means unrated.
// Entries are mirrored between row vectors and column vectors so that both
// per-user and per-item access are cheap. A cell explicitly set to zero is a
// tombstone: it stays in the structure but is excluded from Len, ForEach and
// copies until Reshape drops it.
type SparseMatrix struct {
	rows    []*SparseVector
	columns []*SparseVector
	size    int
}

// NewSparseMatrix creates an empty numRows x numColumns sparse matrix.
func NewSparseMatrix(numRows, numColumns int) *SparseMatrix {
	m := &SparseMatrix{
		rows:    make([]*SparseVector, numRows),
		columns: make([]*SparseVector, numColumns),
	}
	for i := range m.rows {
		m.rows[i] = NewSparseVector()
	}
	for i := range m.columns {
		m.columns[i] = NewSparseVector()
	}
	return m
}

// NewSparseMatrixFrom creates a deep copy of another sparse matrix. All
// nonzero cells are preserved, tombstones are not.
func NewSparseMatrixFrom(o *SparseMatrix) *SparseMatrix {
	m := NewSparseMatrix(o.NumRows(), o.NumColumns())
	o.ForEach(func(row, column int, value float64) {
		m.Set(row, column, value)
	})
	return m
}

// Len returns the number of nonzero entries.
func (m *SparseMatrix) Len() int {
	return m.size
}

// NumRows returns the number of rows.
func (m *SparseMatrix) NumRows() int {
	return len(m.rows)
}

// NumColumns returns the number of columns.
func (m *SparseMatrix) NumColumns() int {
	return len(m.columns)
}

// Row returns the sparse vector of a row. Do not mutate the returned vector.
func (m *SparseMatrix) Row(row int) *SparseVector {
	return m.rows[row]
}

// Column returns the sparse vector of a column. Do not mutate the returned vector.
func (m *SparseMatrix) Column(column int) *SparseVector {
	return m.columns[column]
}

// Get returns the value of a cell, or zero if the cell is absent.
func (m *SparseMatrix) Get(row, column int) float64 {
	vec := m.rows[row]
	for i, index := range vec.Indices {
		if index == column {
			return vec.Values[i]
		}
	}
	return 0
}

// Set writes the value of a cell. Writing a new nonzero value inserts the
// cell, overwriting an existing cell with zero tombstones it.
func (m *SparseMatrix) Set(row, column int, value float64) {
	vec := m.rows[row]
	for i, index := range vec.Indices {
		if index == column {
			if vec.Values[i] != 0 && value == 0 {
				m.size--
			} else if vec.Values[i] == 0 && value != 0 {
				m.size++
			}
			vec.Values[i] = value
			col := m.columns[column]
			for j, r := range col.Indices {
				if r == row {
					col.Values[j] = value
					break
				}
			}
			return
		}
	}
	m.rows[row].Add(column, value)
	m.columns[column].Add(row, value)
	if value != 0 {
		m.size++
	}
}

// ForEach iterates nonzero entries in row-major order.
func (m *SparseMatrix) ForEach(f func(row, column int, value float64)) {
	for row, vec := range m.rows {
		for i, column := range vec.Indices {
			if vec.Values[i] != 0 {
				f(row, column, vec.Values[i])
			}
		}
	}
}

// Reshape compacts the matrix by dropping tombstoned cells. The receiver is
// left untouched, the compacted matrix is returned.
func (m *SparseMatrix) Reshape() *SparseMatrix {
	return NewSparseMatrixFrom(m)
}

// Mean returns the mean of all nonzero ratings.
func (m *SparseMatrix) Mean() float64 {
	values := make([]float64, 0, m.size)
	m.ForEach(func(row, column int, value float64) {
		values = append(values, value)
	})
	return stat.Mean(values, nil)
}

// String returns the textual dump of the matrix: a header followed by one
// "row column value" line per nonzero entry.
func (m *SparseMatrix) String() string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%dx%d matrix, %d entries\n", m.NumRows(), m.NumColumns(), m.Len()))
	m.ForEach(func(row, column int, value float64) {
		builder.WriteString(fmt.Sprintf("%d %d %v\n", row, column, value))
	})
	return builder.String()
}
