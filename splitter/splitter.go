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

// Package splitter partitions a sparse rating matrix into disjoint training,
// validation and test subsets under several sampling policies. Every policy
// preserves the partition invariant: each nonzero entry of the source matrix
// lands in exactly one output matrix with its rating unchanged, and the
// source matrix itself is never mutated.
package splitter

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/gorse-io/split/base"
	"github.com/gorse-io/split/base/log"
)

// DataSplitter splits a rating matrix. The random generator is owned by the
// splitter, so two splitters created with the same matrix and seed produce
// identical partitions. Splitting never mutates the source matrix, but the
// shared generator makes concurrent calls on one splitter racy.
type DataSplitter struct {
	rateMatrix *base.SparseMatrix
	rng        base.RandomGenerator
	debugDir   string
}

// NewDataSplitter creates a DataSplitter over a rating matrix with a seeded
// random generator.
func NewDataSplitter(rateMatrix *base.SparseMatrix, seed int64) *DataSplitter {
	return &DataSplitter{
		rateMatrix: rateMatrix,
		rng:        base.NewRandomGenerator(seed),
	}
}

// EnableDebugDump makes every two-way split write the textual form of its
// train and test matrices to training.txt and test.txt under dir. Dump
// failures are logged and never fail a split.
func (s *DataSplitter) EnableDebugDump(dir string) {
	s.debugDir = dir
}

// Ratio splits ratings into two parts: (ratio) training and (1-ratio) test.
// Membership is an independent Bernoulli trial per entry, so the realized
// training share only approximates ratio.
func (s *DataSplitter) Ratio(ratio float64) (train, test *base.SparseMatrix, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.NotValidf("training ratio %v", ratio)
	}
	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	s.rateMatrix.ForEach(func(user, item int, rating float64) {
		if s.rng.Float64() < ratio {
			train.Set(user, item, rating)
		} else {
			test.Set(user, item, rating)
		}
	})
	s.debugInfo(train, test, 0)
	return train, test, nil
}

// RatioWithValidation splits ratings into three parts: (trainRatio) training,
// (validRatio) validation and the remainder test. A single uniform draw per
// entry decides its membership via cumulative thresholds.
func (s *DataSplitter) RatioWithValidation(trainRatio, validRatio float64) (train, valid, test *base.SparseMatrix, err error) {
	if trainRatio <= 0 || validRatio <= 0 || trainRatio+validRatio >= 1 {
		return nil, nil, nil, errors.NotValidf("ratios %v/%v", trainRatio, validRatio)
	}
	train = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	valid = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	test = base.NewSparseMatrix(s.rateMatrix.NumRows(), s.rateMatrix.NumColumns())
	sum := trainRatio + validRatio
	s.rateMatrix.ForEach(func(user, item int, rating float64) {
		draw := s.rng.Float64()
		switch {
		case draw < trainRatio:
			train.Set(user, item, rating)
		case draw < sum:
			valid.Set(user, item, rating)
		default:
			test.Set(user, item, rating)
		}
	})
	return train, valid, test, nil
}

// debugInfo logs the sizes of a two-way split and optionally dumps both
// matrices to disk.
func (s *DataSplitter) debugInfo(train, test *base.SparseMatrix, fold int) {
	fields := []zap.Field{
		zap.Int("training_amount", train.Len()),
		zap.Int("test_amount", test.Len()),
	}
	if fold > 0 {
		fields = append(fields, zap.Int("fold", fold))
	}
	log.Logger().Debug("rating matrix split", fields...)
	if s.debugDir != "" {
		dump := func(name string, m *base.SparseMatrix) {
			if err := os.WriteFile(filepath.Join(s.debugDir, name), []byte(m.String()), 0644); err != nil {
				log.Logger().Error("failed to dump matrix", zap.String("file", name), zap.Error(err))
			}
		}
		dump("training.txt", train)
		dump("test.txt", test)
	}
}
