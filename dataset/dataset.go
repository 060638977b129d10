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

// Package dataset loads rating matrices from CSV files and built-in
// benchmark datasets.
package dataset

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/gorse-io/split/base"
	"github.com/gorse-io/split/splitter"
)

// Ratings is a rating matrix together with the timestamp of each rating.
// Timestamps is empty if the source file has no timestamp column.
type Ratings struct {
	Matrix     *base.SparseMatrix
	Timestamps *splitter.Timestamps
}

// LoadCSV loads ratings from a CSV file. Each line is
//
//	<userId> <sep> <itemId> <sep> <rating> [<sep> <timestamp>]
//
// where user and item ids are non-negative integers. For example, the
// `u.data` file from MovieLens 100K is:
//
//	196\t242\t3\t881250949
//	186\t302\t3\t891717742
//	22\t377\t1\t878887116
func LoadCSV(path, sep string, hasHeader bool) (*Ratings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()

	type record struct {
		user, item int
		rating     float64
		timestamp  int64
		timed      bool
	}
	var records []record
	numRows, numColumns := 0, 0

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if hasHeader {
			hasHeader = false
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, sep)
		if len(fields) < 3 {
			return nil, errors.NotValidf("line %d: expected at least 3 fields, got %d", line, len(fields))
		}
		var rec record
		if rec.user, err = strconv.Atoi(fields[0]); err != nil {
			return nil, errors.Annotatef(err, "line %d: user id", line)
		}
		if rec.item, err = strconv.Atoi(fields[1]); err != nil {
			return nil, errors.Annotatef(err, "line %d: item id", line)
		}
		if rec.rating, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, errors.Annotatef(err, "line %d: rating", line)
		}
		if len(fields) >= 4 {
			if rec.timestamp, err = strconv.ParseInt(fields[3], 10, 64); err != nil {
				return nil, errors.Annotatef(err, "line %d: timestamp", line)
			}
			rec.timed = true
		}
		if rec.user >= numRows {
			numRows = rec.user + 1
		}
		if rec.item >= numColumns {
			numColumns = rec.item + 1
		}
		records = append(records, rec)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}

	ratings := &Ratings{
		Matrix:     base.NewSparseMatrix(numRows, numColumns),
		Timestamps: splitter.NewTimestamps(),
	}
	for _, rec := range records {
		ratings.Matrix.Set(rec.user, rec.item, rec.rating)
		if rec.timed {
			ratings.Timestamps.Put(rec.user, rec.item, rec.timestamp)
		}
	}
	return ratings, nil
}
