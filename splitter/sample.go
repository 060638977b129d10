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
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gorse-io/split/base/log"
)

// lines are buffered and flushed in batches to bound memory
const sampleBatchSize = 1500

// Sample writes a random sub-sample of the rating matrix to w, one
// "<user+1> <item+1> <rating>" line per positive rating in the cross
// product of numUsers random users and numItems random items. A count of
// zero or less, or one exceeding the matrix dimension, means all users or
// items. External ids are 1-based and ratings are formatted as
// single-precision floats. Write failures are logged and stop the export,
// they are never returned. The number of exported ratings is returned.
func (s *DataSplitter) Sample(w io.Writer, numUsers, numItems int) int {
	rows := s.rateMatrix.NumRows()
	cols := s.rateMatrix.NumColumns()
	if numUsers <= 0 || numUsers > rows {
		numUsers = rows
	}
	if numItems <= 0 || numItems > cols {
		numItems = cols
	}
	userIds := s.rng.SortedSample(numUsers, rows)
	itemIds := s.rng.SortedSample(numItems, cols)

	lines := make([]string, 0, sampleBatchSize)
	flush := func() bool {
		if len(lines) == 0 {
			return true
		}
		if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
			log.Logger().Error("failed to write sample", zap.Error(err))
			return false
		}
		lines = lines[:0]
		return true
	}

	count := 0
	for _, userId := range userIds {
		for _, itemId := range itemIds {
			rate := s.rateMatrix.Get(userId, itemId)
			if rate > 0 {
				lines = append(lines, fmt.Sprintf("%d %d %s",
					userId+1, itemId+1, strconv.FormatFloat(rate, 'g', -1, 32)))
				count++
				if len(lines) >= sampleBatchSize && !flush() {
					return count
				}
			}
		}
	}
	flush()
	log.Logger().Debug("sample created", zap.Int("size", count))
	return count
}

// SampleToFile writes a random sub-sample to a file, truncating it first.
// I/O failures are logged, the export is best-effort.
func (s *DataSplitter) SampleToFile(path string, numUsers, numItems int) int {
	file, err := os.Create(path)
	if err != nil {
		log.Logger().Error("failed to create sample file",
			zap.String("path", path), zap.Error(err))
		return 0
	}
	defer file.Close()
	return s.Sample(file, numUsers, numItems)
}
