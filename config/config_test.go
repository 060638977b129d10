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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	text := `
[data]
path = "ratings.csv"
separator = ","
has_header = true

[split]
policy = "k-fold"
num_folds = 10
fold = 3
seed = 42

[output]
dir = "splits"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ratings.csv", conf.Data.Path)
	assert.Equal(t, ",", conf.Data.Separator)
	assert.True(t, conf.Data.HasHeader)
	assert.Equal(t, PolicyKFold, conf.Split.Policy)
	assert.Equal(t, 10, conf.Split.NumFolds)
	assert.Equal(t, 3, conf.Split.Fold)
	assert.Equal(t, int64(42), conf.Split.Seed)
	assert.Equal(t, "splits", conf.Output.Dir)
	// defaults survive partial config
	assert.Equal(t, 0.8, conf.Split.TrainRatio)
	assert.NotPanics(t, conf.Validate)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig("/no/such/config.toml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	conf := GetDefaultConfig()
	// no data source
	assert.Panics(t, conf.Validate)
	conf.Data.BuiltIn = "ml-100k"
	assert.NotPanics(t, conf.Validate)

	conf.Split.Policy = "halve"
	assert.Panics(t, conf.Validate)

	conf.Split.Policy = PolicyRatio
	conf.Split.TrainRatio = 1.5
	assert.Panics(t, conf.Validate)

	conf.Split.TrainRatio = 0.6
	conf.Split.Policy = PolicyRatioValid
	conf.Split.ValidRatio = 0.4
	assert.Panics(t, conf.Validate)
	conf.Split.ValidRatio = 0.2
	assert.NotPanics(t, conf.Validate)

	conf.Split.Policy = PolicyKFold
	conf.Split.NumFolds = 0
	assert.Panics(t, conf.Validate)
	conf.Split.NumFolds = 5
	assert.NotPanics(t, conf.Validate)

	conf.Split.Policy = PolicyGiven
	conf.Split.NumGiven = -1
	assert.Panics(t, conf.Validate)
}
