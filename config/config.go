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

// Package config loads and validates the splitting configuration.
package config

import (
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Split policies selectable in the configuration.
const (
	PolicyRatio      = "ratio"
	PolicyRatioValid = "ratio-with-validation"
	PolicyKFold      = "k-fold"
	PolicyRatingDate = "rating-date"
	PolicyUserDate   = "user-date"
	PolicyItemDate   = "item-date"
	PolicyGiven      = "given"
	PolicyGivenRatio = "given-ratio"
	PolicyColdStart  = "cold-start"
)

// Config is the configuration for the split command.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Split  SplitConfig  `mapstructure:"split"`
	Output OutputConfig `mapstructure:"output"`
}

// DataConfig describes where ratings come from.
type DataConfig struct {
	// Path of a ratings CSV file. Ignored if BuiltIn is set.
	Path string `mapstructure:"path"`
	// BuiltIn is the name of a built-in dataset (e.g. ml-100k).
	BuiltIn string `mapstructure:"built_in"`
	// Separator between CSV fields.
	Separator string `mapstructure:"separator"`
	// HasHeader skips the first line of the CSV file.
	HasHeader bool `mapstructure:"has_header"`
}

// SplitConfig selects the split policy and its parameters.
type SplitConfig struct {
	Policy     string  `mapstructure:"policy"`
	TrainRatio float64 `mapstructure:"train_ratio"`
	ValidRatio float64 `mapstructure:"valid_ratio"`
	NumFolds   int     `mapstructure:"num_folds"`
	// Fold is the 1-based fold exported by the k-fold policy.
	Fold     int   `mapstructure:"fold"`
	NumGiven int   `mapstructure:"num_given"`
	Seed     int64 `mapstructure:"seed"`
}

// OutputConfig describes where partitions are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// GetDefaultConfig returns the default configuration: a 0.8 ratio split of a
// tab-separated file, written to ./output.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Separator: "\t",
		},
		Split: SplitConfig{
			Policy:     PolicyRatio,
			TrainRatio: 0.8,
			ValidRatio: 0.1,
			NumFolds:   5,
			Fold:       1,
			NumGiven:   10,
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}

// LoadConfig loads the configuration from a TOML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	conf := GetDefaultConfig()
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

// Validate panics if the configuration asks for an impossible split.
func (config *Config) Validate() {
	if config.Data.Path == "" && config.Data.BuiltIn == "" {
		panic("one of `data.path` and `data.built_in` must be set in config")
	}
	validateIn("split.policy", config.Split.Policy, []string{
		PolicyRatio, PolicyRatioValid, PolicyKFold, PolicyRatingDate,
		PolicyUserDate, PolicyItemDate, PolicyGiven, PolicyGivenRatio, PolicyColdStart,
	})
	switch config.Split.Policy {
	case PolicyRatio, PolicyRatingDate, PolicyUserDate, PolicyItemDate, PolicyGivenRatio:
		validateRatio("split.train_ratio", config.Split.TrainRatio)
	case PolicyRatioValid:
		validateRatio("split.train_ratio", config.Split.TrainRatio)
		validateRatio("split.valid_ratio", config.Split.ValidRatio)
		validateRatio("split.train_ratio+split.valid_ratio", config.Split.TrainRatio+config.Split.ValidRatio)
	case PolicyKFold:
		validatePositive("split.num_folds", config.Split.NumFolds)
		validatePositive("split.fold", config.Split.Fold)
	case PolicyGiven:
		validatePositive("split.num_given", config.Split.NumGiven)
	}
}
