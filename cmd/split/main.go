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

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorse-io/split/base"
	"github.com/gorse-io/split/base/log"
	"github.com/gorse-io/split/config"
	"github.com/gorse-io/split/dataset"
	"github.com/gorse-io/split/splitter"
)

const version = "0.1.0"

var splitCommand = &cobra.Command{
	Use:   "split",
	Short: "Split a sparse rating matrix into training, validation and test sets.",
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println("split version", version)
			return
		}
		conf, s, ratings := setup(cmd)
		if err := os.MkdirAll(conf.Output.Dir, os.ModePerm); err != nil {
			log.Logger().Fatal("failed to create output directory", zap.Error(err))
		}
		if debug, _ := cmd.PersistentFlags().GetBool("debug"); debug {
			s.EnableDebugDump(conf.Output.Dir)
		}
		parts, err := runPolicy(conf, s, ratings)
		if err != nil {
			log.Logger().Fatal("split failed", zap.String("policy", conf.Split.Policy), zap.Error(err))
		}
		for name, part := range parts {
			path := filepath.Join(conf.Output.Dir, name+".txt")
			if err := writeRatings(path, part); err != nil {
				log.Logger().Fatal("failed to write partition", zap.String("path", path), zap.Error(err))
			}
			log.Logger().Info("partition written",
				zap.String("path", path), zap.Int("ratings", part.Len()))
		}
	},
}

var sampleCommand = &cobra.Command{
	Use:   "sample",
	Short: "Export a random sub-sample of the rating matrix.",
	Run: func(cmd *cobra.Command, args []string) {
		conf, s, _ := setup(cmd.Root())
		numUsers, _ := cmd.Flags().GetInt("users")
		numItems, _ := cmd.Flags().GetInt("items")
		if err := os.MkdirAll(conf.Output.Dir, os.ModePerm); err != nil {
			log.Logger().Fatal("failed to create output directory", zap.Error(err))
		}
		path := filepath.Join(conf.Output.Dir, "sample.txt")
		count := s.SampleToFile(path, numUsers, numItems)
		log.Logger().Info("sample written", zap.String("path", path), zap.Int("ratings", count))
	},
}

// setup loads the configuration and the rating matrix shared by all commands.
func setup(cmd *cobra.Command) (*config.Config, *splitter.DataSplitter, *dataset.Ratings) {
	debug, _ := cmd.PersistentFlags().GetBool("debug")
	log.SetLogger(cmd.PersistentFlags(), debug)
	configPath, _ := cmd.PersistentFlags().GetString("config")
	log.Logger().Info("load config", zap.String("config", configPath))
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		log.Logger().Fatal("failed to load config", zap.Error(err))
	}
	conf.Validate()

	var ratings *dataset.Ratings
	if conf.Data.BuiltIn != "" {
		ratings, err = dataset.LoadBuiltIn(conf.Data.BuiltIn)
	} else {
		ratings, err = dataset.LoadCSV(conf.Data.Path, conf.Data.Separator, conf.Data.HasHeader)
	}
	if err != nil {
		log.Logger().Fatal("failed to load ratings", zap.Error(err))
	}
	log.Logger().Info("ratings loaded",
		zap.Int("users", ratings.Matrix.NumRows()),
		zap.Int("items", ratings.Matrix.NumColumns()),
		zap.Int("ratings", ratings.Matrix.Len()))
	return conf, splitter.NewDataSplitter(ratings.Matrix, conf.Split.Seed), ratings
}

// runPolicy executes the configured split policy and names its partitions.
func runPolicy(conf *config.Config, s *splitter.DataSplitter, ratings *dataset.Ratings) (map[string]*base.SparseMatrix, error) {
	var (
		train, valid, test *base.SparseMatrix
		err                error
	)
	switch conf.Split.Policy {
	case config.PolicyRatio:
		train, test, err = s.Ratio(conf.Split.TrainRatio)
	case config.PolicyRatioValid:
		train, valid, test, err = s.RatioWithValidation(conf.Split.TrainRatio, conf.Split.ValidRatio)
	case config.PolicyKFold:
		var plan *splitter.FoldPlan
		if plan, err = s.SplitFolds(conf.Split.NumFolds); err == nil {
			train, test, err = s.KthFold(plan, conf.Split.Fold)
		}
	case config.PolicyRatingDate:
		train, test, err = s.RatioByRatingDate(conf.Split.TrainRatio, ratings.Timestamps)
	case config.PolicyUserDate:
		train, test, err = s.RatioByUserDate(conf.Split.TrainRatio, ratings.Timestamps)
	case config.PolicyItemDate:
		train, test, err = s.RatioByItemDate(conf.Split.TrainRatio, ratings.Timestamps)
	case config.PolicyGiven:
		train, test, err = s.Given(conf.Split.NumGiven)
	case config.PolicyGivenRatio:
		train, test, err = s.GivenRatio(conf.Split.TrainRatio)
	case config.PolicyColdStart:
		train, test, err = s.DataView(splitter.ColdStartView)
	}
	if err != nil {
		return nil, err
	}
	parts := map[string]*base.SparseMatrix{"train": train, "test": test}
	if valid != nil {
		parts["validation"] = valid
	}
	return parts, nil
}

// writeRatings writes one "<user+1> <item+1> <rating>" line per rating.
func writeRatings(path string, m *base.SparseMatrix) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	m.ForEach(func(user, item int, rating float64) {
		fmt.Fprintf(writer, "%d %d %s\n",
			user+1, item+1, strconv.FormatFloat(rating, 'g', -1, 32))
	})
	return writer.Flush()
}

func init() {
	splitCommand.PersistentFlags().StringP("config", "c", "config.toml", "configuration file path")
	splitCommand.PersistentFlags().BoolP("debug", "d", false, "use debug mode")
	splitCommand.PersistentFlags().BoolP("version", "v", false, "split version")
	log.AddFlags(splitCommand.PersistentFlags())
	sampleCommand.Flags().Int("users", 0, "number of sampled users (0 for all)")
	sampleCommand.Flags().Int("items", 0, "number of sampled items (0 for all)")
	splitCommand.AddCommand(sampleCommand)
}

func main() {
	if err := splitCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
