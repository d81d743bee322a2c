// Copyright 2025 gorse Project Authors
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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorse-io/tabular/base"
	"github.com/gorse-io/tabular/base/log"
	"github.com/gorse-io/tabular/cmd/version"
	"github.com/gorse-io/tabular/config"
	"github.com/gorse-io/tabular/dataset"
	"github.com/gorse-io/tabular/pipeline"
)

var rootCommand = &cobra.Command{
	Use:   "tabular",
	Short: "Classification pipelines for tabular data.",
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}
		_ = cmd.Help()
	},
}

var trainCommand = &cobra.Command{
	Use:   "train",
	Short: "Fit a classification pipeline and save the artifact.",
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.Root().PersistentFlags(), debug)
		configPath, _ := cmd.Flags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		table, labels, err := dataset.LoadCSV(conf.Data.Path, conf.Data.Separator, conf.Data.GetSchema())
		if err != nil {
			log.Logger().Fatal("failed to load table", zap.Error(err))
		}
		split, err := dataset.StratifiedSplit(table, labels, conf.Split.TestRatio, conf.Split.RandomState)
		if err != nil {
			log.Logger().Fatal("failed to split table", zap.Error(err))
		}
		router, err := conf.Data.NewRouter()
		if err != nil {
			log.Logger().Fatal("failed to build column router", zap.Error(err))
		}
		estimator, err := conf.Model.NewEstimator()
		if err != nil {
			log.Logger().Fatal("failed to build estimator", zap.Error(err))
		}
		p := pipeline.NewPipeline(router, estimator)
		if err = p.Fit(split.TrainTable, split.TrainLabels, conf.Model.GetFitConfig()); err != nil {
			log.Logger().Fatal("failed to fit pipeline", zap.Error(err))
		}
		score, err := p.Evaluate(split.TestTable, split.TestLabels)
		if err != nil {
			log.Logger().Fatal("failed to evaluate pipeline", zap.Error(err))
		}
		log.Logger().Info("evaluate pipeline on held-out rows", score.ZapFields()...)
		if err = p.Save(conf.Output.Path); err != nil {
			log.Logger().Fatal("failed to save pipeline", zap.Error(err))
		}
	},
}

var predictCommand = &cobra.Command{
	Use:   "predict",
	Short: "Predict labels for a CSV file with a saved pipeline.",
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.Root().PersistentFlags(), debug)
		configPath, _ := cmd.Flags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}
		artifactPath, _ := cmd.Flags().GetString("model")
		if artifactPath == "" {
			artifactPath = conf.Output.Path
		}
		p, err := pipeline.Load(artifactPath)
		if err != nil {
			log.Logger().Fatal("failed to load pipeline", zap.Error(err))
		}
		inputPath, _ := cmd.Flags().GetString("input")
		schema := conf.Data.GetSchema()
		schema.Target = ""
		table, _, err := dataset.LoadCSV(inputPath, conf.Data.Separator, schema)
		if err != nil {
			log.Logger().Fatal("failed to load table", zap.Error(err))
		}
		labels, err := p.Predict(table)
		if err != nil {
			log.Logger().Fatal("failed to predict", zap.Error(err))
		}
		writer := bufio.NewWriter(os.Stdout)
		for _, label := range labels {
			if _, err = fmt.Fprintln(writer, base.Escape(label)); err != nil {
				log.Logger().Fatal("failed to write predictions", zap.Error(err))
			}
		}
		if err = writer.Flush(); err != nil {
			log.Logger().Fatal("failed to write predictions", zap.Error(err))
		}
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print version information.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.BuildInfo())
	},
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().BoolP("version", "v", false, "tabular version")
	trainCommand.Flags().StringP("config", "c", "config.toml", "configuration file path")
	predictCommand.Flags().StringP("config", "c", "config.toml", "configuration file path")
	predictCommand.Flags().StringP("model", "m", "", "pipeline artifact path (default from config)")
	predictCommand.Flags().StringP("input", "i", "", "input CSV file path")
	_ = predictCommand.MarkFlagRequired("input")
	rootCommand.AddCommand(trainCommand, predictCommand, versionCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
