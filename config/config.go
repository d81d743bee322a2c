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

// Package config loads and validates training job configuration.
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gorse-io/tabular/base/log"
	"github.com/gorse-io/tabular/dataset"
	"github.com/gorse-io/tabular/model"
	"github.com/gorse-io/tabular/transform"
)

// Config is the configuration for a training job.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Split  SplitConfig  `mapstructure:"split"`
	Model  ModelConfig  `mapstructure:"model"`
	Output OutputConfig `mapstructure:"output"`
}

// DataConfig describes the input table and its column roles.
type DataConfig struct {
	Path        string   `mapstructure:"path" validate:"required"`
	Separator   string   `mapstructure:"separator" validate:"required"`
	Target      string   `mapstructure:"target" validate:"required"`
	Numerical   []string `mapstructure:"numerical"`
	Categorical []string `mapstructure:"categorical"`
}

// SplitConfig describes the train/test split.
type SplitConfig struct {
	TestRatio   float32 `mapstructure:"test_ratio" validate:"gt=0,lt=1"`
	RandomState int64   `mapstructure:"random_state"`
}

// ModelConfig selects the classifier and its hyper-parameters.
type ModelConfig struct {
	Type    string                 `mapstructure:"type" validate:"oneof=logistic forest"`
	Params  map[string]interface{} `mapstructure:"params"`
	FitJobs int                    `mapstructure:"fit_jobs" validate:"gte=1"`
	Verbose int                    `mapstructure:"verbose" validate:"gte=1"`
}

// OutputConfig describes where the fitted pipeline artifact is written.
type OutputConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// GetDefaultConfig returns a Config with default values.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Separator: ",",
		},
		Split: SplitConfig{
			TestRatio:   0.2,
			RandomState: 42,
		},
		Model: ModelConfig{
			Type:    "logistic",
			FitJobs: 1,
			Verbose: 10,
		},
		Output: OutputConfig{
			Path: "pipeline.bin",
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [data]
	viper.SetDefault("data.separator", defaultConfig.Data.Separator)
	// [split]
	viper.SetDefault("split.test_ratio", defaultConfig.Split.TestRatio)
	viper.SetDefault("split.random_state", defaultConfig.Split.RandomState)
	// [model]
	viper.SetDefault("model.type", defaultConfig.Model.Type)
	viper.SetDefault("model.fit_jobs", defaultConfig.Model.FitJobs)
	viper.SetDefault("model.verbose", defaultConfig.Model.Verbose)
	// [output]
	viper.SetDefault("output.path", defaultConfig.Output.Path)
}

// paramNames maps [model.params] keys to hyper-parameter names.
var paramNames = map[string]model.ParamName{
	"lr":                model.Lr,
	"reg":               model.Reg,
	"n_epochs":          model.NEpochs,
	"batch_size":        model.BatchSize,
	"n_trees":           model.NTrees,
	"max_depth":         model.MaxDepth,
	"min_samples_split": model.MinSamplesSplit,
	"max_features":      model.MaxFeatures,
	"random_state":      model.RandomState,
}

// GetParams converts the [model.params] table into model hyper-parameters.
// Unknown keys are skipped with a warning.
func (config *ModelConfig) GetParams() model.Params {
	params := model.Params{}
	for name, value := range config.Params {
		if paramName, exist := paramNames[name]; exist {
			params[paramName] = value
		} else {
			log.Logger().Warn("unknown hyper-parameter", zap.String("name", name))
		}
	}
	return params
}

// GetFitConfig creates a fit config from the model section.
func (config *ModelConfig) GetFitConfig() *model.FitConfig {
	return model.NewFitConfig().
		SetJobs(config.FitJobs).
		SetVerbose(config.Verbose)
}

// NewEstimator creates the configured classifier.
func (config *ModelConfig) NewEstimator() (model.Classifier, error) {
	switch config.Type {
	case "logistic":
		return model.NewLogisticRegression(config.GetParams()), nil
	case "forest":
		return model.NewRandomForest(config.GetParams()), nil
	default:
		return nil, errors.NotSupportedf("model type %s", config.Type)
	}
}

// GetSchema returns the declared column schema of the input table.
func (config *DataConfig) GetSchema() dataset.Schema {
	return dataset.Schema{
		Numerical:   config.Numerical,
		Categorical: config.Categorical,
		Target:      config.Target,
	}
}

// NewRouter builds a column router over the declared feature columns.
func (config *DataConfig) NewRouter() (*transform.ColumnRouter, error) {
	var stages []transform.Stage
	if len(config.Numerical) > 0 {
		stages = append(stages, transform.Stage{
			Name:        "numerical",
			Transformer: transform.NewNumerical(config.Numerical),
		})
	}
	if len(config.Categorical) > 0 {
		stages = append(stages, transform.Stage{
			Name:        "categorical",
			Transformer: transform.NewCategorical(config.Categorical),
		})
	}
	return transform.NewColumnRouter(stages...)
}

// Validate checks the configuration for structural errors.
func (config *Config) Validate() error {
	if err := validator.New().Struct(config); err != nil {
		return errors.NotValidf("config: %v", err)
	}
	if len(config.Data.Numerical)+len(config.Data.Categorical) == 0 {
		return errors.NotValidf("config without feature columns")
	}
	for name := range config.Model.Params {
		if _, exist := paramNames[name]; !exist {
			return errors.NotValidf("hyper-parameter %s", name)
		}
	}
	return nil
}

// LoadConfig loads and validates configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
