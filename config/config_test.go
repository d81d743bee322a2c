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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorse-io/tabular/model"
)

func TestUnmarshal(t *testing.T) {
	data, err := os.ReadFile("config.toml.template")
	require.NoError(t, err)
	setDefault()
	viper.SetConfigType("toml")
	err = viper.ReadConfig(strings.NewReader(string(data)))
	require.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	require.NoError(t, err)

	// [data]
	assert.Equal(t, "data.csv", config.Data.Path)
	assert.Equal(t, ",", config.Data.Separator)
	assert.Equal(t, "purchase", config.Data.Target)
	assert.Equal(t, []string{"age", "credit_score"}, config.Data.Numerical)
	assert.Equal(t, []string{"gender"}, config.Data.Categorical)
	// [split]
	assert.Equal(t, float32(0.2), config.Split.TestRatio)
	assert.Equal(t, int64(42), config.Split.RandomState)
	// [model]
	assert.Equal(t, "logistic", config.Model.Type)
	assert.Equal(t, 1, config.Model.FitJobs)
	assert.Equal(t, 10, config.Model.Verbose)
	// [output]
	assert.Equal(t, "pipeline.bin", config.Output.Path)
	assert.NoError(t, config.Validate())
}

func TestSetDefault(t *testing.T) {
	setDefault()
	viper.SetConfigType("toml")
	err := viper.ReadConfig(strings.NewReader(""))
	require.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), &config)
}

func TestLoadConfig(t *testing.T) {
	template, err := os.ReadFile("config.toml.template")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, template, 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "purchase", config.Data.Target)
	assert.Equal(t, model.Params{
		model.Lr:          0.1,
		model.NEpochs:     int64(200),
		model.RandomState: int64(42),
	}, config.Model.GetParams())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "no_such.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad test ratio", func(c *Config) { c.Split.TestRatio = 1 }},
		{"negative test ratio", func(c *Config) { c.Split.TestRatio = -0.1 }},
		{"bad model type", func(c *Config) { c.Model.Type = "svm" }},
		{"no target", func(c *Config) { c.Data.Target = "" }},
		{"no data path", func(c *Config) { c.Data.Path = "" }},
		{"no feature columns", func(c *Config) { c.Data.Numerical = nil; c.Data.Categorical = nil }},
		{"zero fit jobs", func(c *Config) { c.Model.FitJobs = 0 }},
		{"unknown hyper-parameter", func(c *Config) { c.Model.Params = map[string]interface{}{"gamma": 1.0} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			config := GetDefaultConfig()
			config.Data.Path = "data.csv"
			config.Data.Target = "purchase"
			config.Data.Numerical = []string{"age"}
			require.NoError(t, config.Validate())
			c.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestGetParams(t *testing.T) {
	config := ModelConfig{Params: map[string]interface{}{
		"n_trees":   int64(50),
		"max_depth": int64(8),
		"unknown":   1,
	}}
	params := config.GetParams()
	assert.Equal(t, 50, params.GetInt(model.NTrees, 0))
	assert.Equal(t, 8, params.GetInt(model.MaxDepth, 0))
	assert.Len(t, params, 2)
}

func TestNewEstimator(t *testing.T) {
	modelConfig := ModelConfig{Type: "logistic"}
	logistic, err := modelConfig.NewEstimator()
	require.NoError(t, err)
	assert.IsType(t, &model.LogisticRegression{}, logistic)
	modelConfig.Type = "forest"
	forest, err := modelConfig.NewEstimator()
	require.NoError(t, err)
	assert.IsType(t, &model.RandomForest{}, forest)
	modelConfig.Type = "svm"
	_, err = modelConfig.NewEstimator()
	assert.Error(t, err)
}

func TestNewRouter(t *testing.T) {
	data := DataConfig{Numerical: []string{"age"}, Categorical: []string{"gender"}}
	router, err := data.NewRouter()
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "gender"}, router.Columns())

	numericOnly := DataConfig{Numerical: []string{"age"}}
	router, err = numericOnly.NewRouter()
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, router.Columns())
}
