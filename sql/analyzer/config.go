// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analyzer

import (
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	debugAnalyzerKey   = "DEBUG_ANALYZER"
	verboseAnalyzerKey = "VERBOSE_ANALYZER"

	// DefaultMaxMeasureRenameDepth is the default number of times a measure column may be renamed through WITH
	// references before the measure expansion gives up.
	DefaultMaxMeasureRenameDepth = 10
)

// Config holds the settings of an Analyzer.
type Config struct {
	// MaxMeasureRenameDepth bounds the length of the rename chain of a measure column.
	MaxMeasureRenameDepth int `yaml:"max_measure_rename_depth"`
	// Debug enables logging of the analyzer steps.
	Debug bool `yaml:"debug"`
	// Verbose enables printing of the plan after each rule.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration, with debug and verbose modes turned on if the DEBUG_ANALYZER
// or VERBOSE_ANALYZER environment variables are set.
func DefaultConfig() Config {
	cfg := Config{MaxMeasureRenameDepth: DefaultMaxMeasureRenameDepth}
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if _, ok := os.LookupEnv(debugAnalyzerKey); ok {
		c.Debug = true
	}
	if _, ok := os.LookupEnv(verboseAnalyzerKey); ok {
		c.Verbose = true
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if c.MaxMeasureRenameDepth < 1 {
		return ErrInvalidConfig.New("max_measure_rename_depth must be at least 1")
	}
	return nil
}

// LoadConfig reads a YAML configuration. Settings missing from the document keep their default value.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfigFile reads the YAML configuration at |path|.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return LoadConfig(f)
}
