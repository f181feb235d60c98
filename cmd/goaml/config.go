package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// config is the CLI configuration. It can be read from a YAML file given by
// --config; flags set on the command line take precedence.
type config struct {
	Schema    string `yaml:"schema"`
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
	Language  string `yaml:"language"`
	MaxDepth  int    `yaml:"maxDepth"`
}

func defaultConfig() config {
	return config{LogLevel: "warn", LogFormat: formatText, Language: "en"}
}

// loadConfigFile decodes path strictly: unknown keys are an error. A relative
// schema path is resolved against the directory of the file.
func loadConfigFile(path string) (config, error) {
	var cfg config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Schema != "" && !filepath.IsAbs(cfg.Schema) {
		cfg.Schema = filepath.Join(filepath.Dir(path), cfg.Schema)
	}
	return cfg, nil
}

// mergeFile copies values from file into c for every flag the user did not
// set explicitly.
func (c *config) mergeFile(file config, fs *pflag.FlagSet) {
	if !fs.Changed("schema") && file.Schema != "" {
		c.Schema = file.Schema
	}
	if !fs.Changed(logLevelFlag) && file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if !fs.Changed(logFormatFlag) && file.LogFormat != "" {
		c.LogFormat = file.LogFormat
	}
	if !fs.Changed("language") && file.Language != "" {
		c.Language = file.Language
	}
	if !fs.Changed("max-depth") && file.MaxDepth > 0 {
		c.MaxDepth = file.MaxDepth
	}
}
