/*
Package config loads the service configuration. Values are resolved with
defaults first, then an optional YAML file, so a deployment only writes the
keys it wants to change.
*/
package config

import (
	"os"

	// Packages
	yaml "gopkg.in/yaml.v3"

	bizbrain "github.com/newjec/bizbrain"
	decision "github.com/newjec/bizbrain/pkg/decision"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Config holds the tunables for the analysis service.
type Config struct {
	Model    Model           `yaml:"model"`
	Search   Search          `yaml:"search"`
	Analysis Analysis        `yaml:"analysis"`
	Chat     Chat            `yaml:"chat"`
	Decision decision.Config `yaml:"decision"`
}

// Model selects the upstream model and its generation parameters.
type Model struct {
	Name        string   `yaml:"name"`
	MaxTokens   uint     `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
}

// Search controls the web search layer.
type Search struct {
	MaxResults uint `yaml:"max_results"`
}

// Analysis controls the streaming analysis pipeline.
type Analysis struct {
	SectionStep uint     `yaml:"section_step"` // progress increment per detected section
	Queries     []string `yaml:"queries"`      // query templates, %s is the company name
}

// Chat controls the plain chat channel.
type Chat struct {
	MaxMessageLen uint `yaml:"max_message_len"`
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model: Model{
			MaxTokens: 4096,
		},
		Search: Search{
			MaxResults: 15,
		},
		Analysis: Analysis{
			SectionStep: 8,
		},
		Chat: Chat{
			MaxMessageLen: 4000,
		},
		Decision: decision.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged. Unknown keys are rejected so typos fail fast.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, bizbrain.ErrBadParameter.With(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, bizbrain.ErrBadParameter.Withf("parse %s: %v", path, err)
	}

	return cfg, cfg.Validate()
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Search.MaxResults == 0 {
		return bizbrain.ErrBadParameter.With("search.max_results must be positive")
	}
	if c.Analysis.SectionStep == 0 {
		return bizbrain.ErrBadParameter.With("analysis.section_step must be positive")
	}
	if c.Chat.MaxMessageLen == 0 {
		return bizbrain.ErrBadParameter.With("chat.max_message_len must be positive")
	}
	if c.Decision.MinContent <= 0 || c.Decision.IdleTimeout <= 0 || c.Decision.Dwell <= 0 {
		return bizbrain.ErrBadParameter.With("decision thresholds must be positive")
	}
	return nil
}
