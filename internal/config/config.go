// Package config holds the run configuration for the pathbridge CLI: one
// YAML file describing a bridge invocation and a locate run, with env
// overrides for the endpoint settings that usually come from the deployment
// environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pathbridge/internal/bridge"
	"pathbridge/internal/document"
	"pathbridge/internal/locator"
)

// Config is the full run configuration.
type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	Locate  LocateConfig  `yaml:"locate"`
	Logging LoggingConfig `yaml:"logging"`
}

// BridgeConfig describes one nested-value bridge invocation.
type BridgeConfig struct {
	InputPath  string   `yaml:"input_path"`
	OutputPath string   `yaml:"output_path"`
	InputKeys  []string `yaml:"input_keys"`
	OutputKeys []string `yaml:"output_keys"`

	URL         string            `yaml:"url"`
	Method      string            `yaml:"method"`
	Headers     map[string]string `yaml:"headers"`
	QueryParams map[string]string `yaml:"query_params"`

	// BodyTemplate is free-form YAML; {input_text} occurrences are replaced
	// with the extracted value at dispatch time.
	BodyTemplate *document.Node `yaml:"body_template"`
}

// LocateConfig describes one file-locator run over a CSV table.
type LocateConfig struct {
	TablePath    string   `yaml:"table_path"`
	TargetColumn string   `yaml:"target_column"`
	SearchDir    string   `yaml:"search_dir"`
	NamePrefix   string   `yaml:"name_prefix"`
	Extensions   []string `yaml:"extensions"`
	CreateColumn bool     `yaml:"create_column"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Method: "POST",
		},
		Locate: LocateConfig{
			TargetColumn: "file_path",
			CreateColumn: true,
		},
	}
}

// Load reads a config file, applies defaults underneath it, and applies env
// overrides on top.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides layers environment settings over the file:
// PATHBRIDGE_API_URL replaces the endpoint URL, PATHBRIDGE_API_TOKEN adds a
// bearer Authorization header.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("PATHBRIDGE_API_URL"); u != "" {
		c.Bridge.URL = u
	}
	if token := os.Getenv("PATHBRIDGE_API_TOKEN"); token != "" {
		if c.Bridge.Headers == nil {
			c.Bridge.Headers = map[string]string{"Content-Type": "application/json"}
		}
		c.Bridge.Headers["Authorization"] = "Bearer " + token
	}
}

// Request converts the bridge section into a bridge.Request.
func (b BridgeConfig) Request() bridge.Request {
	return bridge.Request{
		InputPath:    b.InputPath,
		OutputPath:   b.OutputPath,
		InputKeys:    b.InputKeys,
		OutputKeys:   b.OutputKeys,
		URL:          b.URL,
		Method:       b.Method,
		Headers:      b.Headers,
		QueryParams:  b.QueryParams,
		BodyTemplate: b.BodyTemplate,
	}
}

// Options converts the locate section into locator.Options.
func (l LocateConfig) Options() locator.Options {
	return locator.Options{
		Extensions:   l.Extensions,
		CreateColumn: l.CreateColumn,
	}
}
