// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a flashcard run. BatchSize bounds the number
// of page images submitted per extraction request, ChunkSize bounds the
// number of extracted pages per generation request, and MaxRetries is the
// number of automatic retries after a generation-service failure (0 means a
// service failure aborts the run).
type Config struct {
	Model       string  `yaml:"model"`
	BatchSize   int     `yaml:"batch_size"`
	ChunkSize   int     `yaml:"chunk_size"`
	MaxRetries  int     `yaml:"max_retries"`
	MaxTokens   int     `yaml:"max_tokens"`
	RenderDPI   float64 `yaml:"render_dpi"`
	Temperature struct {
		Extraction float32 `yaml:"extraction"`
		Generation float32 `yaml:"generation"`
	} `yaml:"temperature"`
	TemplatePath string `yaml:"template_path"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 15
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 20
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.RenderDPI <= 0 {
		cfg.RenderDPI = 150
	}
	if cfg.Temperature.Extraction <= 0 {
		cfg.Temperature.Extraction = 0.1
	}
	if cfg.Temperature.Generation <= 0 {
		cfg.Temperature.Generation = 0.3
	}
	if cfg.TemplatePath == "" {
		cfg.TemplatePath = "assets/flashcard_template.html"
	}
}
