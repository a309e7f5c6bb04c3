package config

import (
	"time"

	"github.com/raaihank/pii-sentinel/internal/analyzer"
	"github.com/raaihank/pii-sentinel/internal/cache"
	"github.com/raaihank/pii-sentinel/internal/ner"
)

// Config represents the main configuration structure
type Config struct {
	Detection DetectionConfig `yaml:"detection" mapstructure:"detection"`
	NER       ner.Config      `yaml:"ner" mapstructure:"ner"`
	Analyzer  analyzer.Config `yaml:"analyzer" mapstructure:"analyzer"`
	Cache     cache.Config    `yaml:"cache" mapstructure:"cache"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// DetectionConfig contains detector selection configuration
type DetectionConfig struct {
	// Detectors is the default selection when the caller passes none.
	// The special value "all" selects every registered detector.
	Detectors []string `yaml:"detectors" mapstructure:"detectors"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
		MaxSize int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge  int    `yaml:"max_age" mapstructure:"max_age"`
	} `yaml:"file" mapstructure:"file"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Detection: DetectionConfig{
			Detectors: []string{"all"},
		},
		NER: ner.Config{
			ModelPath: "models/ner.onnx",
			VocabPath: "models/vocab.txt",
			MaxLength: 512,
		},
		Analyzer: analyzer.Config{
			Enabled:        false,
			BaseURL:        "http://localhost:5002",
			Timeout:        30 * time.Second,
			RequestsPerMin: 120,
		},
		Cache: cache.Config{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379",
			MaxConnections: 10,
			MinIdleConns:   2,
			DefaultTTL:     time.Hour,
			KeyPrefix:      "piisentinel",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File: struct {
				Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
				Path    string `yaml:"path" mapstructure:"path"`
				MaxSize int    `yaml:"max_size" mapstructure:"max_size"`
				MaxAge  int    `yaml:"max_age" mapstructure:"max_age"`
			}{
				Enabled: false,
				Path:    "logs/piisentinel.log",
				MaxSize: 100, // MB
				MaxAge:  30,  // days
			},
		},
	}
}
