package config

import (
	"strings"

	"github.com/anas-shakeel/bmpfx/internal/bmp"
	"github.com/anas-shakeel/bmpfx/internal/bytesize"
)

// DefaultOutput is the output path used when neither flag nor config names one.
const DefaultOutput = "output.bmp"

// ApplyDefaults fills zero-valued fields with defaults and normalizes values.
// Explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Filter == "" {
		cfg.Filter = "none"
	}
	cfg.Filter = strings.ToLower(cfg.Filter)

	if cfg.MaxImageSize == 0 {
		cfg.MaxImageSize = bytesize.ByteSize(bmp.DefaultMaxPixelBytes)
	}

	applyLoggingDefaults(&cfg.Logging)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "WARN"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// GetDefaultConfig returns a fully defaulted configuration.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
