package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"dispute-resolver/internal/classifier"
	"dispute-resolver/internal/correlator"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a resolution run.
type Config struct {
	CorrelationWindow time.Duration
	Rules             []classifier.Rule
	Workers           int
	DatabaseURL       string
	LogLevel          string
}

type configFile struct {
	Correlation struct {
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"correlation"`
	Classifier struct {
		Rules []classifier.Rule `yaml:"rules"`
	} `yaml:"classifier"`
	Pipeline struct {
		Workers int `yaml:"workers"`
	} `yaml:"pipeline"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		CorrelationWindow: correlator.DefaultWindow,
		Rules:             classifier.DefaultRules(),
		Workers:           8,
		LogLevel:          "info",
	}
}

// Load reads path on top of the defaults and then applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := apply(&cfg, raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	window := envInt("CORRELATION_WINDOW_SECONDS", int(cfg.CorrelationWindow.Seconds()))
	if window > 0 {
		cfg.CorrelationWindow = time.Duration(window) * time.Second
	}
	if workers := envInt("PIPELINE_WORKERS", cfg.Workers); workers > 0 {
		cfg.Workers = workers
	}
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	return cfg, nil
}

func apply(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Correlation.WindowSeconds > 0 {
		cfg.CorrelationWindow = time.Duration(f.Correlation.WindowSeconds) * time.Second
	}
	if len(f.Classifier.Rules) > 0 {
		cfg.Rules = f.Classifier.Rules
	}
	if f.Pipeline.Workers > 0 {
		cfg.Workers = f.Pipeline.Workers
	}
	if f.Database.URL != "" {
		cfg.DatabaseURL = f.Database.URL
	}
	if f.Log.Level != "" {
		cfg.LogLevel = f.Log.Level
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
