package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment overrides, e.g.
// VERSO_LINE_ENDING=crlf.
const envPrefix = "VERSO_"

// Load reads configuration from a file, applies VERSO_* environment
// overrides, and validates the result. A missing file is not an error;
// defaults apply. The format is chosen by extension: .toml, .yaml, .yml.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := Parse(data, filepath.Ext(path), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	applyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes config data in the format implied by ext into cfg.
func Parse(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// applyEnv overrides scalar settings from the environment.
func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(envPrefix + "LINE_ENDING"); v != "" {
		cfg.LineEnding = strings.ToLower(v)
	}
	if v := getenv(envPrefix + "EVENTS_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Events.QueueSize = n
		}
	}
	if v := getenv(envPrefix + "EVENTS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Events.Workers = n
		}
	}
	if v := getenv(envPrefix + "SCRIPT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Script.TimeoutSeconds = n
		}
	}
}
