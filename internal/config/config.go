package config

import (
	"fmt"

	"github.com/dquist/verso/internal/engine/buffer"
)

// Config holds the engine configuration.
type Config struct {
	// LineEnding selects content normalization: "lf" or "crlf".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`

	Undo   UndoConfig   `toml:"undo" yaml:"undo"`
	Events EventsConfig `toml:"events" yaml:"events"`
	Script ScriptConfig `toml:"script" yaml:"script"`
}

// UndoConfig controls undo grouping.
type UndoConfig struct {
	// Groups lists (prev, next) edit type pairs that continue one undo
	// group. Empty means the built-in default policy.
	Groups [][2]string `toml:"groups" yaml:"groups"`
}

// EventsConfig controls the event bus.
type EventsConfig struct {
	QueueSize int `toml:"queue_size" yaml:"queue_size"`
	Workers   int `toml:"workers" yaml:"workers"`
}

// ScriptConfig controls the Lua script runtime.
type ScriptConfig struct {
	// TimeoutSeconds bounds a script run; 0 disables the limit.
	TimeoutSeconds int `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LineEnding: "lf",
		Events: EventsConfig{
			QueueSize: 256,
			Workers:   4,
		},
		Script: ScriptConfig{
			TimeoutSeconds: 10,
		},
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.LineEnding {
	case "lf", "crlf":
	default:
		return fmt.Errorf("%w: line_ending %q (want \"lf\" or \"crlf\")", ErrInvalidConfig, c.LineEnding)
	}
	if c.Events.QueueSize < 0 {
		return fmt.Errorf("%w: events.queue_size must not be negative", ErrInvalidConfig)
	}
	if c.Events.Workers < 0 {
		return fmt.Errorf("%w: events.workers must not be negative", ErrInvalidConfig)
	}
	if c.Script.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: script.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	for _, pair := range c.Undo.Groups {
		for _, name := range pair {
			if _, err := buffer.ParseEditType(name); err != nil {
				return fmt.Errorf("%w: undo.groups: %v", ErrInvalidConfig, err)
			}
		}
	}
	return nil
}

// LineEndingValue maps the configured name to the buffer constant.
func (c Config) LineEndingValue() buffer.LineEnding {
	if c.LineEnding == "crlf" {
		return buffer.LineEndingCRLF
	}
	return buffer.LineEndingLF
}

// GroupPolicy builds the undo grouping policy. With no configured pairs
// the built-in default applies.
func (c Config) GroupPolicy() (buffer.GroupPolicy, error) {
	if len(c.Undo.Groups) == 0 {
		return buffer.DefaultGroupPolicy(), nil
	}
	p := buffer.GroupPolicy{}
	for _, pair := range c.Undo.Groups {
		prev, err := buffer.ParseEditType(pair[0])
		if err != nil {
			return nil, fmt.Errorf("undo.groups: %w", err)
		}
		next, err := buffer.ParseEditType(pair[1])
		if err != nil {
			return nil, fmt.Errorf("undo.groups: %w", err)
		}
		p = p.Allow(prev, next)
	}
	return p, nil
}
