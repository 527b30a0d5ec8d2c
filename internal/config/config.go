// Package config loads the ldframe configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/geoknoesis/ldframe/frame"
)

// Output formats written by the frame and order commands.
const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// ErrInvalid is returned for configuration values that cannot be used.
var ErrInvalid = errors.New("config: invalid value")

// Config holds settings shared by the commands. Flags override file values.
type Config struct {
	IDField      string `toml:"id_field"`
	TypeField    string `toml:"type_field"`
	MaxDepth     int    `toml:"max_depth"`     // 0 uses the default ceiling, negative disables it
	DetectCycles bool   `toml:"detect_cycles"` // report cycles instead of expanding to the ceiling
	OrderFile    string `toml:"order_file"`    // YAML order table
	ContextURI   string `toml:"context_uri"`   // replaces @context in written output
	Output       string `toml:"output"`        // yaml or json
	Workers      int    `toml:"workers"`       // concurrent documents in batch mode
	Flatten      bool   `toml:"flatten"`       // flatten input through json-gold before framing

	// Contexts maps remote context IRIs to local files so that json-gold
	// resolves them offline.
	Contexts map[string]string `toml:"contexts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxDepth: frame.DefaultMaxDepth,
		Output:   OutputYAML,
		Workers:  4,
	}
}

// Load reads a TOML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is set and exists. A missing default
// location is not an error.
func LoadOrDefault(path string, required bool) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Load(path)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Output {
	case OutputYAML, OutputJSON:
	default:
		return fmt.Errorf("%w: output %q (want yaml or json)", ErrInvalid, c.Output)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

// FrameOptions builds framing options without the order table.
func (c Config) FrameOptions() frame.Options {
	opts := []frame.Option{
		frame.OptFields(c.IDField, c.TypeField),
		frame.OptMaxDepth(c.MaxDepth),
	}
	if c.DetectCycles {
		opts = append(opts, frame.OptDetectCycles())
	}
	return frame.NewOptions(opts...)
}
