// Package config loads the game description used by the parley command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/parley/pkg/actions"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/reveal"
	"github.com/aretw0/parley/pkg/routing"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvLogLevel  = "PARLEY_LOG_LEVEL"
	EnvRedisAddr = "PARLEY_REDIS_ADDR"
)

// Loader kinds.
const (
	LoaderFile = "file"
	LoaderLoam = "loam"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "parley.yaml"

// ErrInvalid wraps every semantic configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Config describes a game: where its trees live, who talks, and how.
type Config struct {
	// Trees is the tree directory. Relative paths resolve against the config file.
	Trees string `yaml:"trees"`
	// Loader selects the tree format: file (YAML) or loam (Markdown frontmatter).
	Loader      string           `yaml:"loader"`
	RevealDelay time.Duration    `yaml:"reveal_delay"`
	Actions     actions.Defaults `yaml:"actions"`
	Characters  []Character      `yaml:"characters"`
	// Routing holds repeat-visit rules keyed by character identity.
	Routing  map[string]any `yaml:"routing"`
	Redis    Redis          `yaml:"redis"`
	LogLevel string         `yaml:"log_level"`
	// State is the directory of the file assignment store when Redis is not used.
	State string `yaml:"state"`
}

// Character binds an identity to a tree.
type Character struct {
	Name    string `yaml:"name"`
	Display string `yaml:"display"`
	Tree    string `yaml:"tree"`
}

// Redis locates the shared assignment store. Empty Addr disables it.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{
		Trees:       ".",
		Loader:      LoaderFile,
		RevealDelay: reveal.DefaultDelay,
		LogLevel:    "info",
		State:       filepath.Join(".parley", "assignments"),
	}
}

// Load reads path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	if !filepath.IsAbs(cfg.Trees) {
		cfg.Trees = filepath.Join(base, cfg.Trees)
	}
	if !filepath.IsAbs(cfg.State) {
		cfg.State = filepath.Join(base, cfg.State)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default, applies environment overrides and validates.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvRedisAddr); ok {
		c.Redis.Addr = v
	}
}

// Validate checks the fields that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	switch c.Loader {
	case LoaderFile, LoaderLoam:
	default:
		return fmt.Errorf("%w: unknown loader %q", ErrInvalid, c.Loader)
	}
	if c.RevealDelay < 0 {
		return fmt.Errorf("%w: reveal_delay must not be negative", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Characters))
	for i, ch := range c.Characters {
		if ch.Name == "" {
			return fmt.Errorf("%w: character %d has no name", ErrInvalid, i)
		}
		if seen[ch.Name] {
			return fmt.Errorf("%w: character %q declared twice", ErrInvalid, ch.Name)
		}
		seen[ch.Name] = true
	}

	if _, err := c.Router(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Router compiles the routing rules.
func (c *Config) Router() (*routing.Router, error) {
	if len(c.Routing) == 0 {
		return routing.NewRouter(), nil
	}
	return routing.FromConfig(c.Routing)
}

// Character returns the declared character named name.
func (c *Config) Character(name string) (Character, bool) {
	for _, ch := range c.Characters {
		if ch.Name == name {
			return ch, true
		}
	}
	return Character{}, false
}

// Assignment creates a fresh record for the character.
func (ch Character) Assignment() *domain.Assignment {
	a := domain.NewAssignment(ch.Name, ch.Tree)
	a.Display = ch.Display
	return a
}
