package logging

import (
	"os"
	"strconv"
	"strings"
)

// Env names the environment variables read by Finalize. Empty names are
// skipped.
type Env struct {
	Level  string
	Format string
	Source string
}

// Config is the [logging] table of routelens.toml.
type Config struct {
	Level  Level  `toml:"level"`
	Format Format `toml:"format"`
	// Source adds the emitting file and line to each record.
	Source bool `toml:"source"`
}

// Finalize fills defaults, applies env, normalizes spelling and validates.
// Level and format are case-insensitive and "warning" is read as warn.
func (c *Config) Finalize(env *Env) error {
	c.loadEnv(env)
	c.normalize()
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}
	if err := c.Level.Validate(); err != nil {
		return err
	}
	return c.Format.Validate()
}

// Merge copies the overlay's set fields. Source can only be switched on.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	c.Source = c.Source || overlay.Source
}

func (c *Config) loadEnv(env *Env) {
	if env == nil {
		return
	}
	if v := lookup(env.Level); v != "" {
		c.Level = Level(v)
	}
	if v := lookup(env.Format); v != "" {
		c.Format = Format(v)
	}
	if v := lookup(env.Source); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Source = on
		}
	}
}

func (c *Config) normalize() {
	c.Level = Level(strings.ToLower(strings.TrimSpace(string(c.Level))))
	if c.Level == "warning" {
		c.Level = LevelWarn
	}
	c.Format = Format(strings.ToLower(strings.TrimSpace(string(c.Format))))
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
