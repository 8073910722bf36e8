// Package config provides routelens configuration management with support for
// TOML files, .env files, environment variable overrides, and configuration overlays.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Aman-s12345/routelens/internal/analyzer"
	"github.com/Aman-s12345/routelens/internal/generator"
	"github.com/Aman-s12345/routelens/internal/logging"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "routelens.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "routelens.%s.toml"

	EnvConfigEnv   = "ROUTELENS_ENV"
	EnvFramework   = "ROUTELENS_FRAMEWORK"
	EnvPath        = "ROUTELENS_PATH"
	EnvConcurrency = "ROUTELENS_CONCURRENCY"
	EnvAddr        = "ROUTELENS_ADDR"
	EnvLogLevel    = "ROUTELENS_LOG_LEVEL"
	EnvLogFormat   = "ROUTELENS_LOG_FORMAT"
	EnvLogSource   = "ROUTELENS_LOG_SOURCE"
)

var loggingEnv = &logging.Env{
	Level:  EnvLogLevel,
	Format: EnvLogFormat,
	Source: EnvLogSource,
}

// Config represents the root routelens configuration.
type Config struct {
	Framework   string         `toml:"framework"`
	Path        string         `toml:"path"`
	Concurrency int            `toml:"concurrency"`
	MemoSize    int            `toml:"memo_size"`
	Logging     logging.Config `toml:"logging"`
	Server      ServerConfig   `toml:"server"`
	Export      ExportConfig   `toml:"export"`
}

// ServerConfig configures the HTTP browse surface.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// ExportConfig configures OpenAPI export.
type ExportConfig struct {
	Format      string `toml:"format"`
	Output      string `toml:"output"`
	Title       string `toml:"title"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// Load reads the configuration file at path and applies any environment-specific
// overlay found next to it. An empty path means BaseConfigFile in the working
// directory, which may be absent. A .env file in the working directory is loaded
// into the process environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = BaseConfigFile
	}

	cfg, err := load(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	if overlay := overlayPath(filepath.Dir(path)); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// FrameworkName returns the validated framework. Only meaningful after Finalize.
func (c *Config) FrameworkName() analyzer.Framework {
	f, _ := analyzer.ParseFramework(c.Framework)
	return f
}

// Generator returns the OpenAPI generator settings rooted at the scan path.
func (c *Config) Generator() generator.Config {
	root, err := filepath.Abs(c.Path)
	if err != nil {
		root = c.Path
	}
	return generator.Config{
		Title:       c.Export.Title,
		Version:     c.Export.Version,
		Description: c.Export.Description,
		ServerURL:   c.Export.ServerURL,
		Root:        root,
	}
}

// ShutdownTimeoutDuration parses and returns the shutdown timeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Overrides holds command-line values applied after environment overrides.
// Zero values leave the configuration unchanged.
type Overrides struct {
	Framework   string
	Path        string
	Concurrency int
	LogLevel    string
	LogFormat   string
	Addr        string
}

// Apply sets every non-zero override and validates the result.
func (c *Config) Apply(o Overrides) error {
	if o.Framework != "" {
		c.Framework = o.Framework
	}
	if o.Path != "" {
		c.Path = o.Path
	}
	if o.Concurrency != 0 {
		c.Concurrency = o.Concurrency
	}
	if o.Addr != "" {
		c.Server.Addr = o.Addr
	}
	c.Logging.Merge(&logging.Config{
		Level:  logging.Level(o.LogLevel),
		Format: logging.Format(o.LogFormat),
	})

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Logging.Finalize(nil); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Framework != "" {
		c.Framework = overlay.Framework
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.MemoSize != 0 {
		c.MemoSize = overlay.MemoSize
	}
	c.Logging.Merge(&overlay.Logging)
	c.Server.merge(&overlay.Server)
	c.Export.merge(&overlay.Export)
}

func (s *ServerConfig) merge(overlay *ServerConfig) {
	if overlay.Addr != "" {
		s.Addr = overlay.Addr
	}
	if overlay.ShutdownTimeout != "" {
		s.ShutdownTimeout = overlay.ShutdownTimeout
	}
}

func (e *ExportConfig) merge(overlay *ExportConfig) {
	if overlay.Format != "" {
		e.Format = overlay.Format
	}
	if overlay.Output != "" {
		e.Output = overlay.Output
	}
	if overlay.Title != "" {
		e.Title = overlay.Title
	}
	if overlay.Version != "" {
		e.Version = overlay.Version
	}
	if overlay.Description != "" {
		e.Description = overlay.Description
	}
	if overlay.ServerURL != "" {
		e.ServerURL = overlay.ServerURL
	}
}

func (c *Config) loadDefaults() {
	if c.Framework == "" {
		c.Framework = string(analyzer.Express)
	}
	if c.Path == "" {
		c.Path = "."
	}
	if c.Concurrency == 0 {
		c.Concurrency = 8
	}
	if c.MemoSize == 0 {
		c.MemoSize = 4096
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":7420"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Export.Format == "" {
		c.Export.Format = "yaml"
	}
	if c.Export.Output == "" {
		c.Export.Output = "openapi.yaml"
	}
	if c.Export.Title == "" {
		c.Export.Title = "Extracted API"
	}
	if c.Export.Version == "" {
		c.Export.Version = "1.0.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvFramework); v != "" {
		c.Framework = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) validate() error {
	f, err := analyzer.ParseFramework(c.Framework)
	if err != nil {
		return err
	}
	c.Framework = string(f)

	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d (must be at least 1)", c.Concurrency)
	}
	if c.MemoSize < 1 {
		return fmt.Errorf("invalid memo_size: %d (must be at least 1)", c.MemoSize)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid server.shutdown_timeout: %w", err)
	}
	switch c.Export.Format {
	case "yaml", "yml", "json":
	default:
		return fmt.Errorf("invalid export.format: %s (must be yaml or json)", c.Export.Format)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvConfigEnv); env != "" {
		p := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
