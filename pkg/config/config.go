package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Download DownloadConfig `yaml:"download" json:"download" jsonschema:"description=Feed, image and media download configuration"`
}

// ServerConfig holds http server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for generated RSS and OPML links"`
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:podcache.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// DownloadConfig holds download worker settings
type DownloadConfig struct {
	Workers     int           `yaml:"workers" json:"workers" jsonschema:"default=4,minimum=1,description=Maximum concurrent downloads"`
	QueueSize   int           `yaml:"queue_size" json:"queue_size" jsonschema:"default=100,minimum=1,description=Pending download requests kept before dropping new ones"`
	PerHost     int           `yaml:"per_host" json:"per_host" jsonschema:"default=2,minimum=1,description=Maximum concurrent downloads from one host"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5m,description=Time limit for one download job"`
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout" jsonschema:"default=30s,description=HTTP client timeout for feed requests"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Podcache/1.0,description=User agent for HTTP requests"`
	DataDir     string        `yaml:"data_dir" json:"data_dir" jsonschema:"default=data,description=Directory for downloaded images and media"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary, don't fail on it
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults set, used when no config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	// set defaults for server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// set defaults for database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:podcache.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// set defaults for downloads
	if c.Download.Workers == 0 {
		c.Download.Workers = 4
	}
	if c.Download.QueueSize == 0 {
		c.Download.QueueSize = 100
	}
	if c.Download.PerHost == 0 {
		c.Download.PerHost = 2
	}
	if c.Download.Timeout == 0 {
		c.Download.Timeout = 5 * time.Minute
	}
	if c.Download.HTTPTimeout == 0 {
		c.Download.HTTPTimeout = 30 * time.Second
	}
	if c.Download.UserAgent == "" {
		c.Download.UserAgent = "Podcache/1.0"
	}
	if c.Download.DataDir == "" {
		c.Download.DataDir = "data"
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Database.MaxOpenConns < 0 || cfg.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must be non-negative")
	}
	if cfg.Download.Workers < 1 {
		return fmt.Errorf("download.workers must be at least 1")
	}
	if cfg.Download.QueueSize < 1 {
		return fmt.Errorf("download.queue_size must be at least 1")
	}
	if cfg.Download.PerHost < 1 {
		return fmt.Errorf("download.per_host must be at least 1")
	}
	if cfg.Download.Timeout < time.Second {
		return fmt.Errorf("download timeout must be at least 1 second")
	}
	return nil
}
