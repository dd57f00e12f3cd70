// Package config loads prgraph configuration.
//
// Values are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. A config file: prgraph.yaml, prgraph.yml or prgraph.toml in the
//     working directory or the user config directory, or an explicit --config
//  3. PRGRAPH_* environment variables (PRGRAPH_CACHE_REDIS_URL -> cache.redis_url)
//  4. Command-line flags that were explicitly set
//
// The merged result is validated before use.
package config

import (
	"time"

	"github.com/matzehuels/prgraph/pkg/cache"
	"github.com/matzehuels/prgraph/pkg/dataset"
	"github.com/matzehuels/prgraph/pkg/pipeline"
	"github.com/matzehuels/prgraph/pkg/source"
)

// Config is the complete configuration.
type Config struct {
	Source  SourceConfig  `koanf:"source"`
	Columns ColumnsConfig `koanf:"columns"`
	Scope   string        `koanf:"scope" validate:"oneof=category all"`
	Cache   CacheConfig   `koanf:"cache"`
	Server  ServerConfig  `koanf:"server"`
	Verbose bool          `koanf:"verbose"`
}

// SourceConfig locates the dataset.
type SourceConfig struct {
	Path       string `koanf:"path" validate:"omitempty,max=4096"`
	Sheet      string `koanf:"sheet" validate:"omitempty,sheetname"`
	Comma      string `koanf:"comma" validate:"omitempty,len=1"`
	Query      string `koanf:"query"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

// ColumnsConfig names the category and identifier columns.
type ColumnsConfig struct {
	Category string `koanf:"category" validate:"column"`
	IDA      string `koanf:"id_a" validate:"column,nefield=IDB"`
	IDB      string `koanf:"id_b" validate:"column"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend  string        `koanf:"backend" validate:"oneof=file redis none"`
	Dir      string        `koanf:"dir"`
	RedisURL string        `koanf:"redis_url" validate:"required_if=Backend redis"`
	TTL      time.Duration `koanf:"ttl" validate:"gte=0"`
	Prefix   string        `koanf:"prefix"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `koanf:"addr" validate:"required"`
	DatasetTTL     time.Duration `koanf:"dataset_ttl" validate:"gt=0"`
	MaxUploadBytes int64         `koanf:"max_upload_bytes" validate:"gt=0"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	DatasetDir     string        `koanf:"dataset_dir"`
}

// Default values.
const (
	DefaultAddr           = ":8080"
	DefaultDatasetTTL     = 2 * time.Hour
	DefaultMaxUploadBytes = 32 << 20
)

// Defaults returns the built-in configuration as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"source.path":             "",
		"source.sheet":            source.DefaultSheet,
		"source.comma":            "",
		"source.query":            "",
		"source.database":         "",
		"source.collection":       "",
		"columns.category":        dataset.DefaultCategoryColumn,
		"columns.id_a":            dataset.DefaultIDAColumn,
		"columns.id_b":            dataset.DefaultIDBColumn,
		"scope":                   string(pipeline.DefaultScope),
		"cache.backend":           "file",
		"cache.dir":               "",
		"cache.redis_url":         "",
		"cache.ttl":               cache.DefaultTTL.String(),
		"cache.prefix":            "",
		"server.addr":             DefaultAddr,
		"server.dataset_ttl":      DefaultDatasetTTL.String(),
		"server.max_upload_bytes": DefaultMaxUploadBytes,
		"server.allowed_origins":  []string{},
		"server.dataset_dir":      "",
		"verbose":                 false,
	}
}

// Schema returns the configured column schema.
func (c *Config) Schema() dataset.Schema {
	return dataset.Schema{
		Category: c.Columns.Category,
		IDA:      c.Columns.IDA,
		IDB:      c.Columns.IDB,
	}
}

// SourceOptions converts the source section into gateway options.
func (c *Config) SourceOptions() source.Options {
	opts := source.Options{
		Schema:     c.Schema(),
		Sheet:      c.Source.Sheet,
		Query:      c.Source.Query,
		Database:   c.Source.Database,
		Collection: c.Source.Collection,
	}
	for _, r := range c.Source.Comma {
		opts.Comma = r
		break
	}
	return opts
}
