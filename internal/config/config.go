package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the prodex API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Data    DataConfig    `yaml:"data"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings for admin endpoints.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SourceShape selects the normalization path for one source file. Decided once
// per source, never re-sniffed per row.
type SourceShape string

const (
	// ShapeLicense is the name/license_number/type column layout.
	ShapeLicense SourceShape = "license"
	// ShapeDirectory is the full_name/license_type/status column layout.
	ShapeDirectory SourceShape = "directory"
)

// SourceConfig describes one CSV source file.
type SourceConfig struct {
	Name         string      `yaml:"name"`
	Path         string      `yaml:"path"` // relative to data.dir
	Shape        SourceShape `yaml:"shape"`
	IDPrefix     string      `yaml:"id_prefix"`
	DefaultState string      `yaml:"default_state"`
	// Enrich marks sources whose records participate in the enrichment merge.
	Enrich bool `yaml:"enrich"`
}

// DataConfig holds dataset locations and the ordered source list.
//
// Source order is a correctness invariant: slug collision disambiguation is
// first-come, so repeated loads from identical inputs produce identical slugs
// only if sources are always processed in this order.
type DataConfig struct {
	Dir        string         `yaml:"dir"`
	Snapshot   string         `yaml:"snapshot"`   // optional prebuilt index, relative to dir
	Enrichment string         `yaml:"enrichment"` // optional enrichment lookup, relative to dir
	Sources    []SourceConfig `yaml:"sources"`
}

// SearchConfig holds pagination bounds.
type SearchConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 50
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 200
	}
	for i := range c.Data.Sources {
		if c.Data.Sources[i].Shape == "" {
			c.Data.Sources[i].Shape = ShapeLicense
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	seen := make(map[string]struct{}, len(c.Data.Sources))
	for i, src := range c.Data.Sources {
		if src.Path == "" {
			return fmt.Errorf("data.sources[%d].path is required", i)
		}
		if src.IDPrefix == "" {
			return fmt.Errorf("data.sources[%d].id_prefix is required", i)
		}
		if src.Shape != ShapeLicense && src.Shape != ShapeDirectory {
			return fmt.Errorf(
				"data.sources[%d].shape must be %q or %q, got %q",
				i, ShapeLicense, ShapeDirectory, src.Shape,
			)
		}
		if _, dup := seen[src.Name]; src.Name != "" && dup {
			return fmt.Errorf("data.sources[%d].name %q is duplicated", i, src.Name)
		}
		seen[src.Name] = struct{}{}
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf(
			"search.default_page_size %d exceeds max_page_size %d",
			c.Search.DefaultPageSize, c.Search.MaxPageSize,
		)
	}
	return nil
}

// SnapshotPath returns the absolute snapshot location, or "" if not configured.
func (c *Config) SnapshotPath() string {
	if c.Data.Snapshot == "" {
		return ""
	}
	return filepath.Join(c.Data.Dir, c.Data.Snapshot)
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
