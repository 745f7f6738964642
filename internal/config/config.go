package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/awaismughal2020/prodex/internal/domain/search/weights"
)

// Config holds the prodex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Recommend RecommendConfig `yaml:"recommend"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// FieldConfig holds one searchable field's weight tuning.
type FieldConfig struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Prefix bool    `yaml:"prefix"`
	Typos  int     `yaml:"typos"` // 0, 1 or 2 character edits
}

// SearchConfig holds search tuning: field weights, typo thresholds, facets
// and pagination.
type SearchConfig struct {
	Fields          []FieldConfig `yaml:"fields"`
	MinLen1Typo     int           `yaml:"min_len_1typo"`
	MinLen2Typo     int           `yaml:"min_len_2typo"`
	Facets          []string      `yaml:"facets"`
	PriceBuckets    []float64     `yaml:"price_buckets"`
	DefaultPageSize int           `yaml:"default_page_size"`
	MaxPageSize     int           `yaml:"max_page_size"`
}

// RecommendConfig holds recommendation tuning.
type RecommendConfig struct {
	ContentWeight    float64 `yaml:"content_weight"`
	CategoryWeight   float64 `yaml:"category_weight"`
	PopularityWeight float64 `yaml:"popularity_weight"`
	TagSimilarity    float64 `yaml:"tag_similarity"`
	CategoryBonus    float64 `yaml:"category_bonus"`
	BrandBonus       float64 `yaml:"brand_bonus"`
	TimeoutMS        int     `yaml:"timeout_ms"`
	DefaultLimit     int     `yaml:"default_limit"`
	MaxLimit         int     `yaml:"max_limit"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	CacheSize int    `yaml:"cache_size"`
}

// CatalogConfig holds catalog settings.
type CatalogConfig struct {
	Seed bool `yaml:"seed"`
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Search.MinLen1Typo <= 0 {
		c.Search.MinLen1Typo = weights.DefaultMinLen1Typo
	}
	if c.Search.MinLen2Typo <= 0 {
		c.Search.MinLen2Typo = weights.DefaultMinLen2Typo
	}
	if len(c.Search.PriceBuckets) == 0 {
		c.Search.PriceBuckets = []float64{0, 50, 200, 1000}
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 10
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
	if c.Recommend.ContentWeight <= 0 {
		c.Recommend.ContentWeight = 0.5
	}
	if c.Recommend.CategoryWeight <= 0 {
		c.Recommend.CategoryWeight = 0.3
	}
	if c.Recommend.PopularityWeight <= 0 {
		c.Recommend.PopularityWeight = 0.2
	}
	if c.Recommend.TagSimilarity <= 0 {
		c.Recommend.TagSimilarity = 0.6
	}
	if c.Recommend.CategoryBonus <= 0 {
		c.Recommend.CategoryBonus = 0.3
	}
	if c.Recommend.BrandBonus <= 0 {
		c.Recommend.BrandBonus = 0.1
	}
	if c.Recommend.TimeoutMS <= 0 {
		c.Recommend.TimeoutMS = 2000
	}
	if c.Recommend.DefaultLimit <= 0 {
		c.Recommend.DefaultLimit = 5
	}
	if c.Recommend.MaxLimit <= 0 {
		c.Recommend.MaxLimit = 50
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "prodex:products:"
	}
	if c.Storage.CacheSize <= 0 {
		c.Storage.CacheSize = 1024
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	for i, f := range c.Search.Fields {
		if f.Name == "" {
			return fmt.Errorf("search.fields[%d].name is required", i)
		}
		if f.Weight <= 0 {
			return fmt.Errorf("search.fields.%s.weight must be positive, got %g", f.Name, f.Weight)
		}
		if f.Typos < 0 || f.Typos > 2 {
			return fmt.Errorf("search.fields.%s.typos must be 0, 1 or 2, got %d", f.Name, f.Typos)
		}
	}
	if c.Search.MinLen1Typo > c.Search.MinLen2Typo {
		return fmt.Errorf("search.min_len_1typo must not exceed min_len_2typo")
	}
	return nil
}

// WeightTable builds the search weight table from the configured fields, or
// the default table when none are configured.
func (c *Config) WeightTable() (weights.Table, error) {
	if len(c.Search.Fields) == 0 {
		return weights.Default(), nil
	}

	fields := make([]weights.Field, 0, len(c.Search.Fields))
	for _, fc := range c.Search.Fields {
		f, err := weights.NewField(fc.Name, fc.Weight, fc.Prefix, weights.TypoLevel(fc.Typos))
		if err != nil {
			return weights.Table{}, fmt.Errorf("search.fields.%s: %w", fc.Name, err)
		}
		fields = append(fields, f)
	}
	table, err := weights.NewTable(fields, c.Search.MinLen1Typo, c.Search.MinLen2Typo)
	if err != nil {
		return weights.Table{}, fmt.Errorf("search weight table: %w", err)
	}
	return table, nil
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
