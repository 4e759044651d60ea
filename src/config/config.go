package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golden-cross/src/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// envOverrides lists the settings that may be replaced from the environment
// (prefix GOLDEN_CROSS_). Empty values leave the YAML value in place.
type envOverrides struct {
	Host          string `envconfig:"HOST"`
	Port          int    `envconfig:"PORT"`
	LogLevel      string `envconfig:"LOG_LEVEL"`
	Provider      string `envconfig:"PROVIDER"`
	BaseURL       string `envconfig:"BASE_URL"`
	APIKey        string `envconfig:"API_KEY"`
	CSVDir        string `envconfig:"CSV_DIR"`
	CacheBackend  string `envconfig:"CACHE_BACKEND"`
	Proxy         string `envconfig:"PROXY"`
	DefaultTicker string `envconfig:"DEFAULT_TICKER"`
}

const envPrefix = "GOLDEN_CROSS"

// -----------------------------------------------------------------------------

// Default returns the configuration used when no file is given.
func Default() *models.MConfig {
	return &models.MConfig{
		Name:     "golden-cross",
		Host:     "127.0.0.1",
		Port:     8501,
		LogLevel: "INFO",
		Network: models.MNetworkConfig{
			RequestTimeout: 0,
		},
		DataSource: models.MDataSourceConfig{
			Provider:      "yahoo",
			DefaultTicker: "AAPL",
			DefaultYears:  3,
		},
		Cache: models.MCacheConfig{
			Backend:   "memory",
			SQLiteDSN: "file::memory:?cache=shared",
		},
		Analysis: models.MAnalysisConfig{
			TableRows:     5,
			RecentCrosses: 5,
		},
	}
}

// -----------------------------------------------------------------------------

// NewConfig creates a Config from a YAML file layered over Default, then
// applies .env and GOLDEN_CROSS_* environment overrides. An empty path skips
// the file.
func NewConfig(configPath string) (*Config, error) {
	modelConfig := Default()

	// 1. Read the YAML file content
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
		}

		// 2. Unmarshal data over the defaults
		if err := yaml.Unmarshal(data, modelConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	}

	config := &Config{MConfig: modelConfig}

	// 3. Environment overrides
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}

	if env.Host != "" {
		c.Host = env.Host
	}
	if env.Port != 0 {
		c.Port = env.Port
	}
	if env.LogLevel != "" {
		c.LogLevel = strings.ToUpper(env.LogLevel)
	}
	if env.Provider != "" {
		c.DataSource.Provider = env.Provider
	}
	if env.BaseURL != "" {
		c.DataSource.BaseURL = env.BaseURL
	}
	if env.APIKey != "" {
		c.DataSource.APIKey = env.APIKey
	}
	if env.CSVDir != "" {
		c.DataSource.CSVDir = env.CSVDir
	}
	if env.CacheBackend != "" {
		c.Cache.Backend = env.CacheBackend
	}
	if env.Proxy != "" {
		c.Network.Enabled = true
		c.Network.Proxies = []string{env.Proxy}
	}
	if env.DefaultTicker != "" {
		c.DataSource.DefaultTicker = strings.ToUpper(env.DefaultTicker)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Validate performs struct-tag validation plus the cross-field rules
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c.MConfig); err != nil {
		return err
	}

	// Provider specific settings
	switch c.DataSource.Provider {
	case "polygon":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for the polygon provider")
		}
	case "csv":
		if c.DataSource.CSVDir == "" {
			return fmt.Errorf("data_source.csv_dir is required for the csv provider")
		}
	}

	if c.Cache.Backend == "sqlite" && c.Cache.SQLiteDSN == "" {
		return fmt.Errorf("cache.sqlite_dsn cannot be empty for the sqlite backend")
	}

	if c.Network.Enabled && len(c.Network.Proxies) == 0 {
		return fmt.Errorf("network.proxies must list at least one proxy when network is enabled")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
