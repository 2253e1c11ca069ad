package config

import (
	"fmt"
	"os"
	"math"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	DBPath        string  `mapstructure:"db_path"`
	MinScore      float64 `mapstructure:"min_score"`
	MaxDistanceKm float64 `mapstructure:"max_distance_km"`
	Workers       int     `mapstructure:"workers"`
	LogJSON       bool    `mapstructure:"log_json"`
	LogDebug      bool    `mapstructure:"log_debug"`
	ServerAddr    string  `mapstructure:"server_addr"`
}

// ValidKeys lists the keys that can be changed with Set
var ValidKeys = []string{"db_path", "min_score", "max_distance_km", "workers", "log_json", "log_debug", "server_addr"}

var AppConfig *Config

var configDir string

// Initialize loads or creates the configuration file in ~/.rigmatch
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".rigmatch"))
}

// InitializeAt loads or creates config.yaml inside dir
func InitializeAt(dir string) error {
	configFile := filepath.Join(dir, "config.yaml")

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("db_path", filepath.Join(dir, "rigmatch.db"))
	viper.SetDefault("min_score", 0.6)
	viper.SetDefault("max_distance_km", 50.0)
	viper.SetDefault("workers", 4)
	viper.SetDefault("log_json", false)
	viper.SetDefault("log_debug", false)
	viper.SetDefault("server_addr", ":8080")

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configDir = dir
	AppConfig = cfg
	return nil
}

// Validate rejects thresholds the matcher cannot work with
func (c *Config) Validate() error {
	if !(c.MinScore >= 0 && c.MinScore <= 1) {
		return fmt.Errorf("min_score must be between 0 and 1, got %v", c.MinScore)
	}
	if math.IsNaN(c.MaxDistanceKm) || math.IsInf(c.MaxDistanceKm, 0) {
		return fmt.Errorf("max_distance_km must be a finite number, got %v", c.MaxDistanceKm)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# rigmatch configuration
# Leave db_path unset to keep the database next to this file
# db_path: /var/lib/rigmatch/rigmatch.db

# Ranking thresholds
min_score: 0.6
# Jobs further than this many km are dropped from rankings; 0 disables the cutoff
max_distance_km: 50

# Concurrent scorers per ranking
workers: 4

log_json: false
log_debug: false

server_addr: ":8080"
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// IsValidKey reports whether key can be changed with Set
func IsValidKey(key string) bool {
	for _, k := range ValidKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Set updates a configuration value. The value is converted to the key's type and the
// resulting configuration validated before anything is written.
func Set(key, value string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("invalid key %q, must be one of: %v", key, ValidKeys)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	typed, err := applyValue(cfg, key, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	viper.Set(key, typed)
	return viper.WriteConfig()
}

// applyValue parses value for key and stores it in cfg
func applyValue(cfg *Config, key, value string) (any, error) {
	switch key {
	case "min_score", "max_distance_km":
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, err
		}
		if key == "min_score" {
			cfg.MinScore = f
		} else {
			cfg.MaxDistanceKm = f
		}
		return f, nil
	case "workers":
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, err
		}
		cfg.Workers = n
		return n, nil
	case "log_json", "log_debug":
		b, err := cast.ToBoolE(value)
		if err != nil {
			return nil, err
		}
		if key == "log_json" {
			cfg.LogJSON = b
		} else {
			cfg.LogDebug = b
		}
		return b, nil
	case "db_path":
		cfg.DBPath = value
	case "server_addr":
		cfg.ServerAddr = value
	}
	return value, nil
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configDir != "" {
		return filepath.Join(configDir, "config.yaml")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".rigmatch", "config.yaml")
}
