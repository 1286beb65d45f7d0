package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	HTTPPort int    `mapstructure:"http_port"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	LogSQL   bool   `mapstructure:"log_sql"`
}

// EngineConfig tunes the statistical behavior of the learning engine.
type EngineConfig struct {
	HistoryCap          int     `mapstructure:"history_cap"`
	ProfileWindowDays   int     `mapstructure:"profile_window_days"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MinDataPoints       int     `mapstructure:"min_data_points"`
	MaxRecommendations  int     `mapstructure:"max_recommendations"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)

	// Database defaults; the memory driver needs no connection settings.
	viper.SetDefault("database.driver", "memory")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "learnpulse")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.log_sql", false)

	// Engine defaults
	viper.SetDefault("engine.history_cap", 1000)
	viper.SetDefault("engine.profile_window_days", 30)
	viper.SetDefault("engine.confidence_threshold", 0.7)
	viper.SetDefault("engine.min_data_points", 10)
	viper.SetDefault("engine.max_recommendations", 3)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

// DatabaseDriver reports the configured storage backend.
func (c *Config) DatabaseDriver() string {
	driver := strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if driver == "" {
		return "memory"
	}
	return driver
}

// DatabaseURL returns the connection string for the configured driver. For
// sqlite3 the database name is treated as a file path.
func (c *Config) DatabaseURL() string {
	if c.DatabaseDriver() == "sqlite3" {
		name := strings.TrimSpace(c.Database.Name)
		if name == "" {
			name = "learnpulse.db"
		}
		if strings.HasPrefix(name, "file:") {
			return name
		}
		return "file:" + name + "?cache=shared"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
