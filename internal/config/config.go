// Package config provides Viper-based hierarchical configuration: defaults,
// an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// BANKEXPORT_LOG_LEVEL overrides log.level.
const EnvPrefix = "BANKEXPORT"

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Rules struct {
		Backend      string `mapstructure:"backend" yaml:"backend"`
		File         string `mapstructure:"file" yaml:"file"`
		DefaultUser  string `mapstructure:"default_user" yaml:"default_user"`
		SeedDefaults bool   `mapstructure:"seed_defaults" yaml:"seed_defaults"`
	} `mapstructure:"rules" yaml:"rules"`

	Database struct {
		DSN        string `mapstructure:"dsn" yaml:"-"`
		LogQueries bool   `mapstructure:"log_queries" yaml:"log_queries"`
	} `mapstructure:"database" yaml:"database"`

	Export struct {
		RequireIBAN     bool   `mapstructure:"require_iban" yaml:"require_iban"`
		PlaceholderIBAN string `mapstructure:"placeholder_iban" yaml:"placeholder_iban"`
		OwnerName       string `mapstructure:"owner_name" yaml:"owner_name"`
		Bank            string `mapstructure:"bank" yaml:"bank"`
	} `mapstructure:"export" yaml:"export"`

	Server struct {
		Address        string   `mapstructure:"address" yaml:"address"`
		AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
		RequestTimeout int      `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds"`
	} `mapstructure:"server" yaml:"server"`

	Extraction struct {
		PDFToTextPath  string `mapstructure:"pdftotext_path" yaml:"pdftotext_path"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"extraction" yaml:"extraction"`
}

// Rule store backends.
const (
	BackendMemory = "memory"
	BackendYAML   = "yaml"
	BackendSQL    = "sql"
)

// InitializeConfig loads configuration from the standard locations.
func InitializeConfig() (*Config, error) {
	return load("")
}

// InitializeConfigFromFile loads configuration from an explicit file. An
// empty path behaves like InitializeConfig.
func InitializeConfigFromFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bank-export")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.bank-export")
		v.AddConfigPath(".bank-export")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The database URL follows the common unprefixed convention.
	if err := v.BindEnv("database.dsn", EnvPrefix+"_DATABASE_DSN", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("rules.backend", BackendYAML)
	v.SetDefault("rules.file", "rules.yaml")
	v.SetDefault("rules.default_user", "local")
	v.SetDefault("rules.seed_defaults", true)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.log_queries", false)

	v.SetDefault("export.require_iban", false)
	v.SetDefault("export.placeholder_iban", "NL00XXXX0000000000")
	v.SetDefault("export.owner_name", "Bedrijf")
	v.SetDefault("export.bank", "Bank")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout_seconds", 30)

	v.SetDefault("extraction.pdftotext_path", "pdftotext")
	v.SetDefault("extraction.timeout_seconds", 60)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Rules.Backend {
	case BackendMemory:
	case BackendYAML:
		if config.Rules.File == "" {
			return fmt.Errorf("rules.file is required for the yaml rule store")
		}
	case BackendSQL:
		if config.Database.DSN == "" {
			return fmt.Errorf("DATABASE_URL required when rules.backend is 'sql'")
		}
	default:
		return fmt.Errorf("invalid rules backend: %s (must be 'memory', 'yaml' or 'sql')", config.Rules.Backend)
	}

	if config.Export.PlaceholderIBAN == "" {
		return fmt.Errorf("export.placeholder_iban must not be empty")
	}

	if config.Server.RequestTimeout < 1 || config.Server.RequestTimeout > 600 {
		return fmt.Errorf("server.request_timeout_seconds must be between 1 and 600, got: %d", config.Server.RequestTimeout)
	}

	if config.Extraction.TimeoutSeconds < 1 {
		return fmt.Errorf("extraction.timeout_seconds must be positive, got: %d", config.Extraction.TimeoutSeconds)
	}

	return nil
}
