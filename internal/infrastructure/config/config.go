package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   Server        `mapstructure:"server"`
	Logging  Logging       `mapstructure:"logging"`
	Accounts []SeedAccount `mapstructure:"accounts"`
}

// Server configuration
type Server struct {
	Port string `mapstructure:"port"`
}

// Logging configuration
type Logging struct {
	Level string `mapstructure:"level"`
}

// SeedAccount describes one account created at ledger initialization.
type SeedAccount struct {
	Number        string  `mapstructure:"number"`
	Holder        string  `mapstructure:"holder"`
	Balance       float64 `mapstructure:"balance"`
	MobileBalance float64 `mapstructure:"mobile_balance"`
}

// LoadConfig loads configuration from YAML file
// Uses CONFIG_ENV environment variable to determine which config file to load
func LoadConfig(configDir string) (*Config, error) {
	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := fmt.Sprintf("%s/app-config.yaml", configDir)
	baseConfigExists := false
	if _, err := os.Stat(baseConfigPath); err == nil {
		viper.SetConfigFile(baseConfigPath)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
		baseConfigExists = true
	}

	// Load environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := fmt.Sprintf("%s/%s.yaml", configDir, configEnv)
	if _, err := os.Stat(envConfigPath); err == nil {
		viper.SetConfigFile(envConfigPath)
		if baseConfigExists {
			// Merge environment config on top of base config
			if err := viper.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to merge env config file: %w", err)
			}
		} else {
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read env config file: %w", err)
			}
		}
	}
	// With neither file present the service still runs on defaults and
	// environment variables.

	// Also read from environment variables (with prefix)
	viper.SetEnvPrefix("MINIBANK")
	viper.AutomaticEnv()

	// Bind environment variables
	viper.BindEnv("server.port", "MINIBANK_SERVER_PORT", "PORT")
	viper.BindEnv("logging.level", "MINIBANK_LOGGING_LEVEL", "LOG_LEVEL")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults if not provided
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if len(cfg.Accounts) == 0 {
		cfg.Accounts = DefaultAccounts()
	}

	return &cfg, nil
}

// DefaultAccounts returns the built-in seed accounts used when the config
// carries none.
func DefaultAccounts() []SeedAccount {
	return []SeedAccount{
		{Number: "1001", Holder: "Alice Smith", Balance: 1000.00},
		{Number: "1002", Holder: "Bob Johnson", Balance: 1500.00},
		{Number: "1003", Holder: "Charlie Brown", Balance: 500.00},
	}
}
