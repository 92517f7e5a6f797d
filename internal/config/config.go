package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/keep-network/keep-passkey/pkg/chain/eosio"
	"github.com/keep-network/keep-passkey/pkg/passkey"
)

// LogLevelEnvVariable overrides the log level from the config file.
const LogLevelEnvVariable = "LOG_LEVEL"

const defaultLogLevel = "keep*=info"

// Config is the top level config structure.
type Config struct {
	Chain   Chain
	Passkey passkey.Config
	Log     Log
}

// Chain stores the chain transactions are signed for.
type Chain struct {
	// Hex-encoded ID of the chain.
	ID string
}

// Log stores the logging configuration.
type Log struct {
	// Level is a go-log level expression, e.g. "keep*=debug".
	Level string
}

// ReadConfig reads in the configuration file in .toml format.
func ReadConfig(filePath string) (*Config, error) {
	config := &Config{}
	if _, err := toml.DecodeFile(filePath, config); err != nil {
		return nil, fmt.Errorf(
			"unable to decode .toml file [%s] error [%s]",
			filePath,
			err,
		)
	}

	if logLevel := os.Getenv(LogLevelEnvVariable); logLevel != "" {
		config.Log.Level = logLevel
	}

	return config, nil
}

// ChainID returns the parsed chain ID.
func (c *Config) ChainID() (eosio.ChainID, error) {
	if c.Chain.ID == "" {
		return eosio.ChainID{}, fmt.Errorf("chain ID is not configured")
	}

	return eosio.ParseChainID(c.Chain.ID)
}

// LogLevel returns the configured log level expression.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return defaultLogLevel
	}

	return c.Log.Level
}
