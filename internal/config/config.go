// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the settings of the near-price command from defaults, an optional YAML
// file, and NEAR_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	near "github.com/blinklabs-io/gonear"
	"github.com/blinklabs-io/gonear/identifier"
	"github.com/blinklabs-io/gonear/internal/logging"
	"github.com/blinklabs-io/gonear/oracle"
	"github.com/blinklabs-io/gonear/rpc"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	OutputText = "text"
	OutputJSON = "json"
)

type Config struct {
	Network            string         `yaml:"network"`
	NodeUrl            string         `yaml:"nodeUrl"`
	ApiKey             string         `yaml:"apiKey"`
	ContractId         string         `yaml:"contractId"`
	AccountId          string         `yaml:"accountId"`
	CredentialsDir     string         `yaml:"credentialsDir"`
	IdentifierMethod   string         `yaml:"identifierMethod"`
	IdentifierEncoding string         `yaml:"identifierEncoding"`
	Finality           string         `yaml:"finality"`
	Timeout            time.Duration  `yaml:"timeout"`
	RateLimit          float64        `yaml:"rateLimit"`
	RateBurst          int            `yaml:"rateBurst"`
	Output             string         `yaml:"output"`
	Retry              RetryConfig    `yaml:"retry"`
	Logging            logging.Config `yaml:"logging"`
}

type RetryConfig struct {
	MaxRetries      int           `yaml:"maxRetries"`
	InitialInterval time.Duration `yaml:"initialInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Network:            near.NetworkMainnet.Name,
		IdentifierMethod:   identifier.MethodDigest.String(),
		IdentifierEncoding: oracle.EncodingHex.String(),
		Finality:           string(rpc.FinalityFinal),
		Timeout:            30 * time.Second,
		RateBurst:          1,
		Output:             OutputText,
		Retry: RetryConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// LoadEnvFiles loads variables from the given .env files, or from .env in the working directory
// if none are given. Missing files are ignored and variables already set are never overwritten
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// Load returns the configuration built from defaults, the YAML file at path (if not empty), and the
// environment
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strVars := map[string]*string{
		"NEAR_NETWORK":             &c.Network,
		"NEAR_NODE_URL":            &c.NodeUrl,
		"NEAR_API_KEY":             &c.ApiKey,
		"NEAR_CONTRACT_ID":         &c.ContractId,
		"NEAR_ACCOUNT_ID":          &c.AccountId,
		"NEAR_CREDENTIALS_DIR":     &c.CredentialsDir,
		"NEAR_IDENTIFIER_METHOD":   &c.IdentifierMethod,
		"NEAR_IDENTIFIER_ENCODING": &c.IdentifierEncoding,
		"NEAR_FINALITY":            &c.Finality,
		"NEAR_OUTPUT":              &c.Output,
		"NEAR_LOG_LEVEL":           &c.Logging.Level,
		"NEAR_LOG_FORMAT":          &c.Logging.Format,
		"NEAR_LOG_FILE":            &c.Logging.File,
	}
	for name, dest := range strVars {
		if val, ok := lookup(name); ok {
			*dest = val
		}
	}
	if val, ok := lookup("NEAR_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("%w: NEAR_TIMEOUT: %w", ErrInvalidConfig, err)
		}
		c.Timeout = timeout
	}
	if val, ok := lookup("NEAR_RATE_LIMIT"); ok {
		rateLimit, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%w: NEAR_RATE_LIMIT: %w", ErrInvalidConfig, err)
		}
		c.RateLimit = rateLimit
	}
	if val, ok := lookup("NEAR_MAX_RETRIES"); ok {
		maxRetries, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: NEAR_MAX_RETRIES: %w", ErrInvalidConfig, err)
		}
		c.Retry.MaxRetries = maxRetries
	}
	return nil
}

// Validate checks that all values are usable
func (c *Config) Validate() error {
	if c.NodeUrl == "" && c.Network != "" {
		if near.NetworkByName(c.Network) == near.NetworkInvalid {
			return fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, c.Network)
		}
	}
	if c.Network == "" && c.NodeUrl == "" {
		return fmt.Errorf("%w: a network or node URL is required", ErrInvalidConfig)
	}
	method, err := identifier.ParseMethod(c.IdentifierMethod)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	// Symbols are derived with the registry method, and published identifiers have no derivation
	if method == identifier.MethodPublished {
		return fmt.Errorf(
			"%w: identifier method must be %s or %s, got %s",
			ErrInvalidConfig,
			identifier.MethodDigest,
			identifier.MethodTruncatePad,
			method,
		)
	}
	if _, err := oracle.ParseEncoding(c.IdentifierEncoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch rpc.Finality(c.Finality) {
	case rpc.FinalityFinal, rpc.FinalityOptimistic:
	default:
		return fmt.Errorf("%w: unknown finality %q", ErrInvalidConfig, c.Finality)
	}
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidConfig)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// NetworkConfig returns the network selected by the config. A custom node URL without a known
// network yields a network with only the node URL set
func (c *Config) NetworkConfig() near.Network {
	network := near.NetworkByName(c.Network)
	if network == near.NetworkInvalid {
		network = near.Network{Name: c.Network}
	}
	if c.NodeUrl != "" {
		network.NodeUrl = c.NodeUrl
	}
	return network
}

// IdentifierSettings returns the parsed identifier method and encoding. Only valid after Validate
func (c *Config) IdentifierSettings() (identifier.Method, oracle.Encoding) {
	method, _ := identifier.ParseMethod(c.IdentifierMethod)
	encoding, _ := oracle.ParseEncoding(c.IdentifierEncoding)
	return method, encoding
}
