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

package common

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/blinklabs-io/gonear/internal/config"
)

type GlobalFlags struct {
	Flagset            *flag.FlagSet
	ConfigFile         string
	EnvFiles           string
	Network            string
	NodeUrl            string
	ApiKey             string
	ContractId         string
	AccountId          string
	CredentialsDir     string
	IdentifierMethod   string
	IdentifierEncoding string
	Finality           string
	Output             string
	LogLevel           string
	Timeout            time.Duration
	MaxRetries         int
}

func NewGlobalFlags(name string) *GlobalFlags {
	f := &GlobalFlags{
		Flagset: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	f.Flagset.StringVar(
		&f.ConfigFile,
		"config",
		"",
		"path to YAML config file",
	)
	f.Flagset.StringVar(
		&f.EnvFiles,
		"env-file",
		"",
		"comma-separated list of .env files to load (defaults to .env)",
	)
	f.Flagset.StringVar(
		&f.Network,
		"network",
		"",
		"specifies network that the node is participating in (mainnet, testnet, localnet)",
	)
	f.Flagset.StringVar(
		&f.NodeUrl,
		"node-url",
		"",
		"JSON-RPC URL of the node. this overrides the node URL of the -network option",
	)
	f.Flagset.StringVar(&f.ApiKey, "api-key", "", "API key sent to the RPC provider")
	f.Flagset.StringVar(
		&f.ContractId,
		"contract",
		"",
		"account ID of the oracle contract (defaults to the Pyth contract of the network)",
	)
	f.Flagset.StringVar(&f.AccountId, "account", "", "account ID used for signed calls")
	f.Flagset.StringVar(
		&f.CredentialsDir,
		"credentials-dir",
		"",
		"directory holding <network>/<account>.json credential files",
	)
	f.Flagset.StringVar(
		&f.IdentifierMethod,
		"method",
		"",
		"identifier derivation method used by the oracle registry (digest, truncate-pad)",
	)
	f.Flagset.StringVar(
		&f.IdentifierEncoding,
		"encoding",
		"",
		"identifier encoding in view call arguments (hex, byte-array, base64)",
	)
	f.Flagset.StringVar(&f.Finality, "finality", "", "block finality for view calls (final, optimistic)")
	f.Flagset.StringVar(&f.Output, "output", "", "output format (text, json)")
	f.Flagset.StringVar(&f.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.Flagset.DurationVar(&f.Timeout, "timeout", 0, "timeout for the whole command")
	f.Flagset.IntVar(&f.MaxRetries, "max-retries", -1, "retries for unreachable nodes")
	return f
}

func (f *GlobalFlags) Parse(args []string) error {
	if err := f.Flagset.Parse(args); err != nil {
		return fmt.Errorf("failed to parse command args: %w", err)
	}
	return nil
}

// Config loads the env files and the config file, and applies the flags that were set on the
// command line on top
func (f *GlobalFlags) Config() (*config.Config, error) {
	var envFiles []string
	if f.EnvFiles != "" {
		envFiles = strings.Split(f.EnvFiles, ",")
	}
	if err := config.LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	f.Flagset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "network":
			cfg.Network = f.Network
		case "node-url":
			cfg.NodeUrl = f.NodeUrl
		case "api-key":
			cfg.ApiKey = f.ApiKey
		case "contract":
			cfg.ContractId = f.ContractId
		case "account":
			cfg.AccountId = f.AccountId
		case "credentials-dir":
			cfg.CredentialsDir = f.CredentialsDir
		case "method":
			cfg.IdentifierMethod = f.IdentifierMethod
		case "encoding":
			cfg.IdentifierEncoding = f.IdentifierEncoding
		case "finality":
			cfg.Finality = f.Finality
		case "output":
			cfg.Output = f.Output
		case "log-level":
			cfg.Logging.Level = f.LogLevel
		case "timeout":
			cfg.Timeout = f.Timeout
		case "max-retries":
			cfg.Retry.MaxRetries = f.MaxRetries
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
