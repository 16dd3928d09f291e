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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	near "github.com/blinklabs-io/gonear"
	"github.com/blinklabs-io/gonear/internal/config"
	"github.com/blinklabs-io/gonear/internal/retry"
	"github.com/blinklabs-io/gonear/keystore"
	"github.com/blinklabs-io/gonear/oracle"
	"github.com/blinklabs-io/gonear/rpc"
)

// NewRetrier returns a retrier that only retries unreachable node errors
func NewRetrier(cfg *config.Config, logger *slog.Logger) *retry.Retrier {
	return retry.New(
		retry.WithMaxRetries(cfg.Retry.MaxRetries),
		retry.WithInitialInterval(cfg.Retry.InitialInterval),
		retry.WithMaxInterval(cfg.Retry.MaxInterval),
		retry.WithRetryIf(func(err error) bool {
			return errors.Is(err, near.ErrUnreachable)
		}),
		retry.WithOnRetry(func(attempt int, delay time.Duration, err error) {
			logger.Warn(
				"node unreachable, retrying",
				"component", "near-price",
				"attempt", attempt,
				"delay", delay,
				"error", err,
			)
		}),
	)
}

// CreateConnection establishes a connection to the node selected by the config. A failed
// connection is terminal, so each retry starts from a new one
func CreateConnection(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	httpClient *http.Client,
) (*near.Connection, error) {
	network := cfg.NetworkConfig()
	opts := []near.ConnectionOptionFunc{
		near.WithNetwork(network),
		near.WithLogger(logger),
		near.WithFinality(rpc.Finality(cfg.Finality)),
	}
	if httpClient != nil {
		opts = append(opts, near.WithHTTPClient(httpClient))
	}
	if cfg.ApiKey != "" {
		header := http.Header{}
		header.Set("X-Api-Key", cfg.ApiKey)
		opts = append(opts, near.WithHeader(header))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, near.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	if cfg.AccountId != "" {
		opts = append(opts, near.WithAccountId(cfg.AccountId))
	}
	if cfg.CredentialsDir != "" {
		opts = append(
			opts,
			near.WithKeyStore(keystore.NewFileSystemKeyStore(cfg.CredentialsDir)),
		)
	}
	return retry.DoWithData(
		NewRetrier(cfg, logger),
		ctx,
		func(ctx context.Context) (*near.Connection, error) {
			return near.Connect(ctx, opts...)
		},
	)
}

// CreateOracleClient binds the oracle contract selected by the config
func CreateOracleClient(
	conn *near.Connection,
	cfg *config.Config,
	logger *slog.Logger,
) (*oracle.Client, error) {
	method, encoding := cfg.IdentifierSettings()
	return oracle.Bind(
		conn,
		cfg.ContractId,
		oracle.WithIdentifierMethod(method),
		oracle.WithIdentifierEncoding(encoding),
		oracle.WithLogger(logger),
	)
}
