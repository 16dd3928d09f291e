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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/blinklabs-io/gonear/cmd/common"
	"github.com/blinklabs-io/gonear/internal/config"
	"github.com/blinklabs-io/gonear/internal/logging"
	"github.com/blinklabs-io/gonear/oracle"
)

const usage = "you must specify a subcommand (price, price-id, exists, ema, price-data, identifier, show-snapshot)"

type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	stdout     io.Writer
	httpClient *http.Client
	now        func() time.Time
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, nil); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, httpClient *http.Client) error {
	f := common.NewGlobalFlags("near-price")
	if err := f.Parse(args); err != nil {
		return err
	}
	if f.Flagset.NArg() == 0 {
		return errors.New(usage)
	}
	cfg, err := f.Config()
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	a := &app{
		cfg:        cfg,
		logger:     logger,
		stdout:     stdout,
		httpClient: httpClient,
		now:        time.Now,
	}
	subArgs := f.Flagset.Args()[1:]
	switch f.Flagset.Arg(0) {
	case "price":
		return a.price(ctx, subArgs)
	case "ema":
		return a.ema(ctx, subArgs)
	case "price-id":
		return a.priceId(ctx, subArgs)
	case "exists":
		return a.exists(ctx, subArgs)
	case "price-data":
		return a.priceData(ctx, subArgs)
	case "identifier":
		return a.identifier(subArgs)
	case "show-snapshot":
		return a.showSnapshot(subArgs)
	default:
		return fmt.Errorf("unknown subcommand: %s", f.Flagset.Arg(0))
	}
}

func (a *app) oracleClient(ctx context.Context) (*oracle.Client, error) {
	conn, err := common.CreateConnection(ctx, a.cfg, a.logger, a.httpClient)
	if err != nil {
		return nil, err
	}
	return common.CreateOracleClient(conn, a.cfg, a.logger)
}
