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
	"flag"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blinklabs-io/gonear/cmd/common"
	"github.com/blinklabs-io/gonear/identifier"
	"github.com/blinklabs-io/gonear/internal/retry"
	"github.com/blinklabs-io/gonear/oracle"
	"github.com/blinklabs-io/gonear/snapshot"
)

type priceFlags struct {
	flagset  *flag.FlagSet
	ema      bool
	unsafe   bool
	maxAge   time.Duration
	snapshot string
}

func newPriceFlags(name string, withEma bool) *priceFlags {
	f := &priceFlags{
		flagset: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	if withEma {
		f.flagset.BoolVar(&f.ema, "ema", false, "query the exponential moving average price")
	}
	f.flagset.BoolVar(&f.unsafe, "unsafe", false, "skip the staleness check of the contract")
	f.flagset.DurationVar(
		&f.maxAge,
		"max-age",
		0,
		"only accept prices published within this duration (whole seconds)",
	)
	f.flagset.StringVar(&f.snapshot, "snapshot", "", "write the fetched quotes to this snapshot file")
	return f
}

// fetch picks the oracle method matching the flags
func (f *priceFlags) fetch(ctx context.Context, client *oracle.Client, id []byte) (*oracle.Price, error) {
	switch {
	case f.maxAge > 0 && f.ema:
		return client.GetEmaPriceNoOlderThan(ctx, id, f.maxAge)
	case f.maxAge > 0:
		return client.GetPriceNoOlderThan(ctx, id, f.maxAge)
	case f.unsafe && f.ema:
		return client.GetEmaPriceUnsafe(ctx, id)
	case f.unsafe:
		return client.GetPriceUnsafe(ctx, id)
	case f.ema:
		return client.GetEmaPrice(ctx, id)
	default:
		return client.GetPrice(ctx, id)
	}
}

type quoteTarget struct {
	symbol string
	id     identifier.Identifier
}

func (a *app) price(ctx context.Context, args []string) error {
	f := newPriceFlags("price", false)
	return a.runPriceQuery(ctx, f, args, a.symbolTarget)
}

func (a *app) ema(ctx context.Context, args []string) error {
	f := newPriceFlags("ema", false)
	f.ema = true
	return a.runPriceQuery(ctx, f, args, a.symbolTarget)
}

func (a *app) priceId(ctx context.Context, args []string) error {
	f := newPriceFlags("price-id", true)
	return a.runPriceQuery(ctx, f, args, func(arg string) (quoteTarget, error) {
		id, err := identifier.FromHex(arg)
		if err != nil {
			return quoteTarget{}, err
		}
		return quoteTarget{id: id}, nil
	})
}

func (a *app) symbolTarget(symbol string) (quoteTarget, error) {
	method, _ := a.cfg.IdentifierSettings()
	if method != identifier.MethodDigest && method != identifier.MethodTruncatePad {
		return quoteTarget{}, fmt.Errorf("cannot derive identifiers with method %s", method)
	}
	return quoteTarget{
		symbol: symbol,
		id:     identifier.Derive(symbol, method),
	}, nil
}

// runPriceQuery looks up all targets concurrently through one bound contract. Any failure fails
// the whole command
func (a *app) runPriceQuery(
	ctx context.Context,
	f *priceFlags,
	args []string,
	resolve func(string) (quoteTarget, error),
) error {
	if err := f.flagset.Parse(args); err != nil {
		return fmt.Errorf("failed to parse subcommand args: %w", err)
	}
	if f.flagset.NArg() == 0 {
		return errors.New("you must specify at least one price feed")
	}
	targets := make([]quoteTarget, 0, f.flagset.NArg())
	for _, arg := range f.flagset.Args() {
		target, err := resolve(arg)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		targets = append(targets, target)
	}
	client, err := a.oracleClient(ctx)
	if err != nil {
		return err
	}
	retrier := common.NewRetrier(a.cfg, a.logger)
	quotes := make([]snapshot.Quote, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			price, err := retry.DoWithData(
				retrier,
				gctx,
				func(ctx context.Context) (*oracle.Price, error) {
					return f.fetch(ctx, client, target.id.Bytes())
				},
			)
			if err != nil {
				return fmt.Errorf("%s: %w", quoteLabel(target.symbol, target.id), err)
			}
			quotes[i] = snapshot.Quote{
				Symbol:     target.symbol,
				Identifier: target.id,
				Price:      *price,
				// Snapshots keep whole seconds only
				FetchedAt: a.now().UTC().Truncate(time.Second),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if f.snapshot != "" {
		if err := snapshot.WriteFile(f.snapshot, quotes); err != nil {
			return err
		}
		a.logger.Debug(
			"wrote snapshot",
			"component", "near-price",
			"path", f.snapshot,
			"quotes", len(quotes),
		)
	}
	return a.printQuotes(quotes)
}

func (a *app) exists(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("you must specify at least one symbol")
	}
	client, err := a.oracleClient(ctx)
	if err != nil {
		return err
	}
	retrier := common.NewRetrier(a.cfg, a.logger)
	results := make([]feedExistence, 0, len(args))
	for _, symbol := range args {
		target, err := a.symbolTarget(symbol)
		if err != nil {
			return fmt.Errorf("%s: %w", symbol, err)
		}
		exists, err := retry.DoWithData(
			retrier,
			ctx,
			func(ctx context.Context) (bool, error) {
				return client.PriceFeedExists(ctx, target.id.Bytes())
			},
		)
		if err != nil {
			return fmt.Errorf("%s: %w", symbol, err)
		}
		results = append(results, feedExistence{
			Symbol:     symbol,
			Identifier: target.id.String(),
			Exists:     exists,
		})
	}
	return a.printExistence(results)
}

func (a *app) priceData(ctx context.Context, args []string) error {
	client, err := a.oracleClient(ctx)
	if err != nil {
		return err
	}
	data, err := retry.DoWithData(
		common.NewRetrier(a.cfg, a.logger),
		ctx,
		func(ctx context.Context) (*oracle.PriceData, error) {
			return client.GetPriceData(ctx, args)
		},
	)
	if err != nil {
		return err
	}
	return a.printPriceData(data)
}
