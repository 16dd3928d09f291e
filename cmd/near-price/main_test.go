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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	near "github.com/blinklabs-io/gonear"
	"github.com/blinklabs-io/gonear/identifier"
	"github.com/blinklabs-io/gonear/internal/config"
	"github.com/blinklabs-io/gonear/internal/test/rpcmock"
	"github.com/blinklabs-io/gonear/oracle"
)

const btcUsdLine = "BTC/USD: 64700.231 ± 31.267 @ 2023-11-14T22:13:20Z"

var (
	btcUsdRecord = rpcmock.PriceRecord{
		Price:       "6470023100000",
		Conf:        "3126700000",
		Expo:        -8,
		PublishTime: 1700000000,
	}
	ethUsdRecord = rpcmock.PriceRecord{
		Price:       "201512000000",
		Conf:        "98000000",
		Expo:        -8,
		PublishTime: 1700000001,
	}
)

func newTestNode(t *testing.T) *rpcmock.Node {
	t.Helper()
	records := map[string]rpcmock.PriceRecord{
		identifier.Digest("BTC/USD").String(): btcUsdRecord,
		identifier.Digest("ETH/USD").String(): ethUsdRecord,
	}
	node := rpcmock.NewNode(rpcmock.WithChainId("testnet"))
	for _, method := range []string{
		oracle.MethodGetPrice,
		oracle.MethodGetPriceUnsafe,
		oracle.MethodGetEmaPrice,
	} {
		node.RegisterView("pyth.testnet", method, rpcmock.PriceFeeds(records))
	}
	node.RegisterView("pyth.testnet", oracle.MethodPriceFeedExists, rpcmock.PriceFeedExists(records))
	t.Cleanup(node.Close)
	return node
}

func runCommand(t *testing.T, node *rpcmock.Node, args ...string) (string, error) {
	t.Helper()
	return runCommandWithClient(t, node, nil, args...)
}

func runCommandWithClient(
	t *testing.T,
	node *rpcmock.Node,
	httpClient *http.Client,
	args ...string,
) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	fullArgs := []string{"-log-level", "error"}
	if node != nil {
		fullArgs = append(fullArgs, "-network", "testnet", "-node-url", node.Url())
	}
	fullArgs = append(fullArgs, args...)
	err := run(context.Background(), fullArgs, &stdout, httpClient)
	return stdout.String(), err
}

func TestNoSubcommand(t *testing.T) {
	_, err := runCommand(t, nil)
	assert.ErrorContains(t, err, "you must specify a subcommand")
}

func TestUnknownSubcommand(t *testing.T) {
	_, err := runCommand(t, nil, "chain-sync")
	assert.ErrorContains(t, err, "unknown subcommand: chain-sync")
}

func TestIdentifier(t *testing.T) {
	defer goleak.VerifyNone(t)
	out, err := runCommand(t, nil, "identifier", "BTC/USD")
	require.NoError(t, err)
	assert.Equal(
		t,
		"BTC/USD:\n"+
			"  digest: 7b4c9651c426361ed0e6bd9a9b3e70d71ec9507686a12b899c50c1faba8db94d\n"+
			"  truncate-pad: 4254432f555344"+strings.Repeat("00", 25)+"\n",
		out,
	)
}

func TestIdentifierJSON(t *testing.T) {
	out, err := runCommand(t, nil, "-output", "json", "identifier", "BTC/USD", "")
	require.NoError(t, err)
	var ids []identifierOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	require.Len(t, ids, 2)
	assert.Equal(t, identifier.Digest("").String(), ids[1].Digest)
	assert.Equal(t, strings.Repeat("00", 32), ids[1].TruncatePad)
}

func TestPrice(t *testing.T) {
	node := newTestNode(t)
	out, err := runCommand(t, node, "price", "BTC/USD", "ETH/USD")
	require.NoError(t, err)
	assert.Equal(
		t,
		btcUsdLine+"\nETH/USD: 2015.12 ± 0.98 @ 2023-11-14T22:13:21Z\n",
		out,
	)
	assert.Equal(t, 2, node.RequestCount("query"))
}

func TestPriceJSON(t *testing.T) {
	node := newTestNode(t)
	out, err := runCommand(t, node, "-output", "json", "price", "-unsafe", "BTC/USD")
	require.NoError(t, err)
	var quotes []quoteOutput
	require.NoError(t, json.Unmarshal([]byte(out), &quotes))
	require.Len(t, quotes, 1)
	assert.Equal(t, "BTC/USD", quotes[0].Symbol)
	assert.Equal(t, identifier.Digest("BTC/USD").String(), quotes[0].Identifier)
	assert.Equal(t, "digest", quotes[0].Method)
	assert.Equal(t, "64700.231", quotes[0].Price)
	assert.Equal(t, "31.267", quotes[0].Conf)
	assert.Equal(t, int32(-8), quotes[0].Expo)
	assert.Zero(t, quotes[0].FetchedAt.Nanosecond())
}

func TestPublishedMethodRejected(t *testing.T) {
	node := newTestNode(t)
	t.Setenv("NEAR_IDENTIFIER_METHOD", "published")
	for _, subcommand := range []string{"price", "exists", "ema"} {
		_, err := runCommand(t, node, subcommand, "BTC/USD")
		assert.ErrorIs(t, err, config.ErrInvalidConfig, subcommand)
	}
	assert.Zero(t, node.RequestCount(""))

	_, err := runCommand(t, node, "-method", "published", "price", "BTC/USD")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSymbolTargetPublishedMethod(t *testing.T) {
	a := &app{cfg: &config.Config{IdentifierMethod: "published"}}
	_, err := a.symbolTarget("BTC/USD")
	assert.ErrorContains(t, err, "cannot derive identifiers with method published")
}

func TestSnapshotJSON(t *testing.T) {
	node := newTestNode(t)
	path := filepath.Join(t.TempDir(), "quotes.cbor")
	out, err := runCommand(t, node, "-output", "json", "price", "-snapshot", path, "BTC/USD", "ETH/USD")
	require.NoError(t, err)
	shown, err := runCommand(t, nil, "-output", "json", "show-snapshot", path)
	require.NoError(t, err)
	assert.JSONEq(t, out, shown)
}

func TestPriceNotFound(t *testing.T) {
	node := newTestNode(t)
	_, err := runCommand(t, node, "price", "BTC/USD", "DOGE/USD")
	assert.ErrorIs(t, err, oracle.ErrNotFound)
	assert.ErrorContains(t, err, "DOGE/USD")
}

func TestPriceWrongMethod(t *testing.T) {
	node := newTestNode(t)
	_, err := runCommand(t, node, "-method", "truncate-pad", "price", "BTC/USD")
	assert.ErrorIs(t, err, oracle.ErrNotFound)
}

func TestEma(t *testing.T) {
	node := newTestNode(t)
	out, err := runCommand(t, node, "ema", "BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, btcUsdLine+"\n", out)
	assert.Equal(t, 1, node.RequestCount("query"))
}

func TestPriceId(t *testing.T) {
	node := newTestNode(t)
	id := identifier.Digest("BTC/USD").String()
	out, err := runCommand(t, node, "price-id", id)
	require.NoError(t, err)
	assert.Equal(t, id+": 64700.231 ± 31.267 @ 2023-11-14T22:13:20Z\n", out)

	_, err = runCommand(t, node, "price-id", "0x1234")
	assert.ErrorIs(t, err, identifier.ErrInvalidLength)
}

func TestExists(t *testing.T) {
	node := newTestNode(t)
	out, err := runCommand(t, node, "exists", "BTC/USD", "DOGE/USD")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD: true\nDOGE/USD: false\n", out)
}

func TestPriceData(t *testing.T) {
	node := newTestNode(t)
	node.RegisterView(
		"priceoracle.testnet",
		oracle.MethodGetPriceData,
		rpcmock.ViewResult(map[string]any{
			"timestamp":            "1700000000000000000",
			"recency_duration_sec": 90,
			"prices": []map[string]any{
				{
					"asset_id": "wrap.testnet",
					"price":    map[string]any{"multiplier": "32100", "decimals": 4},
				},
				{
					"asset_id": "aurora",
					"price":    nil,
				},
			},
		}),
	)
	out, err := runCommand(t, node, "-contract", "priceoracle.testnet", "price-data", "wrap.testnet", "aurora")
	require.NoError(t, err)
	assert.Equal(
		t,
		"timestamp: 2023-11-14T22:13:20Z, recency: 90s\nwrap.testnet: 3.21\naurora: no recent price\n",
		out,
	)
}

func TestSnapshot(t *testing.T) {
	node := newTestNode(t)
	path := filepath.Join(t.TempDir(), "quotes.cbor")
	out, err := runCommand(t, node, "price", "-snapshot", path, "BTC/USD")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	shown, err := runCommand(t, nil, "show-snapshot", path)
	require.NoError(t, err)
	assert.Equal(t, out, shown)

	_, err = runCommand(t, nil, "show-snapshot")
	assert.Error(t, err)
}

func TestUnreachable(t *testing.T) {
	node := rpcmock.NewNode(rpcmock.WithChainId("testnet"))
	node.Close()
	_, err := runCommand(t, node, "-max-retries", "0", "price", "BTC/USD")
	assert.ErrorIs(t, err, near.ErrUnreachable)
}

type flakyTransport struct {
	failures atomic.Int32
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.failures.Add(-1) >= 0 {
		return nil, errors.New("connection reset by peer")
	}
	return f.next.RoundTrip(req)
}

func TestRetryUnreachable(t *testing.T) {
	node := newTestNode(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(
		t,
		os.WriteFile(
			configPath,
			[]byte("retry:\n  maxRetries: 3\n  initialInterval: 1ms\n  maxInterval: 2ms\n"),
			0o600,
		),
	)
	transport := &flakyTransport{next: http.DefaultTransport}
	// The first request, made while connecting, fails
	transport.failures.Store(1)
	client := &http.Client{Transport: transport}
	out, err := runCommandWithClient(t, node, client, "-config", configPath, "price", "BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, btcUsdLine+"\n", out)

	// Retries are exhausted
	transport.failures.Store(10)
	_, err = runCommandWithClient(t, node, client, "-config", configPath, "price", "BTC/USD")
	assert.ErrorIs(t, err, near.ErrUnreachable)
}

func TestInvalidConfig(t *testing.T) {
	_, err := runCommand(t, nil, "-output", "yaml", "identifier", "BTC/USD")
	assert.Error(t, err)
}
