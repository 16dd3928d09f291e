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

package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	near "github.com/blinklabs-io/gonear"
	"github.com/blinklabs-io/gonear/identifier"
)

//go:generate mockgen -package=oracle_test -destination=mock_viewer_test.go -source=client.go Viewer

// Contract view methods
const (
	MethodGetPrice               = "get_price"
	MethodGetPriceUnsafe         = "get_price_unsafe"
	MethodGetPriceNoOlderThan    = "get_price_no_older_than"
	MethodGetEmaPrice            = "get_ema_price"
	MethodGetEmaPriceUnsafe      = "get_ema_price_unsafe"
	MethodGetEmaPriceNoOlderThan = "get_ema_price_no_older_than"
	MethodPriceFeedExists        = "price_feed_exists"
	MethodGetPriceData           = "get_price_data"
)

// Contract change methods
const (
	MethodUpdatePriceFeeds = "update_price_feeds"
)

const (
	DefaultIdentifierArgName = "price_identifier"
	identifierArgNameShort   = "price_id"
	maxAgeArgName            = "age"
	assetIdsArgName          = "asset_ids"
)

// ViewMethods are the view methods declared when binding the oracle contract
var ViewMethods = []string{
	MethodGetPrice,
	MethodGetPriceUnsafe,
	MethodGetPriceNoOlderThan,
	MethodGetEmaPrice,
	MethodGetEmaPriceUnsafe,
	MethodGetEmaPriceNoOlderThan,
	MethodPriceFeedExists,
	MethodGetPriceData,
}

// ChangeMethods are the change methods declared when binding the oracle contract
var ChangeMethods = []string{
	MethodUpdatePriceFeeds,
}

// The contract names the identifier argument differently depending on the method
var methodIdentifierArgNames = map[string]string{
	MethodGetPrice:               DefaultIdentifierArgName,
	MethodGetPriceUnsafe:         DefaultIdentifierArgName,
	MethodPriceFeedExists:        DefaultIdentifierArgName,
	MethodGetPriceNoOlderThan:    identifierArgNameShort,
	MethodGetEmaPrice:            identifierArgNameShort,
	MethodGetEmaPriceUnsafe:      identifierArgNameShort,
	MethodGetEmaPriceNoOlderThan: identifierArgNameShort,
}

// Viewer issues view calls against a bound contract. *near.Contract implements it
type Viewer interface {
	AccountId() string
	View(ctx context.Context, method string, args any) ([]byte, error)
}

// Client queries the price oracle contract
type Client struct {
	viewer           Viewer
	encoding         Encoding
	argName          string
	identifierMethod identifier.Method
	logger           *slog.Logger
}

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithIdentifierEncoding specifies how identifiers are encoded in view call arguments
func WithIdentifierEncoding(encoding Encoding) ClientOptionFunc {
	return func(c *Client) {
		c.encoding = encoding
	}
}

// WithIdentifierArgName overrides the argument name used for the identifier in every view call
func WithIdentifierArgName(argName string) ClientOptionFunc {
	return func(c *Client) {
		c.argName = argName
	}
}

// WithIdentifierMethod specifies the derivation method used by the oracle registry. The default is
// the SHA-256 digest
func WithIdentifierMethod(method identifier.Method) ClientOptionFunc {
	return func(c *Client) {
		c.identifierMethod = method
	}
}

// WithLogger specifies the logger. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a new Client issuing view calls through the provided viewer
func NewClient(viewer Viewer, options ...ClientOptionFunc) *Client {
	c := &Client{
		viewer:           viewer,
		encoding:         EncodingHex,
		identifierMethod: identifier.MethodDigest,
	}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Bind binds the oracle contract at contractId on an established connection and returns a client
// for it. An empty contractId selects the Pyth deployment of the connection network, if known
func Bind(conn *near.Connection, contractId string, options ...ClientOptionFunc) (*Client, error) {
	if contractId == "" {
		contractId = near.NetworkByName(conn.NetworkId()).PythContractId
	}
	contract, err := conn.Bind(contractId, ViewMethods, ChangeMethods)
	if err != nil {
		return nil, err
	}
	return NewClient(contract, options...), nil
}

// ContractId returns the account of the oracle contract
func (c *Client) ContractId() string {
	return c.viewer.AccountId()
}

// CheckIdentifier returns ErrMethodMismatch if the identifier was derived with a method other than
// the one used by the oracle registry. Published identifiers are always accepted
func (c *Client) CheckIdentifier(id identifier.Identifier) error {
	if id.Method() == identifier.MethodPublished || id.Method() == c.identifierMethod {
		return nil
	}
	return fmt.Errorf(
		"%w: identifier derived with %s, registry uses %s",
		ErrMethodMismatch,
		id.Method(),
		c.identifierMethod,
	)
}

// GetPrice returns the current price for the identifier. The contract refuses to return prices
// that are too old
func (c *Client) GetPrice(ctx context.Context, id []byte) (*Price, error) {
	return c.queryPrice(ctx, MethodGetPrice, id, nil)
}

// GetPriceFor returns the current price for a derived identifier, refusing identifiers derived
// with a method the registry does not use
func (c *Client) GetPriceFor(ctx context.Context, id identifier.Identifier) (*Price, error) {
	if err := c.CheckIdentifier(id); err != nil {
		return nil, err
	}
	return c.GetPrice(ctx, id.Bytes())
}

// GetPriceUnsafe returns the latest price for the identifier without any staleness check
func (c *Client) GetPriceUnsafe(ctx context.Context, id []byte) (*Price, error) {
	return c.queryPrice(ctx, MethodGetPriceUnsafe, id, nil)
}

// GetPriceNoOlderThan returns the price for the identifier if it was published within maxAge, which
// must be a whole number of seconds
func (c *Client) GetPriceNoOlderThan(
	ctx context.Context,
	id []byte,
	maxAge time.Duration,
) (*Price, error) {
	age, err := maxAgeSeconds(maxAge)
	if err != nil {
		return nil, err
	}
	return c.queryPrice(
		ctx,
		MethodGetPriceNoOlderThan,
		id,
		map[string]any{maxAgeArgName: age},
	)
}

// GetEmaPrice returns the current exponential moving average price for the identifier
func (c *Client) GetEmaPrice(ctx context.Context, id []byte) (*Price, error) {
	return c.queryPrice(ctx, MethodGetEmaPrice, id, nil)
}

// GetEmaPriceUnsafe returns the latest exponential moving average price without any staleness check
func (c *Client) GetEmaPriceUnsafe(ctx context.Context, id []byte) (*Price, error) {
	return c.queryPrice(ctx, MethodGetEmaPriceUnsafe, id, nil)
}

// GetEmaPriceNoOlderThan returns the exponential moving average price if it was published within
// maxAge, which must be a whole number of seconds
func (c *Client) GetEmaPriceNoOlderThan(
	ctx context.Context,
	id []byte,
	maxAge time.Duration,
) (*Price, error) {
	age, err := maxAgeSeconds(maxAge)
	if err != nil {
		return nil, err
	}
	return c.queryPrice(
		ctx,
		MethodGetEmaPriceNoOlderThan,
		id,
		map[string]any{maxAgeArgName: age},
	)
}

// PriceFeedExists reports whether the oracle has a feed for the identifier
func (c *Client) PriceFeedExists(ctx context.Context, id []byte) (bool, error) {
	args, err := c.identifierArgs(MethodPriceFeedExists, id, nil)
	if err != nil {
		return false, err
	}
	data, err := c.view(ctx, MethodPriceFeedExists, args)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := json.Unmarshal(data, &exists); err != nil {
		return false, fmt.Errorf("%w: %s result: %w", ErrMalformed, MethodPriceFeedExists, err)
	}
	return exists, nil
}

// GetPriceData returns prices from a NEAR price oracle contract for the given assets, or all
// assets when none are given
func (c *Client) GetPriceData(ctx context.Context, assetIds []string) (*PriceData, error) {
	args := map[string]any{}
	if len(assetIds) > 0 {
		args[assetIdsArgName] = assetIds
	}
	data, err := c.view(ctx, MethodGetPriceData, args)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, ErrNotFound
	}
	var ret PriceData
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("%w: %s result: %w", ErrMalformed, MethodGetPriceData, err)
	}
	return &ret, nil
}

func (c *Client) identifierArgs(method string, id []byte, extra map[string]any) (map[string]any, error) {
	if len(id) != identifier.Size {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidIdentifier,
			identifier.Size,
			len(id),
		)
	}
	argName := c.argName
	if argName == "" {
		argName = methodIdentifierArgNames[method]
	}
	args := map[string]any{
		argName: c.encoding.encode(id),
	}
	for k, v := range extra {
		args[k] = v
	}
	return args, nil
}

func (c *Client) queryPrice(
	ctx context.Context,
	method string,
	id []byte,
	extra map[string]any,
) (*Price, error) {
	args, err := c.identifierArgs(method, id, extra)
	if err != nil {
		return nil, err
	}
	data, err := c.view(ctx, method, args)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, fmt.Errorf("%w: %x", ErrNotFound, id)
	}
	var ret Price
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("%w: %s result: %w", ErrMalformed, method, err)
	}
	return &ret, nil
}

func (c *Client) view(ctx context.Context, method string, args map[string]any) ([]byte, error) {
	c.logger.Debug(
		"querying oracle",
		"component", "oracle",
		"contract_id", c.viewer.AccountId(),
		"method", method,
	)
	data, err := c.viewer.View(ctx, method, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return data, nil
}

// isNull reports whether the result is a JSON null. An empty result is not null and fails decoding
func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// maxAgeSeconds converts maxAge to the whole seconds the contract takes
func maxAgeSeconds(maxAge time.Duration) (uint64, error) {
	if maxAge < 0 || maxAge%time.Second != 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidMaxAge, maxAge)
	}
	return uint64(maxAge / time.Second), nil
}
