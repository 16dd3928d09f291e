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

// Package near implements a client for NEAR nodes over their JSON-RPC interface.
//
// A Connection is configured with functional options, established once with
// Connect, and then used to Bind contract handles. Contract handles issue view
// calls, which need no credentials, and signed change calls, which use the
// credential store of the connection.
//
// This package is the main entry point into this library. The oracle package
// builds the price oracle client on top of it.
package near

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/blinklabs-io/gonear/keystore"
	"github.com/blinklabs-io/gonear/rpc"
)

// ConnectionState represents the lifecycle state of a Connection
type ConnectionState uint32

const (
	ConnectionStateUninitialized ConnectionState = iota
	ConnectionStateConnecting
	ConnectionStateReady
	ConnectionStateFailed
)

func (s ConnectionState) String() string {
	tmp := map[ConnectionState]string{
		ConnectionStateUninitialized: "Uninitialized",
		ConnectionStateConnecting:    "Connecting",
		ConnectionStateReady:         "Ready",
		ConnectionStateFailed:        "Failed",
	}
	ret, ok := tmp[s]
	if !ok {
		return "Unknown"
	}
	return ret
}

// The Connection type is a session with a NEAR node
type Connection struct {
	connectMutex sync.Mutex
	state        atomic.Uint32
	connectErr   error
	networkId    string
	nodeUrl      string
	keyStore     keystore.KeyStore
	accountId    string
	signer       Signer
	logger       *slog.Logger
	httpClient   *http.Client
	rateLimit    float64
	rateBurst    int
	header       http.Header
	finality     rpc.Finality
	client       *rpc.Client
	nodeStatus   *rpc.StatusResult
}

// NewConnection returns a new Connection object with the specified options. No network activity
// happens until Connect is called
func NewConnection(options ...ConnectionOptionFunc) *Connection {
	c := &Connection{
		finality: rpc.FinalityFinal,
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.keyStore == nil {
		c.keyStore = keystore.NewInMemoryKeyStore()
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c
}

// Connect creates a Connection with the specified options and establishes it
func Connect(ctx context.Context, options ...ConnectionOptionFunc) (*Connection, error) {
	c := NewConnection(options...)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect validates the config and checks that the node is reachable and follows the configured
// network. A failed connection is terminal: further calls return ErrConnectionFailed wrapping the
// original error
func (c *Connection) Connect(ctx context.Context) error {
	c.connectMutex.Lock()
	defer c.connectMutex.Unlock()
	switch c.State() {
	case ConnectionStateReady:
		return nil
	case ConnectionStateFailed:
		return fmt.Errorf("%w: %w", ErrConnectionFailed, c.connectErr)
	}
	c.setState(ConnectionStateConnecting)
	if err := c.connect(ctx); err != nil {
		c.connectErr = err
		c.setState(ConnectionStateFailed)
		c.logger.Debug(
			"connection failed",
			"component", "near",
			"network_id", c.networkId,
			"node_url", c.nodeUrl,
			"error", err,
		)
		return err
	}
	c.setState(ConnectionStateReady)
	c.logger.Debug(
		"connected",
		"component", "near",
		"network_id", c.networkId,
		"node_url", c.nodeUrl,
		"chain_id", c.nodeStatus.ChainId,
		"block_height", c.nodeStatus.SyncInfo.LatestBlockHeight,
	)
	return nil
}

func (c *Connection) connect(ctx context.Context) error {
	if c.networkId == "" {
		return fmt.Errorf("%w: no network ID", ErrInvalidConfig)
	}
	if err := validateNodeUrl(c.nodeUrl); err != nil {
		return err
	}
	clientOpts := []rpc.ClientOptionFunc{
		rpc.WithHTTPClient(c.httpClient),
		rpc.WithLogger(c.logger),
	}
	if len(c.header) > 0 {
		clientOpts = append(clientOpts, rpc.WithHeader(c.header))
	}
	if c.rateLimit > 0 {
		clientOpts = append(clientOpts, rpc.WithRateLimit(c.rateLimit, c.rateBurst))
	}
	client := rpc.NewClient(c.nodeUrl, clientOpts...)
	status, err := client.Status(ctx)
	if err != nil {
		// Anything short of a usable status response means we have no node to talk to
		if errors.Is(err, ErrUnreachable) || ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if network := NetworkByName(c.networkId); network != NetworkInvalid {
		if status.ChainId != network.ChainId {
			return fmt.Errorf(
				"%w: node at %s follows chain %q, not %q",
				ErrInvalidConfig,
				c.nodeUrl,
				status.ChainId,
				network.ChainId,
			)
		}
	}
	c.client = client
	c.nodeStatus = status
	return nil
}

func validateNodeUrl(nodeUrl string) error {
	if nodeUrl == "" {
		return fmt.Errorf("%w: no node URL", ErrInvalidConfig)
	}
	u, err := url.Parse(nodeUrl)
	if err != nil {
		return fmt.Errorf("%w: invalid node URL: %w", ErrInvalidConfig, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: invalid node URL: %s", ErrInvalidConfig, nodeUrl)
	}
	return nil
}

func (c *Connection) setState(state ConnectionState) {
	c.state.Store(uint32(state))
}

// State returns the current connection state
func (c *Connection) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// NetworkId returns the configured network ID
func (c *Connection) NetworkId() string {
	return c.networkId
}

// NodeUrl returns the configured node URL
func (c *Connection) NodeUrl() string {
	return c.nodeUrl
}

// AccountId returns the account used to sign change calls, if any
func (c *Connection) AccountId() string {
	return c.accountId
}

// KeyStore returns the credential store
func (c *Connection) KeyStore() keystore.KeyStore {
	return c.keyStore
}

// NodeStatus returns the node status observed when connecting. It returns nil before the connection is ready
func (c *Connection) NodeStatus() *rpc.StatusResult {
	if c.State() != ConnectionStateReady {
		return nil
	}
	return c.nodeStatus
}

// Bind returns a handle for the contract deployed at contractId, restricted to the declared view
// and change methods. The connection must be ready
func (c *Connection) Bind(
	contractId string,
	viewMethods []string,
	changeMethods []string,
) (*Contract, error) {
	if c.State() != ConnectionStateReady {
		return nil, ErrNotReady
	}
	if contractId == "" {
		return nil, fmt.Errorf("%w: no contract ID", ErrInvalidConfig)
	}
	return newContract(c, contractId, viewMethods, changeMethods), nil
}
