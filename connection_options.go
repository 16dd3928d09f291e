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

package near

import (
	"log/slog"
	"net/http"

	"github.com/blinklabs-io/gonear/keystore"
	"github.com/blinklabs-io/gonear/rpc"
)

// ConnectionOptionFunc is a type that represents functions that modify the Connection config
type ConnectionOptionFunc func(*Connection)

// WithNetwork specifies the network. This sets both the network ID and the node URL, and a later
// WithNodeUrl overrides the latter
func WithNetwork(network Network) ConnectionOptionFunc {
	return func(c *Connection) {
		c.networkId = network.Name
		c.nodeUrl = network.NodeUrl
	}
}

// WithNetworkId specifies the network ID used to look up credentials. A known network name also
// enables the chain ID check against the node
func WithNetworkId(networkId string) ConnectionOptionFunc {
	return func(c *Connection) {
		c.networkId = networkId
	}
}

// WithNodeUrl specifies the JSON-RPC endpoint of the node
func WithNodeUrl(nodeUrl string) ConnectionOptionFunc {
	return func(c *Connection) {
		c.nodeUrl = nodeUrl
	}
}

// WithKeyStore specifies the credential store used for signed calls. If none is provided, an empty
// in-memory store is used
func WithKeyStore(keyStore keystore.KeyStore) ConnectionOptionFunc {
	return func(c *Connection) {
		c.keyStore = keyStore
	}
}

// WithAccountId specifies the account that signs change calls
func WithAccountId(accountId string) ConnectionOptionFunc {
	return func(c *Connection) {
		c.accountId = accountId
	}
}

// WithSigner specifies a signer to use instead of looking up the account key in the credential store
func WithSigner(signer Signer) ConnectionOptionFunc {
	return func(c *Connection) {
		c.signer = signer
	}
}

// WithLogger specifies the logger. If none is provided, slog.Default() is used
func WithLogger(logger *slog.Logger) ConnectionOptionFunc {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithHTTPClient specifies the HTTP client used to talk to the node
func WithHTTPClient(httpClient *http.Client) ConnectionOptionFunc {
	return func(c *Connection) {
		c.httpClient = httpClient
	}
}

// WithHeader specifies extra HTTP headers sent with every request, such as a provider API key
func WithHeader(header http.Header) ConnectionOptionFunc {
	return func(c *Connection) {
		c.header = header.Clone()
	}
}

// WithRateLimit limits requests to the node to the given rate. Requests over the limit are delayed,
// never dropped or retried
func WithRateLimit(requestsPerSecond float64, burst int) ConnectionOptionFunc {
	return func(c *Connection) {
		c.rateLimit = requestsPerSecond
		c.rateBurst = burst
	}
}

// WithFinality specifies the block finality used for view calls. The default is final
func WithFinality(finality rpc.Finality) ConnectionOptionFunc {
	return func(c *Connection) {
		c.finality = finality
	}
}
