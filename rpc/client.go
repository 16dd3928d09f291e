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

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	jsonRpcVersion = "2.0"
	// Upper bound on response bodies read from the node
	maxResponseSize = 16 * 1024 * 1024
)

// Client is a JSON-RPC client for a single NEAR node endpoint. It is safe for concurrent use
type Client struct {
	nodeUrl    string
	httpClient *http.Client
	header     http.Header
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithHTTPClient specifies the HTTP client to use. http.DefaultClient is used if none is provided
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader specifies additional headers to send with each request
func WithHeader(header http.Header) ClientOptionFunc {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithRateLimit paces outgoing requests to the specified rate. Requests wait for a token and are
// never dropped or retried
func WithRateLimit(requestsPerSecond float64, burst int) ClientOptionFunc {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithLogger specifies the logger to use. slog.Default() is used if none is provided
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a new Client for the specified node URL
func NewClient(nodeUrl string, options ...ClientOptionFunc) *Client {
	c := &Client{
		nodeUrl:    nodeUrl,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// NodeUrl returns the URL of the node endpoint
func (c *Client) NodeUrl() string {
	return c.nodeUrl
}

type request struct {
	JsonRpc string `json:"jsonrpc"`
	Id      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type response struct {
	JsonRpc string          `json:"jsonrpc"`
	Id      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// Call performs a single JSON-RPC request and decodes the result into dest
func (c *Client) Call(ctx context.Context, method string, params any, dest any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}
	reqId := uuid.NewString()
	body, err := json.Marshal(
		request{
			JsonRpc: jsonRpcVersion,
			Id:      reqId,
			Method:  method,
			Params:  params,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: encoding params: %w", ErrInvalidRequest, err)
	}
	c.logger.Debug(
		"sending request",
		"component", "rpc",
		"method", method,
		"request_id", reqId,
		"node_url", c.nodeUrl,
	)
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.nodeUrl,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("%w: creating request: %w", ErrInvalidRequest, err)
	}
	for key, values := range c.header {
		req.Header[key] = values
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		// A caller abandoning the request is not a transport failure
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: reading response: %w", ErrUnreachable, err)
	}
	var rpcRes response
	if err := json.Unmarshal(resBody, &rpcRes); err != nil {
		// The node speaks JSON even for errors, so anything else came from something in between
		if res.StatusCode < 200 || res.StatusCode > 299 {
			return fmt.Errorf(
				"%w: unexpected status code: %d",
				ErrUnreachable,
				res.StatusCode,
			)
		}
		return fmt.Errorf("%w: decoding response: %w", ErrMalformedResponse, err)
	}
	if rpcRes.Error != nil {
		c.logger.Debug(
			"received error response",
			"component", "rpc",
			"method", method,
			"request_id", reqId,
			"error", rpcRes.Error.Error(),
		)
		return rpcRes.Error
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf(
			"%w: unexpected status code: %d",
			ErrUnreachable,
			res.StatusCode,
		)
	}
	if len(rpcRes.Result) == 0 || string(rpcRes.Result) == "null" {
		return fmt.Errorf("%w: missing result", ErrMalformedResponse)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(rpcRes.Result, dest); err != nil {
		return fmt.Errorf("%w: decoding %s result: %w", ErrMalformedResponse, method, err)
	}
	return nil
}
