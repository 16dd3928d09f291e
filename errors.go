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
	"errors"

	"github.com/blinklabs-io/gonear/rpc"
)

var (
	// ErrInvalidConfig is returned for a missing or malformed network ID or node URL, or a node that
	// follows a different chain than the configured network
	ErrInvalidConfig = errors.New("invalid connection config")
	// ErrConnectionFailed is returned by Connect after an earlier connection attempt failed
	ErrConnectionFailed = errors.New("connection failed")
	// ErrNotReady is returned when binding a contract before the connection is established
	ErrNotReady = errors.New("connection not ready")
	// ErrMethodNotDeclared is returned when calling a method that was not declared at bind time
	ErrMethodNotDeclared = errors.New("method not declared")
	// ErrUnauthorized is returned when a signed call has no usable key for the sender account
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransactionFailed is returned when a submitted transaction does not execute successfully
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrUnreachable is returned when the node cannot be reached or cannot serve the request
	ErrUnreachable = rpc.ErrUnreachable
	// ErrMalformedResponse is returned when the node response cannot be decoded
	ErrMalformedResponse = rpc.ErrMalformedResponse
)
