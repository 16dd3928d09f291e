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
	"errors"

	near "github.com/blinklabs-io/gonear"
)

var (
	// ErrNotFound is returned when the oracle has no record for the identifier
	ErrNotFound = errors.New("price feed not found")
	// ErrInvalidIdentifier is returned for identifiers that are not exactly 32 bytes
	ErrInvalidIdentifier = errors.New("invalid price identifier")
	// ErrMethodMismatch is returned for identifiers derived with a method the oracle registry does not use
	ErrMethodMismatch = errors.New("identifier derivation method mismatch")
	// ErrInvalidMaxAge is returned for negative max ages or ages that are not whole seconds
	ErrInvalidMaxAge = errors.New("max age must be a non-negative whole number of seconds")

	// ErrMalformed is returned when a response does not match the price record schema
	ErrMalformed = near.ErrMalformedResponse
	// ErrUnreachable is returned when the node cannot be reached
	ErrUnreachable = near.ErrUnreachable
	// ErrUnauthorized is returned for signed calls without a usable key
	ErrUnauthorized = near.ErrUnauthorized
)
