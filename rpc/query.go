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
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	methodQuery = "query"

	requestTypeCallFunction  = "call_function"
	requestTypeViewAccessKey = "view_access_key"
)

// CallFunctionResult is the result of a view function call
type CallFunctionResult struct {
	Result      ByteArray `json:"result"`
	Logs        []string  `json:"logs"`
	BlockHeight uint64    `json:"block_height"`
	BlockHash   string    `json:"block_hash"`
	// Older nodes report contract failures here instead of in the JSON-RPC error
	Error string `json:"error,omitempty"`
}

// CallFunction calls a view function on a contract. The args are passed to the contract as-is
func (c *Client) CallFunction(
	ctx context.Context,
	finality Finality,
	accountId string,
	methodName string,
	args []byte,
) (*CallFunctionResult, error) {
	params := map[string]string{
		"request_type": requestTypeCallFunction,
		"finality":     string(finality),
		"account_id":   accountId,
		"method_name":  methodName,
		"args_base64":  base64.StdEncoding.EncodeToString(args),
	}
	var result CallFunctionResult
	if err := c.Call(ctx, methodQuery, params, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, newQueryError(result.Error)
	}
	if result.Result == nil {
		return nil, fmt.Errorf("%w: %s result missing", ErrMalformedResponse, requestTypeCallFunction)
	}
	return &result, nil
}

// AccessKeyView describes an access key and the block it was read at
type AccessKeyView struct {
	Nonce       uint64          `json:"nonce"`
	Permission  json.RawMessage `json:"permission"`
	BlockHeight uint64          `json:"block_height"`
	BlockHash   string          `json:"block_hash"`
	Error       string          `json:"error,omitempty"`
}

// IsFullAccess reports whether the access key may call any method on any contract
func (a *AccessKeyView) IsFullAccess() bool {
	var permission string
	if err := json.Unmarshal(a.Permission, &permission); err != nil {
		return false
	}
	return permission == "FullAccess"
}

// ViewAccessKey returns the access key of an account. The public key uses the "ed25519:<base58>" form
func (c *Client) ViewAccessKey(
	ctx context.Context,
	finality Finality,
	accountId string,
	publicKey string,
) (*AccessKeyView, error) {
	params := map[string]string{
		"request_type": requestTypeViewAccessKey,
		"finality":     string(finality),
		"account_id":   accountId,
		"public_key":   publicKey,
	}
	var result AccessKeyView
	if err := c.Call(ctx, methodQuery, params, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, newQueryError(result.Error)
	}
	return &result, nil
}
