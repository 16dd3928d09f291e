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

package rpcmock

import (
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/gonear/rpc"
)

const (
	MockChainId     = "mocknet"
	MockBlockHeight = 1000
)

// MockBlockHash is the fixed block hash reported by the mock node
var MockBlockHash = [32]byte{
	0x4e, 0x45, 0x41, 0x52, 0x6d, 0x6f, 0x63, 0x6b,
	0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18,
}

// ViewFunc handles a call_function query. It receives the decoded args and returns the raw result
// bytes. Returning an *rpc.Error produces a JSON-RPC error response, and any other error is reported
// the way older nodes do, as a string in the query result
type ViewFunc func(args []byte) ([]byte, error)

// ViewResult returns a ViewFunc that always responds with the JSON encoding of v
func ViewResult(v any) ViewFunc {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("encoding view result: %s", err))
	}
	return func([]byte) ([]byte, error) {
		return data, nil
	}
}

// ViewRaw returns a ViewFunc that always responds with the provided raw bytes
func ViewRaw(data []byte) ViewFunc {
	return func([]byte) ([]byte, error) {
		return data, nil
	}
}

// ViewError returns a ViewFunc that always fails with the provided error
func ViewError(err error) ViewFunc {
	return func([]byte) ([]byte, error) {
		return nil, err
	}
}

// ErrorUnknownAccount builds the error a node returns for a query against a missing account
func ErrorUnknownAccount(accountId string) *rpc.Error {
	return &rpc.Error{
		Name: "HANDLER_ERROR",
		Cause: rpc.ErrorCause{
			Name: rpc.CauseUnknownAccount,
			Info: json.RawMessage(
				fmt.Sprintf(`{"requested_account_id":%q}`, accountId),
			),
		},
		Code:    -32000,
		Message: "Server error",
		Data:    json.RawMessage(fmt.Sprintf(`"account %s does not exist while viewing"`, accountId)),
	}
}

// ErrorContractExecution builds the error a node returns when a view function panics or is missing
func ErrorContractExecution(msg string) *rpc.Error {
	return &rpc.Error{
		Name: "HANDLER_ERROR",
		Cause: rpc.ErrorCause{
			Name: rpc.CauseContractExecutionError,
			Info: json.RawMessage(fmt.Sprintf(`{"vm_error":%q}`, msg)),
		},
		Code:    -32000,
		Message: "Server error",
		Data:    json.RawMessage(fmt.Sprintf("%q", msg)),
	}
}

// ErrorUnknownAccessKey builds the error a node returns for a missing access key
func ErrorUnknownAccessKey(publicKey string) *rpc.Error {
	return &rpc.Error{
		Name: "HANDLER_ERROR",
		Cause: rpc.ErrorCause{
			Name: rpc.CauseUnknownAccessKey,
			Info: json.RawMessage(fmt.Sprintf(`{"public_key":%q}`, publicKey)),
		},
		Code:    -32000,
		Message: "Server error",
		Data:    json.RawMessage(fmt.Sprintf(`"access key %s does not exist while viewing"`, publicKey)),
	}
}

// ErrorMethodNotFound builds the error a node returns for an unknown JSON-RPC method
func ErrorMethodNotFound(method string) *rpc.Error {
	return &rpc.Error{
		Name:    "REQUEST_VALIDATION_ERROR",
		Cause:   rpc.ErrorCause{Name: rpc.CauseMethodNotFound},
		Code:    -32601,
		Message: "Method not found",
		Data:    json.RawMessage(fmt.Sprintf("%q", method)),
	}
}
