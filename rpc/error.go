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
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnreachable indicates that the node could not be reached or could not serve the request
var ErrUnreachable = errors.New("node unreachable")

// ErrMalformedResponse indicates a response that does not follow the JSON-RPC schema
var ErrMalformedResponse = errors.New("malformed response")

// ErrInvalidRequest indicates a request that could not be built or that the node rejected as invalid
var ErrInvalidRequest = errors.New("invalid request")

// ErrUnknownAccount indicates that the requested account does not exist
var ErrUnknownAccount = errors.New("unknown account")

// ErrNoContractCode indicates that the requested account has no contract deployed
var ErrNoContractCode = errors.New("no contract code")

// ErrContractExecution indicates that the contract failed while executing a view function
var ErrContractExecution = errors.New("contract execution error")

// ErrUnknownAccessKey indicates that the requested access key does not exist
var ErrUnknownAccessKey = errors.New("unknown access key")

// ErrInvalidTransaction indicates that the node rejected a submitted transaction
var ErrInvalidTransaction = errors.New("invalid transaction")

// Error causes reported by the node
const (
	CauseUnknownAccount         = "UNKNOWN_ACCOUNT"
	CauseNoContractCode         = "NO_CONTRACT_CODE"
	CauseContractExecutionError = "CONTRACT_EXECUTION_ERROR"
	CauseUnknownAccessKey       = "UNKNOWN_ACCESS_KEY"
	CauseInvalidTransaction     = "INVALID_TRANSACTION"
	CauseUnknownBlock           = "UNKNOWN_BLOCK"
	CauseUnavailableShard       = "UNAVAILABLE_SHARD"
	CauseNoSyncedBlocks         = "NO_SYNCED_BLOCKS"
	CauseTimeoutError           = "TIMEOUT_ERROR"
	CauseInternalError          = "INTERNAL_ERROR"
	CauseParseError             = "PARSE_ERROR"
	CauseMethodNotFound         = "METHOD_NOT_FOUND"
)

var causeErrors = map[string]error{
	CauseUnknownAccount:         ErrUnknownAccount,
	CauseNoContractCode:         ErrNoContractCode,
	CauseContractExecutionError: ErrContractExecution,
	CauseUnknownAccessKey:       ErrUnknownAccessKey,
	CauseInvalidTransaction:     ErrInvalidTransaction,
	// The node is up but cannot answer for the requested state right now
	CauseUnknownBlock:     ErrUnreachable,
	CauseUnavailableShard: ErrUnreachable,
	CauseNoSyncedBlocks:   ErrUnreachable,
	CauseTimeoutError:     ErrUnreachable,
	CauseInternalError:    ErrUnreachable,
	CauseParseError:       ErrInvalidRequest,
	CauseMethodNotFound:   ErrInvalidRequest,
}

// Error is an error reported by the node
type Error struct {
	Name    string          `json:"name"`
	Cause   ErrorCause      `json:"cause"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ErrorCause identifies the specific reason for an Error
type ErrorCause struct {
	Name string          `json:"name"`
	Info json.RawMessage `json:"info,omitempty"`
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("rpc error")
	if e.Cause.Name != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Name)
	} else if e.Name != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Name)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if detail := e.DataString(); detail != "" && detail != e.Message {
		sb.WriteString(" (")
		sb.WriteString(detail)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the sentinel error matching the error cause, if any
func (e *Error) Unwrap() error {
	if err, ok := causeErrors[e.Cause.Name]; ok {
		return err
	}
	return nil
}

// DataString returns the error data as a string. The node sends either a plain string or an object
func (e *Error) DataString() string {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Data, &s); err == nil {
		return s
	}
	return string(e.Data)
}

// newQueryError converts the legacy in-result error string into an Error
func newQueryError(msg string) *Error {
	cause := CauseContractExecutionError
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "access key") && strings.Contains(lower, "does not exist"):
		cause = CauseUnknownAccessKey
	case strings.Contains(lower, "codedoesnotexist"),
		strings.Contains(lower, "contract code") && strings.Contains(lower, "does not exist"):
		cause = CauseNoContractCode
	case strings.Contains(lower, "account") && strings.Contains(lower, "does not exist"):
		cause = CauseUnknownAccount
	}
	return &Error{
		Name:    "HANDLER_ERROR",
		Cause:   ErrorCause{Name: cause},
		Message: msg,
	}
}
