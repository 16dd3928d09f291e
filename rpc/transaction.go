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

const methodBroadcastTxCommit = "broadcast_tx_commit"

// ExecutionStatus is the final status of a transaction. Exactly one field is set
type ExecutionStatus struct {
	SuccessValue     *string         `json:"SuccessValue,omitempty"`
	SuccessReceiptId *string         `json:"SuccessReceiptId,omitempty"`
	Failure          json.RawMessage `json:"Failure,omitempty"`
}

// IsSuccess reports whether the transaction succeeded
func (s ExecutionStatus) IsSuccess() bool {
	return len(s.Failure) == 0 &&
		(s.SuccessValue != nil || s.SuccessReceiptId != nil)
}

// Value returns the decoded return value of a successful transaction
func (s ExecutionStatus) Value() ([]byte, error) {
	if s.SuccessValue == nil {
		return nil, nil
	}
	ret, err := base64.StdEncoding.DecodeString(*s.SuccessValue)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding success value: %w", ErrMalformedResponse, err)
	}
	return ret, nil
}

// TransactionOutcome is the result of a submitted transaction
type TransactionOutcome struct {
	Status      ExecutionStatus `json:"status"`
	Transaction struct {
		Hash       string `json:"hash"`
		SignerId   string `json:"signer_id"`
		ReceiverId string `json:"receiver_id"`
		Nonce      uint64 `json:"nonce"`
	} `json:"transaction"`
}

// BroadcastTxCommit submits a serialized signed transaction and waits until it is executed
func (c *Client) BroadcastTxCommit(
	ctx context.Context,
	signedTx []byte,
) (*TransactionOutcome, error) {
	params := []string{
		base64.StdEncoding.EncodeToString(signedTx),
	}
	var result TransactionOutcome
	if err := c.Call(ctx, methodBroadcastTxCommit, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
