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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/blinklabs-io/gonear/rpc"
	"github.com/blinklabs-io/gonear/transaction"
)

// DefaultGas is the gas attached to change calls when none is specified (30 TGas)
const DefaultGas uint64 = 30_000_000_000_000

// Contract is a handle for a deployed contract with a fixed set of callable methods. It is
// immutable and safe for concurrent use
type Contract struct {
	conn          *Connection
	accountId     string
	viewMethods   []string
	changeMethods []string
}

func newContract(
	conn *Connection,
	accountId string,
	viewMethods []string,
	changeMethods []string,
) *Contract {
	return &Contract{
		conn:          conn,
		accountId:     accountId,
		viewMethods:   slices.Clone(viewMethods),
		changeMethods: slices.Clone(changeMethods),
	}
}

// AccountId returns the account the contract is deployed at
func (c *Contract) AccountId() string {
	return c.accountId
}

// ViewMethods returns the declared view methods
func (c *Contract) ViewMethods() []string {
	return slices.Clone(c.viewMethods)
}

// ChangeMethods returns the declared change methods
func (c *Contract) ChangeMethods() []string {
	return slices.Clone(c.changeMethods)
}

func encodeArgs(args any) ([]byte, error) {
	if args == nil {
		return []byte("{}"), nil
	}
	if raw, ok := args.([]byte); ok {
		return raw, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encoding args: %w", err)
	}
	return data, nil
}

// View calls a declared view method with JSON-encoded args and returns the raw result. A []byte
// args value is passed through as-is, and nil sends an empty object
func (c *Contract) View(ctx context.Context, method string, args any) ([]byte, error) {
	if !slices.Contains(c.viewMethods, method) {
		return nil, fmt.Errorf("%w: view method %s", ErrMethodNotDeclared, method)
	}
	argsData, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	c.conn.logger.Debug(
		"calling view method",
		"component", "near",
		"contract_id", c.accountId,
		"method", method,
	)
	result, err := c.conn.client.CallFunction(
		ctx,
		c.conn.finality,
		c.accountId,
		method,
		argsData,
	)
	if err != nil {
		return nil, err
	}
	return result.Result, nil
}

// ViewJSON calls a declared view method and decodes the JSON result into dest
func (c *Contract) ViewJSON(ctx context.Context, method string, args any, dest any) error {
	data, err := c.View(ctx, method, args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: decoding %s result: %w", ErrMalformedResponse, method, err)
	}
	return nil
}

type callOptions struct {
	gas     uint64
	deposit *big.Int
}

// CallOptionFunc is a type that represents functions that modify a change call
type CallOptionFunc func(*callOptions)

// WithGas specifies the gas attached to the call
func WithGas(gas uint64) CallOptionFunc {
	return func(o *callOptions) {
		o.gas = gas
	}
}

// WithDeposit specifies the amount in yoctoNEAR attached to the call
func WithDeposit(deposit *big.Int) CallOptionFunc {
	return func(o *callOptions) {
		o.deposit = deposit
	}
}

// CallResult is the outcome of a successful change call
type CallResult struct {
	TransactionHash string
	// Value is the raw return value of the method, empty if it returns nothing
	Value []byte
}

// Call signs and submits a transaction calling a declared change method, and waits for its outcome
func (c *Contract) Call(
	ctx context.Context,
	method string,
	args any,
	options ...CallOptionFunc,
) (*CallResult, error) {
	if !slices.Contains(c.changeMethods, method) {
		return nil, fmt.Errorf("%w: change method %s", ErrMethodNotDeclared, method)
	}
	opts := callOptions{
		gas: DefaultGas,
	}
	for _, option := range options {
		option(&opts)
	}
	argsData, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	signer, err := c.conn.resolveSigner()
	if err != nil {
		return nil, err
	}
	publicKey := signer.PublicKey()
	accessKey, err := c.conn.client.ViewAccessKey(
		ctx,
		c.conn.finality,
		c.conn.accountId,
		publicKey.String(),
	)
	if err != nil {
		if errors.Is(err, rpc.ErrUnknownAccessKey) || errors.Is(err, rpc.ErrUnknownAccount) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, err
	}
	status, err := c.conn.client.Status(ctx)
	if err != nil {
		return nil, err
	}
	blockHash, err := transaction.ParseBlockHash(status.SyncInfo.LatestBlockHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	tx := &transaction.Transaction{
		SignerId:   c.conn.accountId,
		PublicKey:  publicKey,
		Nonce:      accessKey.Nonce + 1,
		ReceiverId: c.accountId,
		BlockHash:  blockHash,
		Actions: []transaction.Action{
			&transaction.FunctionCall{
				MethodName: method,
				Args:       argsData,
				Gas:        opts.gas,
				Deposit:    opts.deposit,
			},
		},
	}
	signedTx, err := tx.Sign(signer)
	if err != nil {
		return nil, err
	}
	txData, err := signedTx.Serialize()
	if err != nil {
		return nil, err
	}
	c.conn.logger.Debug(
		"submitting transaction",
		"component", "near",
		"contract_id", c.accountId,
		"method", method,
		"signer_id", c.conn.accountId,
		"nonce", tx.Nonce,
		"tx_hash", signedTx.HashString(),
	)
	outcome, err := c.conn.client.BroadcastTxCommit(ctx, txData)
	if err != nil {
		if errors.Is(err, rpc.ErrInvalidTransaction) {
			return nil, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
		}
		return nil, err
	}
	if !outcome.Status.IsSuccess() {
		return nil, fmt.Errorf(
			"%w: %s: %s",
			ErrTransactionFailed,
			signedTx.HashString(),
			string(outcome.Status.Failure),
		)
	}
	value, err := outcome.Status.Value()
	if err != nil {
		return nil, err
	}
	ret := &CallResult{
		TransactionHash: outcome.Transaction.Hash,
		Value:           value,
	}
	if ret.TransactionHash == "" {
		ret.TransactionHash = signedTx.HashString()
	}
	return ret, nil
}
