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

package near_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"math/big"
	"testing"

	near "github.com/blinklabs-io/gonear"
	"github.com/blinklabs-io/gonear/internal/test"
	"github.com/blinklabs-io/gonear/internal/test/rpcmock"
	"github.com/blinklabs-io/gonear/keystore"
	"github.com/blinklabs-io/gonear/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testContractId = "counter.testnet"
	testAccountId  = "kenobi.testnet"
)

func testKeyPair(t *testing.T) *keystore.KeyPair {
	t.Helper()
	return test.NewKeyPair(0x42)
}

func testConnect(
	t *testing.T,
	node *rpcmock.Node,
	options ...near.ConnectionOptionFunc,
) *near.Connection {
	t.Helper()
	options = append(
		[]near.ConnectionOptionFunc{
			near.WithNetworkId("testnet"),
			near.WithNodeUrl(node.Url()),
		},
		options...,
	)
	conn, err := near.Connect(context.Background(), options...)
	require.NoError(t, err)
	return conn
}

func TestContractView(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode(rpcmock.WithChainId("testnet"))
	defer node.Close()
	var gotArgs []byte
	node.RegisterView(testContractId, "get_num", func(args []byte) ([]byte, error) {
		gotArgs = args
		return []byte("42"), nil
	})
	conn := testConnect(t, node)
	contract, err := conn.Bind(testContractId, []string{"get_num"}, []string{"increment"})
	require.NoError(t, err)

	result, err := contract.View(context.Background(), "get_num", map[string]string{"key": "a"})
	require.NoError(t, err)
	assert.Equal(t, "42", string(result))
	assert.JSONEq(t, `{"key":"a"}`, string(gotArgs))

	_, err = contract.View(context.Background(), "get_num", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(gotArgs))

	var num int
	require.NoError(t, contract.ViewJSON(context.Background(), "get_num", nil, &num))
	assert.Equal(t, 42, num)
}

func TestContractViewErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode(rpcmock.WithChainId("testnet"))
	defer node.Close()
	node.RegisterView(testContractId, "get_text", rpcmock.ViewRaw([]byte("not json")))
	conn := testConnect(t, node)
	contract, err := conn.Bind(testContractId, []string{"get_text", "missing"}, []string{"increment"})
	require.NoError(t, err)

	// Undeclared methods never reach the node
	requests := node.RequestCount("")
	_, err = contract.View(context.Background(), "increment", nil)
	assert.ErrorIs(t, err, near.ErrMethodNotDeclared)
	assert.Equal(t, requests, node.RequestCount(""))

	var dest map[string]any
	err = contract.ViewJSON(context.Background(), "get_text", nil, &dest)
	assert.ErrorIs(t, err, near.ErrMalformedResponse)

	_, err = contract.View(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, rpc.ErrContractExecution)

	_, err = contract.View(context.Background(), "get_text", make(chan int))
	assert.Error(t, err)
}

func TestContractCall(t *testing.T) {
	defer goleak.VerifyNone(t)
	kp := testKeyPair(t)
	returned := "Mw=="
	node := rpcmock.NewNode(
		rpcmock.WithChainId("testnet"),
		rpcmock.WithBroadcastFunc(func([]byte) rpc.ExecutionStatus {
			return rpc.ExecutionStatus{SuccessValue: &returned}
		}),
	)
	defer node.Close()
	node.AddAccount(testContractId)
	node.AddAccessKey(testAccountId, kp.PublicKey().String(), 10)
	keyStore := keystore.NewInMemoryKeyStore()
	require.NoError(t, keyStore.SetKey("testnet", testAccountId, kp))
	conn := testConnect(
		t,
		node,
		near.WithKeyStore(keyStore),
		near.WithAccountId(testAccountId),
	)
	contract, err := conn.Bind(testContractId, nil, []string{"increment"})
	require.NoError(t, err)

	result, err := contract.Call(
		context.Background(),
		"increment",
		map[string]int{"by": 2},
		near.WithGas(10_000_000_000_000),
		near.WithDeposit(big.NewInt(1)),
	)
	require.NoError(t, err)
	assert.Equal(t, "3", string(result.Value))
	assert.NotEmpty(t, result.TransactionHash)

	txs := node.Transactions()
	require.Len(t, txs, 1)
	signedTx := txs[0]
	unsigned := signedTx[:len(signedTx)-1-ed25519.SignatureSize]
	signature := signedTx[len(signedTx)-ed25519.SignatureSize:]
	hash := sha256.Sum256(unsigned)
	assert.True(t, kp.PublicKey().Verify(hash[:], signature))
	assert.True(t, bytes.Contains(unsigned, []byte(`{"by":2}`)))
	assert.True(t, bytes.Contains(unsigned, []byte("increment")))
}

func TestContractCallExplicitSigner(t *testing.T) {
	defer goleak.VerifyNone(t)
	kp := testKeyPair(t)
	node := rpcmock.NewNode(rpcmock.WithChainId("testnet"))
	defer node.Close()
	node.AddAccount(testContractId)
	node.AddAccessKey(testAccountId, kp.PublicKey().String(), 0)
	conn := testConnect(
		t,
		node,
		near.WithSigner(kp),
		near.WithAccountId(testAccountId),
	)
	contract, err := conn.Bind(testContractId, nil, []string{"increment"})
	require.NoError(t, err)
	result, err := contract.Call(context.Background(), "increment", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Value)
}

func TestContractCallUnauthorized(t *testing.T) {
	defer goleak.VerifyNone(t)
	kp := testKeyPair(t)
	node := rpcmock.NewNode(rpcmock.WithChainId("testnet"))
	defer node.Close()
	node.AddAccount(testContractId)
	testDefs := []struct {
		name    string
		options []near.ConnectionOptionFunc
	}{
		{
			name: "no account",
		},
		{
			name: "empty key store",
			options: []near.ConnectionOptionFunc{
				near.WithKeyStore(keystore.NewInMemoryKeyStore()),
				near.WithAccountId(testAccountId),
			},
		},
		{
			name: "key unknown to the node",
			options: []near.ConnectionOptionFunc{
				near.WithSigner(kp),
				near.WithAccountId(testAccountId),
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			conn := testConnect(t, node, testDef.options...)
			contract, err := conn.Bind(testContractId, nil, []string{"increment"})
			require.NoError(t, err)
			_, err = contract.Call(context.Background(), "increment", nil)
			assert.ErrorIs(t, err, near.ErrUnauthorized)
		})
	}
	assert.Empty(t, node.Transactions())
}

func TestContractCallFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	kp := testKeyPair(t)
	node := rpcmock.NewNode(
		rpcmock.WithChainId("testnet"),
		rpcmock.WithBroadcastFunc(func([]byte) rpc.ExecutionStatus {
			return rpc.ExecutionStatus{
				Failure: json.RawMessage(`{"ActionError":{"index":0}}`),
			}
		}),
	)
	defer node.Close()
	node.AddAccount(testContractId)
	node.AddAccessKey(testAccountId, kp.PublicKey().String(), 0)
	conn := testConnect(
		t,
		node,
		near.WithSigner(kp),
		near.WithAccountId(testAccountId),
	)
	contract, err := conn.Bind(testContractId, []string{"get_num"}, []string{"increment"})
	require.NoError(t, err)

	_, err = contract.Call(context.Background(), "get_num", nil)
	assert.ErrorIs(t, err, near.ErrMethodNotDeclared)

	_, err = contract.Call(context.Background(), "increment", nil)
	assert.ErrorIs(t, err, near.ErrTransactionFailed)
	assert.Contains(t, err.Error(), "ActionError")
}
