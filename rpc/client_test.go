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

package rpc_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/gonear/internal/test/rpcmock"
	"github.com/blinklabs-io/gonear/rpc"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestStatus(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode(rpcmock.WithChainId("testnet"))
	defer node.Close()
	client := rpc.NewClient(node.Url())
	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "testnet", status.ChainId)
	assert.Equal(t, uint64(rpcmock.MockBlockHeight), status.SyncInfo.LatestBlockHeight)
	assert.Equal(t, base58.Encode(rpcmock.MockBlockHash[:]), status.SyncInfo.LatestBlockHash)
	assert.Equal(t, 1, node.RequestCount("status"))
}

func TestCallFunction(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode()
	defer node.Close()
	var receivedArgs []byte
	node.RegisterView("oracle.testnet", "echo", func(args []byte) ([]byte, error) {
		receivedArgs = args
		return []byte(`{"ok":true}`), nil
	})
	client := rpc.NewClient(node.Url())
	result, err := client.CallFunction(
		context.Background(),
		rpc.FinalityFinal,
		"oracle.testnet",
		"echo",
		[]byte(`{"a":1}`),
	)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(receivedArgs))
	assert.Equal(t, `{"ok":true}`, string(result.Result))
	assert.Equal(t, uint64(rpcmock.MockBlockHeight), result.BlockHeight)
}

func TestCallFunctionErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode()
	defer node.Close()
	node.RegisterView("oracle.testnet", "panics", rpcmock.ViewError(rpcmock.ErrorContractExecution("Smart contract panicked")))
	node.RegisterView("oracle.testnet", "legacy", rpcmock.ViewError(errors.New("wasm execution failed with error: FunctionCallError")))
	client := rpc.NewClient(node.Url())
	testDefs := []struct {
		name        string
		accountId   string
		method      string
		expectedErr error
		causeName   string
	}{
		{
			name:        "unknown account",
			accountId:   "missing.testnet",
			method:      "anything",
			expectedErr: rpc.ErrUnknownAccount,
			causeName:   rpc.CauseUnknownAccount,
		},
		{
			name:        "missing method",
			accountId:   "oracle.testnet",
			method:      "nope",
			expectedErr: rpc.ErrContractExecution,
			causeName:   rpc.CauseContractExecutionError,
		},
		{
			name:        "structured execution error",
			accountId:   "oracle.testnet",
			method:      "panics",
			expectedErr: rpc.ErrContractExecution,
			causeName:   rpc.CauseContractExecutionError,
		},
		{
			name:        "legacy string error",
			accountId:   "oracle.testnet",
			method:      "legacy",
			expectedErr: rpc.ErrContractExecution,
			causeName:   rpc.CauseContractExecutionError,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := client.CallFunction(
				context.Background(),
				rpc.FinalityFinal,
				testDef.accountId,
				testDef.method,
				nil,
			)
			require.Error(t, err)
			assert.ErrorIs(t, err, testDef.expectedErr)
			var rpcErr *rpc.Error
			require.ErrorAs(t, err, &rpcErr)
			assert.Equal(t, testDef.causeName, rpcErr.Cause.Name)
		})
	}
}

func TestViewAccessKey(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode()
	defer node.Close()
	node.AddAccessKey("alice.testnet", "ed25519:abc", 7)
	client := rpc.NewClient(node.Url())
	key, err := client.ViewAccessKey(context.Background(), rpc.FinalityFinal, "alice.testnet", "ed25519:abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), key.Nonce)
	assert.True(t, key.IsFullAccess())
	_, err = client.ViewAccessKey(context.Background(), rpc.FinalityFinal, "alice.testnet", "ed25519:def")
	assert.ErrorIs(t, err, rpc.ErrUnknownAccessKey)
}

func TestBroadcastTxCommit(t *testing.T) {
	defer goleak.VerifyNone(t)
	value := "dHJ1ZQ=="
	node := rpcmock.NewNode(
		rpcmock.WithBroadcastFunc(func([]byte) rpc.ExecutionStatus {
			return rpc.ExecutionStatus{SuccessValue: &value}
		}),
	)
	defer node.Close()
	client := rpc.NewClient(node.Url())
	signedTx := make([]byte, 100)
	outcome, err := client.BroadcastTxCommit(context.Background(), signedTx)
	require.NoError(t, err)
	assert.True(t, outcome.Status.IsSuccess())
	decoded, err := outcome.Status.Value()
	require.NoError(t, err)
	assert.Equal(t, "true", string(decoded))
	assert.NotEmpty(t, outcome.Transaction.Hash)
	require.Len(t, node.Transactions(), 1)
	assert.Equal(t, signedTx, node.Transactions()[0])
}

func TestUnknownMethod(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode()
	defer node.Close()
	client := rpc.NewClient(node.Url())
	err := client.Call(context.Background(), "no_such_method", []any{}, nil)
	assert.ErrorIs(t, err, rpc.ErrInvalidRequest)
}

func TestUnreachable(t *testing.T) {
	defer goleak.VerifyNone(t)
	// Start and immediately stop a server to get an address with nothing listening
	server := httptest.NewServer(http.NotFoundHandler())
	nodeUrl := server.URL
	server.Close()
	client := rpc.NewClient(nodeUrl, rpc.WithHTTPClient(&http.Client{Timeout: 2 * time.Second}))
	_, err := client.Status(context.Background())
	assert.ErrorIs(t, err, rpc.ErrUnreachable)
}

func TestHTTPFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode()
	defer node.Close()
	node.Fail(http.StatusBadGateway, "<html>bad gateway</html>")
	client := rpc.NewClient(node.Url())
	_, err := client.Status(context.Background())
	assert.ErrorIs(t, err, rpc.ErrUnreachable)
}

func TestMalformedResponse(t *testing.T) {
	defer goleak.VerifyNone(t)
	testDefs := []struct {
		name string
		body string
	}{
		{
			name: "not json",
			body: "hello",
		},
		{
			name: "null result",
			body: `{"jsonrpc":"2.0","id":"x","result":null}`,
		},
		{
			name: "wrong result type",
			body: `{"jsonrpc":"2.0","id":"x","result":{"result":"abc"}}`,
		},
		{
			name: "byte out of range",
			body: `{"jsonrpc":"2.0","id":"x","result":{"result":[1,256]}}`,
		},
		{
			name: "missing call result",
			body: `{"jsonrpc":"2.0","id":"x","result":{"block_height":1,"block_hash":"x","logs":[]}}`,
		},
		{
			name: "null call result",
			body: `{"jsonrpc":"2.0","id":"x","result":{"result":null,"block_height":1,"block_hash":"x","logs":[]}}`,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte(testDef.body))
				}),
			)
			defer server.Close()
			client := rpc.NewClient(server.URL)
			_, err := client.CallFunction(context.Background(), rpc.FinalityFinal, "a", "b", nil)
			assert.ErrorIs(t, err, rpc.ErrMalformedResponse)
		})
	}
}

func TestContextCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)
	node := rpcmock.NewNode()
	defer node.Close()
	client := rpc.NewClient(node.Url())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Status(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, rpc.ErrUnreachable)
}

func TestHeaderAndLogger(t *testing.T) {
	defer goleak.VerifyNone(t)
	var gotHeader string
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Api-Key")
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":"x","result":{"chain_id":"mainnet"}}`))
		}),
	)
	defer server.Close()
	client := rpc.NewClient(
		server.URL,
		rpc.WithHeader(http.Header{"X-Api-Key": []string{"secret"}}),
		rpc.WithLogger(slog.New(slog.DiscardHandler)),
		rpc.WithRateLimit(100, 1),
	)
	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mainnet", status.ChainId)
	assert.Equal(t, "secret", gotHeader)
}
