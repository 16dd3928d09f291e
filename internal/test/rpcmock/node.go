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

// Package rpcmock provides a mock JSON-RPC node for tests
package rpcmock

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/blinklabs-io/gonear/rpc"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// Size of the trailing signature in a signed transaction: key type byte plus ed25519 signature
const signatureSuffixSize = 1 + 64

type request struct {
	JsonRpc string          `json:"jsonrpc"`
	Id      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	JsonRpc string     `json:"jsonrpc"`
	Id      string     `json:"id"`
	Result  any        `json:"result,omitempty"`
	Error   *rpc.Error `json:"error,omitempty"`
}

type accessKey struct {
	nonce      uint64
	fullAccess bool
}

// BroadcastFunc handles a submitted signed transaction and returns the execution status to report
type BroadcastFunc func(signedTx []byte) rpc.ExecutionStatus

// Node mocks a NEAR JSON-RPC node
type Node struct {
	server       *httptest.Server
	mutex        sync.Mutex
	chainId      string
	views        map[string]ViewFunc
	accounts     map[string]bool
	accessKeys   map[string]accessKey
	broadcast    BroadcastFunc
	transactions [][]byte
	requests     map[string]int
	failStatus   int
	failBody     string
}

// NodeOptionFunc is a type that represents functions that modify the mock node config
type NodeOptionFunc func(*Node)

// WithChainId specifies the chain ID reported by the status method
func WithChainId(chainId string) NodeOptionFunc {
	return func(n *Node) {
		n.chainId = chainId
	}
}

// WithBroadcastFunc specifies the handler for submitted transactions
func WithBroadcastFunc(broadcastFunc BroadcastFunc) NodeOptionFunc {
	return func(n *Node) {
		n.broadcast = broadcastFunc
	}
}

// NewNode starts a mock node. It must be stopped with Close
func NewNode(options ...NodeOptionFunc) *Node {
	n := &Node{
		chainId:    MockChainId,
		views:      make(map[string]ViewFunc),
		accounts:   make(map[string]bool),
		accessKeys: make(map[string]accessKey),
		requests:   make(map[string]int),
	}
	for _, option := range options {
		option(n)
	}
	n.server = httptest.NewServer(http.HandlerFunc(n.handle))
	return n
}

// Url returns the URL of the mock node
func (n *Node) Url() string {
	return n.server.URL
}

// Close stops the mock node
func (n *Node) Close() {
	n.server.Close()
}

// RegisterView registers a view function on a contract account, creating the account if needed
func (n *Node) RegisterView(accountId string, methodName string, viewFunc ViewFunc) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.accounts[accountId] = true
	n.views[viewKey(accountId, methodName)] = viewFunc
}

// AddAccount creates an account without any view functions
func (n *Node) AddAccount(accountId string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.accounts[accountId] = true
}

// AddAccessKey adds a full access key for an account, creating the account if needed
func (n *Node) AddAccessKey(accountId string, publicKey string, nonce uint64) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.accounts[accountId] = true
	n.accessKeys[viewKey(accountId, publicKey)] = accessKey{
		nonce:      nonce,
		fullAccess: true,
	}
}

// Fail makes every following request fail with the provided HTTP status code and body
func (n *Node) Fail(statusCode int, body string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.failStatus = statusCode
	n.failBody = body
}

// RequestCount returns the number of requests received for a JSON-RPC method, or all methods
// when method is empty
func (n *Node) RequestCount(method string) int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if method != "" {
		return n.requests[method]
	}
	total := 0
	for _, count := range n.requests {
		total += count
	}
	return total
}

// Transactions returns the signed transactions submitted to the node
func (n *Node) Transactions() [][]byte {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	ret := make([][]byte, len(n.transactions))
	copy(ret, n.transactions)
	return ret
}

func viewKey(accountId string, name string) string {
	return accountId + "/" + name
}

func (n *Node) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		n.writeResponse(w, response{
			JsonRpc: "2.0",
			Error: &rpc.Error{
				Name:    "REQUEST_VALIDATION_ERROR",
				Cause:   rpc.ErrorCause{Name: rpc.CauseParseError},
				Code:    -32700,
				Message: "Parse error",
			},
		})
		return
	}
	n.mutex.Lock()
	n.requests[req.Method]++
	failStatus, failBody := n.failStatus, n.failBody
	n.mutex.Unlock()
	if failStatus != 0 {
		w.WriteHeader(failStatus)
		_, _ = w.Write([]byte(failBody))
		return
	}
	res := response{
		JsonRpc: "2.0",
		Id:      req.Id,
	}
	var result any
	switch req.Method {
	case "status":
		result = n.handleStatus()
	case "query":
		result, err = n.handleQuery(req.Params)
	case "broadcast_tx_commit":
		result, err = n.handleBroadcast(req.Params)
	default:
		err = ErrorMethodNotFound(req.Method)
	}
	if err != nil {
		rpcErr, ok := err.(*rpc.Error)
		if !ok {
			rpcErr = &rpc.Error{
				Name:    "INTERNAL_ERROR",
				Cause:   rpc.ErrorCause{Name: rpc.CauseInternalError},
				Code:    -32000,
				Message: err.Error(),
			}
		}
		res.Error = rpcErr
	} else {
		res.Result = result
	}
	n.writeResponse(w, res)
}

func (n *Node) writeResponse(w http.ResponseWriter, res response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		panic(fmt.Sprintf("encoding mock response: %s", err))
	}
}

func (n *Node) handleStatus() any {
	return map[string]any{
		"chain_id":         n.chainId,
		"protocol_version": 73,
		"version": map[string]any{
			"version": "2.3.0",
			"build":   "mock",
		},
		"sync_info": map[string]any{
			"latest_block_hash":   base58.Encode(MockBlockHash[:]),
			"latest_block_height": MockBlockHeight,
			"latest_block_time":   time.Unix(1700000000, 0).UTC().Format(time.RFC3339Nano),
			"syncing":             false,
		},
	}
}

func (n *Node) handleQuery(rawParams json.RawMessage) (any, error) {
	var params map[string]string
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return nil, &rpc.Error{
			Name:    "REQUEST_VALIDATION_ERROR",
			Cause:   rpc.ErrorCause{Name: rpc.CauseParseError},
			Code:    -32700,
			Message: "Parse error",
		}
	}
	accountId := params["account_id"]
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if !n.accounts[accountId] {
		return nil, ErrorUnknownAccount(accountId)
	}
	switch params["request_type"] {
	case "call_function":
		viewFunc, ok := n.views[viewKey(accountId, params["method_name"])]
		if !ok {
			return nil, ErrorContractExecution("MethodResolveError(MethodNotFound)")
		}
		args, err := base64.StdEncoding.DecodeString(params["args_base64"])
		if err != nil {
			return nil, ErrorContractExecution(err.Error())
		}
		data, err := viewFunc(args)
		if err != nil {
			if rpcErr, ok := err.(*rpc.Error); ok {
				return nil, rpcErr
			}
			return map[string]any{
				"error":        err.Error(),
				"logs":         []string{},
				"block_height": MockBlockHeight,
				"block_hash":   base58.Encode(MockBlockHash[:]),
			}, nil
		}
		// The node reports the result as an array of byte values
		result := make([]int, len(data))
		for i, b := range data {
			result[i] = int(b)
		}
		return map[string]any{
			"result":       result,
			"logs":         []string{},
			"block_height": MockBlockHeight,
			"block_hash":   base58.Encode(MockBlockHash[:]),
		}, nil
	case "view_access_key":
		key, ok := n.accessKeys[viewKey(accountId, params["public_key"])]
		if !ok {
			return nil, ErrorUnknownAccessKey(params["public_key"])
		}
		var permission any = "FullAccess"
		if !key.fullAccess {
			permission = map[string]any{"FunctionCall": map[string]any{}}
		}
		return map[string]any{
			"nonce":        key.nonce,
			"permission":   permission,
			"block_height": MockBlockHeight,
			"block_hash":   base58.Encode(MockBlockHash[:]),
		}, nil
	default:
		return nil, &rpc.Error{
			Name:    "REQUEST_VALIDATION_ERROR",
			Cause:   rpc.ErrorCause{Name: rpc.CauseParseError},
			Code:    -32700,
			Message: "unknown request type: " + params["request_type"],
		}
	}
}

func (n *Node) handleBroadcast(rawParams json.RawMessage) (any, error) {
	var params []string
	if err := json.Unmarshal(rawParams, &params); err != nil || len(params) != 1 {
		return nil, &rpc.Error{
			Name:    "REQUEST_VALIDATION_ERROR",
			Cause:   rpc.ErrorCause{Name: rpc.CauseParseError},
			Code:    -32700,
			Message: "Parse error",
		}
	}
	signedTx, err := base64.StdEncoding.DecodeString(params[0])
	if err != nil || len(signedTx) <= signatureSuffixSize {
		return nil, &rpc.Error{
			Name:    "HANDLER_ERROR",
			Cause:   rpc.ErrorCause{Name: rpc.CauseInvalidTransaction},
			Code:    -32000,
			Message: "Server error",
		}
	}
	n.mutex.Lock()
	n.transactions = append(n.transactions, signedTx)
	broadcastFunc := n.broadcast
	n.mutex.Unlock()
	status := rpc.ExecutionStatus{}
	if broadcastFunc != nil {
		status = broadcastFunc(signedTx)
	} else {
		empty := ""
		status.SuccessValue = &empty
	}
	hash := sha256.Sum256(signedTx[:len(signedTx)-signatureSuffixSize])
	return map[string]any{
		"status": status,
		"transaction": map[string]any{
			"hash": base58.Encode(hash[:]),
		},
	}, nil
}
