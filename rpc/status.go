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

import "context"

const methodStatus = "status"

// StatusResult describes the node and the chain it follows
type StatusResult struct {
	ChainId         string         `json:"chain_id"`
	ProtocolVersion uint32         `json:"protocol_version"`
	Version         StatusVersion  `json:"version"`
	SyncInfo        StatusSyncInfo `json:"sync_info"`
}

type StatusVersion struct {
	Version string `json:"version"`
	Build   string `json:"build"`
}

type StatusSyncInfo struct {
	LatestBlockHash   string `json:"latest_block_hash"`
	LatestBlockHeight uint64 `json:"latest_block_height"`
	LatestBlockTime   string `json:"latest_block_time"`
	Syncing           bool   `json:"syncing"`
}

// Status returns the node status
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	var result StatusResult
	if err := c.Call(ctx, methodStatus, []any{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
