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
	"fmt"
)

// Finality selects the block that view queries are evaluated against
type Finality string

const (
	FinalityFinal      Finality = "final"
	FinalityOptimistic Finality = "optimistic"
)

// ByteArray is a byte slice that the node encodes as a JSON array of integers
type ByteArray []byte

func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var tmpData []int
	if err := json.Unmarshal(data, &tmpData); err != nil {
		return err
	}
	// null stays nil so that callers can tell it apart from an empty array
	if tmpData == nil {
		*b = nil
		return nil
	}
	ret := make([]byte, len(tmpData))
	for idx, val := range tmpData {
		if val < 0 || val > 255 {
			return fmt.Errorf("byte value out of range at index %d: %d", idx, val)
		}
		ret[idx] = byte(val)
	}
	*b = ret
	return nil
}

func (b ByteArray) MarshalJSON() ([]byte, error) {
	tmpData := make([]int, len(b))
	for idx, val := range b {
		tmpData[idx] = int(val)
	}
	return json.Marshal(tmpData)
}
