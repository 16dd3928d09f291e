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
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
)

// PriceRecord is a price record as stored by the mock oracle
type PriceRecord struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int32  `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

// PriceFeeds returns a ViewFunc for an oracle price query backed by the provided records, keyed by
// lowercase hex identifier. Identifiers in the args may be hex strings, base64 strings or arrays of
// byte values, under either of the argument names the oracle uses. Unknown identifiers produce null
func PriceFeeds(records map[string]PriceRecord) ViewFunc {
	return func(args []byte) ([]byte, error) {
		key, err := decodeIdentifierArg(args)
		if err != nil {
			return nil, err
		}
		record, ok := records[key]
		if !ok {
			return []byte("null"), nil
		}
		return json.Marshal(record)
	}
}

// PriceFeedExists returns a ViewFunc for the oracle feed existence query backed by the provided records
func PriceFeedExists(records map[string]PriceRecord) ViewFunc {
	return func(args []byte) ([]byte, error) {
		key, err := decodeIdentifierArg(args)
		if err != nil {
			return nil, err
		}
		_, ok := records[key]
		return json.Marshal(ok)
	}
}

func decodeIdentifierArg(args []byte) (string, error) {
	var tmpArgs map[string]json.RawMessage
	if err := json.Unmarshal(args, &tmpArgs); err != nil {
		return "", ErrorContractExecution("Failed to deserialize input from JSON")
	}
	raw, ok := tmpArgs["price_identifier"]
	if !ok {
		raw, ok = tmpArgs["price_id"]
	}
	if !ok {
		return "", ErrorContractExecution("missing identifier argument")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if data, err := hex.DecodeString(s); err == nil {
			return hex.EncodeToString(data), nil
		}
		if data, err := base64.StdEncoding.DecodeString(s); err == nil {
			return hex.EncodeToString(data), nil
		}
		return "", ErrorContractExecution("invalid identifier string")
	}
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return "", ErrorContractExecution("invalid identifier argument")
	}
	data := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return "", errors.New("identifier byte out of range")
		}
		data[i] = byte(v)
	}
	return hex.EncodeToString(data), nil
}
