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

package oracle

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Encoding selects how identifiers are encoded in view call arguments
type Encoding uint8

const (
	// EncodingHex sends the identifier as a lowercase hex string, as the Pyth contract expects
	EncodingHex Encoding = iota
	// EncodingByteArray sends the identifier as an array of byte values
	EncodingByteArray
	// EncodingBase64 sends the identifier as a standard base64 string
	EncodingBase64
)

var encodingNames = map[Encoding]string{
	EncodingHex:       "hex",
	EncodingByteArray: "byte-array",
	EncodingBase64:    "base64",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// ParseEncoding returns the encoding with the given name
func ParseEncoding(name string) (Encoding, error) {
	for encoding, encodingName := range encodingNames {
		if strings.EqualFold(name, encodingName) {
			return encoding, nil
		}
	}
	return 0, fmt.Errorf("unknown identifier encoding: %s", name)
}

func (e Encoding) encode(id []byte) any {
	switch e {
	case EncodingByteArray:
		ret := make([]int, len(id))
		for i, b := range id {
			ret[i] = int(b)
		}
		return ret
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(id)
	default:
		return hex.EncodeToString(id)
	}
}
