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

package identifier

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Size is the width of an identifier in bytes
const Size = 32

// Method is the derivation method that produced an Identifier
type Method uint8

const (
	// MethodDigest hashes the UTF-8 encoding of the symbol with SHA-256. This is the default
	MethodDigest Method = iota
	// MethodTruncatePad copies at most the first 32 bytes of the UTF-8 encoding of the symbol
	// into a zeroed buffer. It is lossy and only exists for registries populated that way
	MethodTruncatePad
	// MethodPublished marks an identifier decoded from the value published by the oracle operator
	MethodPublished
)

var methodNames = map[Method]string{
	MethodDigest:      "digest",
	MethodTruncatePad: "truncate-pad",
	MethodPublished:   "published",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// ParseMethod returns the Method with the specified name
func ParseMethod(name string) (Method, error) {
	for method, methodName := range methodNames {
		if strings.EqualFold(name, methodName) {
			return method, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Identifier is a 32-byte price feed key tagged with its derivation method
type Identifier struct {
	method Method
	value  [Size]byte
}

// Derive builds the identifier for a symbol using the specified method. It panics if the
// method is not one of MethodDigest or MethodTruncatePad
func Derive(symbol string, method Method) Identifier {
	switch method {
	case MethodDigest:
		return Digest(symbol)
	case MethodTruncatePad:
		return TruncatePad(symbol)
	default:
		panic(fmt.Sprintf("identifier: cannot derive with method %s", method))
	}
}

// Digest builds an identifier from the SHA-256 hash of the symbol
func Digest(symbol string) Identifier {
	return Identifier{
		method: MethodDigest,
		value:  sha256.Sum256([]byte(symbol)),
	}
}

// TruncatePad builds an identifier from the UTF-8 bytes of the symbol, zero-padded or
// truncated to 32 bytes
func TruncatePad(symbol string) Identifier {
	id := Identifier{
		method: MethodTruncatePad,
	}
	// copy stops at the shorter of the two, which truncates long symbols
	copy(id.value[:], symbol)
	return id
}

// FromBytes wraps a raw 32-byte identifier published by the oracle operator
func FromBytes(data []byte) (Identifier, error) {
	if len(data) != Size {
		return Identifier{}, fmt.Errorf(
			"%w: got %d bytes, expected %d",
			ErrInvalidLength,
			len(data),
			Size,
		)
	}
	id := Identifier{
		method: MethodPublished,
	}
	copy(id.value[:], data)
	return id, nil
}

// FromHex decodes a published identifier from its hex form, with or without a 0x prefix
func FromHex(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return Identifier{}, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return FromBytes(data)
}

// Method returns the derivation method of the identifier
func (i Identifier) Method() Method {
	return i.method
}

// Bytes returns a copy of the identifier value
func (i Identifier) Bytes() []byte {
	ret := make([]byte, Size)
	copy(ret, i.value[:])
	return ret
}

// Array returns the identifier value as a fixed-size array
func (i Identifier) Array() [Size]byte {
	return i.value
}

// String returns the identifier value as lowercase hex without a prefix
func (i Identifier) String() string {
	return hex.EncodeToString(i.value[:])
}

// IsZero reports whether every byte of the identifier is zero
func (i Identifier) IsZero() bool {
	return i.value == [Size]byte{}
}

func (i Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}
