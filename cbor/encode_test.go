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

package cbor_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/blinklabs-io/gonear/cbor"
	"github.com/blinklabs-io/gonear/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encodeTestDefinition struct {
	CborHex string
	Object  any
}

type testArrayStruct struct {
	cbor.StructAsArray
	A uint64
	B string
}

var encodeTests = []encodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{1, 2, 3},
	},
	// Map keys are sorted
	{
		CborHex: "a2616101616202",
		Object:  map[string]int{"b": 2, "a": 1},
	},
	// Struct encoded as array
	{
		CborHex: "82076178",
		Object:  testArrayStruct{A: 7, B: "x"},
	},
	// Time with epoch tag
	{
		CborHex: "c11a6553f100",
		Object:  time.Unix(1700000000, 0).UTC(),
	},
}

func TestEncode(t *testing.T) {
	for _, test := range encodeTests {
		cborData, err := cbor.Encode(test.Object)
		if err != nil {
			t.Fatalf("failed to encode object to CBOR: %s", err)
		}
		cborHex := hex.EncodeToString(cborData)
		if cborHex != test.CborHex {
			t.Fatalf(
				"object did not encode to expected CBOR\n  got: %s\n  wanted: %s",
				cborHex,
				test.CborHex,
			)
		}
	}
}

func TestDecode(t *testing.T) {
	var dest testArrayStruct
	cborData := test.DecodeHexString("820761780102")
	n, err := cbor.Decode(cborData, &dest)
	require.NoError(t, err)
	// Only the first item is consumed
	assert.Equal(t, 4, n)
	assert.Equal(t, uint64(7), dest.A)
	assert.Equal(t, "x", dest.B)
}

func TestDecodeUnknownField(t *testing.T) {
	type testMapStruct struct {
		A uint64 `cbor:"a"`
	}
	var dest testMapStruct
	// {"a": 1, "b": 2}
	cborData := test.DecodeHexString("a2616101616202")
	_, err := cbor.Decode(cborData, &dest)
	assert.Error(t, err)
}

func TestDecodeTime(t *testing.T) {
	var dest time.Time
	cborData := test.DecodeHexString("c11a6553f100")
	_, err := cbor.Decode(cborData, &dest)
	require.NoError(t, err)
	assert.True(t, dest.Equal(time.Unix(1700000000, 0)))
}
