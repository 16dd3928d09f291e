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

package transaction

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBorshIntegers(t *testing.T) {
	w := &borshWriter{}
	w.writeU8(0x01)
	w.writeU32(0x02030405)
	w.writeU64(0x060708090a0b0c0d)
	assert.Equal(
		t,
		"01"+"05040302"+"0d0c0b0a09080706",
		hex.EncodeToString(w.Bytes()),
	)
}

func TestBorshU128(t *testing.T) {
	testDefs := []struct {
		value    *big.Int
		expected string
	}{
		{
			value:    nil,
			expected: "00000000000000000000000000000000",
		},
		{
			value:    big.NewInt(1),
			expected: "01000000000000000000000000000000",
		},
		{
			// 1 NEAR in yoctoNEAR
			value:    new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil),
			expected: "000000a1edccce1bc2d3000000000000",
		},
		{
			value:    maxU128,
			expected: "ffffffffffffffffffffffffffffffff",
		},
	}
	for _, testDef := range testDefs {
		w := &borshWriter{}
		w.writeU128(testDef.value)
		assert.Equal(t, testDef.expected, hex.EncodeToString(w.Bytes()))
	}
}

func TestBorshString(t *testing.T) {
	w := &borshWriter{}
	w.writeString("abc")
	w.writeBytes(nil)
	w.writeFixed([]byte{0xff, 0xee})
	assert.Equal(t, "03000000616263"+"00000000"+"ffee", hex.EncodeToString(w.Bytes()))
}
