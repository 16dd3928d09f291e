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
	"bytes"
	"encoding/binary"
	"math/big"
)

// borshWriter accumulates the borsh encoding of transaction values. All integers are little-endian
type borshWriter struct {
	buf bytes.Buffer
}

func (w *borshWriter) writeU8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *borshWriter) writeU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf.Write(tmp[:])
}

func (w *borshWriter) writeU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf.Write(tmp[:])
}

// writeU128 writes a non-negative value below 2^128. Callers validate the range
func (w *borshWriter) writeU128(v *big.Int) {
	var tmp [16]byte
	if v != nil {
		// FillBytes is big-endian, so reverse into little-endian order
		var be [16]byte
		v.FillBytes(be[:])
		for i := range be {
			tmp[i] = be[len(be)-1-i]
		}
	}
	w.buf.Write(tmp[:])
}

// writeBytes writes a length-prefixed byte vector
func (w *borshWriter) writeBytes(v []byte) {
	w.writeU32(uint32(len(v)))
	w.buf.Write(v)
}

func (w *borshWriter) writeString(v string) {
	w.writeBytes([]byte(v))
}

// writeFixed writes a fixed-size array without a length prefix
func (w *borshWriter) writeFixed(v []byte) {
	w.buf.Write(v)
}

func (w *borshWriter) Bytes() []byte {
	return w.buf.Bytes()
}
