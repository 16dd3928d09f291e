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

package cbor

import (
	"bytes"

	_cbor "github.com/fxamacker/cbor/v2"
)

func Encode(data any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	opts := _cbor.EncOptions{
		// Make sure that maps have ordered keys
		Sort: _cbor.SortCoreDeterministic,
		// Keep timestamps at second precision with a tag so they decode back into time.Time
		Time:    _cbor.TimeUnix,
		TimeTag: _cbor.EncTagRequired,
	}
	em, err := opts.EncModeWithTags(customTagSet)
	if err != nil {
		return nil, err
	}
	enc := em.NewEncoder(buf)
	err = enc.Encode(data)
	return buf.Bytes(), err
}
