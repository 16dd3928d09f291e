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
	"reflect"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/shopspring/decimal"
)

const (
	// Useful tag numbers
	CborTagDecimalFraction = 4
)

var customTagSet _cbor.TagSet

func init() {
	// Build custom tagset
	customTagSet = _cbor.NewTagSet()
	tagOpts := _cbor.TagOptions{EncTag: _cbor.EncTagRequired, DecTag: _cbor.DecTagRequired}
	// Decimal fractions
	if err := customTagSet.Add(
		tagOpts,
		reflect.TypeOf(DecimalFraction{}),
		CborTagDecimalFraction,
	); err != nil {
		panic(err)
	}
}

// DecimalFraction corresponds to CBOR tag 4 and represents the value Mantissa * 10^Exponent
type DecimalFraction struct {
	StructAsArray
	Exponent int64
	Mantissa int64
}

// NewDecimalFraction returns the decimal fraction mantissa * 10^exponent
func NewDecimalFraction(mantissa int64, exponent int64) DecimalFraction {
	return DecimalFraction{
		Exponent: exponent,
		Mantissa: mantissa,
	}
}

// Decimal returns the value as a decimal
func (d DecimalFraction) Decimal() decimal.Decimal {
	return decimal.New(d.Mantissa, int32(d.Exponent))
}

func (d DecimalFraction) String() string {
	return d.Decimal().String()
}
