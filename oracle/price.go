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
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Price is a Pyth price record. The price and confidence interval are fixed-point integers scaled
// by 10^Expo
type Price struct {
	Price       int64
	Conf        uint64
	Expo        int32
	PublishTime int64
}

type priceJson struct {
	Price       *json.RawMessage `json:"price"`
	Conf        *json.RawMessage `json:"conf"`
	Expo        *int32           `json:"expo"`
	PublishTime *int64           `json:"publish_time"`
}

// UnmarshalJSON decodes a price record. The contract encodes price and conf as decimal strings,
// and plain numbers are accepted as well
func (p *Price) UnmarshalJSON(data []byte) error {
	var tmp priceJson
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Price == nil || tmp.Conf == nil || tmp.Expo == nil || tmp.PublishTime == nil {
		return fmt.Errorf("price record is missing required fields")
	}
	priceStr, err := numericString(*tmp.Price)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	price, err := strconv.ParseInt(priceStr, 10, 64)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	confStr, err := numericString(*tmp.Conf)
	if err != nil {
		return fmt.Errorf("conf: %w", err)
	}
	conf, err := strconv.ParseUint(confStr, 10, 64)
	if err != nil {
		return fmt.Errorf("conf: %w", err)
	}
	p.Price = price
	p.Conf = conf
	p.Expo = *tmp.Expo
	p.PublishTime = *tmp.PublishTime
	return nil
}

// MarshalJSON encodes the price record the way the contract does
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(
		map[string]any{
			"price":        strconv.FormatInt(p.Price, 10),
			"conf":         strconv.FormatUint(p.Conf, 10),
			"expo":         p.Expo,
			"publish_time": p.PublishTime,
		},
	)
}

func numericString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("not a number: %s", string(raw))
	}
	return n.String(), nil
}

// Value returns the price as a decimal
func (p Price) Value() decimal.Decimal {
	return decimal.New(p.Price, p.Expo)
}

// Confidence returns the confidence interval as a decimal
func (p Price) Confidence() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(p.Conf), p.Expo)
}

// PublishedAt returns the publish time of the record
func (p Price) PublishedAt() time.Time {
	return time.Unix(p.PublishTime, 0).UTC()
}

// Age returns how old the record is relative to now
func (p Price) Age(now time.Time) time.Duration {
	return now.Sub(p.PublishedAt())
}

func (p Price) String() string {
	return fmt.Sprintf(
		"%s ± %s @ %s",
		p.Value().String(),
		p.Confidence().String(),
		p.PublishedAt().Format(time.RFC3339),
	)
}

// PriceData is the response of the get_price_data method of the NEAR price oracle contract
type PriceData struct {
	// Timestamp is in nanoseconds since the epoch
	Timestamp          uint64               `json:"timestamp,string"`
	RecencyDurationSec uint32               `json:"recency_duration_sec"`
	Prices             []AssetOptionalPrice `json:"prices"`
}

// Time returns the timestamp of the price data
func (d *PriceData) Time() time.Time {
	return time.Unix(0, int64(d.Timestamp)).UTC()
}

// Price returns the price for an asset. The second return value is false if the asset is not
// listed or has no recent price
func (d *PriceData) Price(assetId string) (*AssetPrice, bool) {
	for _, price := range d.Prices {
		if price.AssetId == assetId {
			return price.Price, price.Price != nil
		}
	}
	return nil, false
}

type AssetOptionalPrice struct {
	AssetId string      `json:"asset_id"`
	Price   *AssetPrice `json:"price"`
}

// AssetPrice is a price expressed as multiplier / 10^decimals
type AssetPrice struct {
	Multiplier decimal.Decimal `json:"multiplier"`
	Decimals   uint8           `json:"decimals"`
}

// Value returns the price as a decimal
func (p AssetPrice) Value() decimal.Decimal {
	return p.Multiplier.Shift(-int32(p.Decimals))
}
