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

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/blinklabs-io/gonear/identifier"
	"github.com/blinklabs-io/gonear/internal/config"
	"github.com/blinklabs-io/gonear/oracle"
	"github.com/blinklabs-io/gonear/snapshot"
)

type quoteOutput struct {
	Symbol      string    `json:"symbol,omitempty"`
	Identifier  string    `json:"identifier"`
	Method      string    `json:"method"`
	Price       string    `json:"price"`
	Conf        string    `json:"conf"`
	Expo        int32     `json:"expo"`
	PublishTime time.Time `json:"publishTime"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type feedExistence struct {
	Symbol     string `json:"symbol"`
	Identifier string `json:"identifier"`
	Exists     bool   `json:"exists"`
}

type identifierOutput struct {
	Symbol      string `json:"symbol"`
	Digest      string `json:"digest"`
	TruncatePad string `json:"truncatePad"`
}

type assetPriceOutput struct {
	AssetId string `json:"assetId"`
	Price   string `json:"price,omitempty"`
}

type priceDataOutput struct {
	Timestamp          time.Time          `json:"timestamp"`
	RecencyDurationSec uint32             `json:"recencyDurationSec"`
	Prices             []assetPriceOutput `json:"prices"`
}

func quoteLabel(symbol string, id identifier.Identifier) string {
	if symbol != "" {
		return symbol
	}
	return id.String()
}

func (a *app) json() bool {
	return a.cfg.Output == config.OutputJSON
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printQuotes(quotes []snapshot.Quote) error {
	if a.json() {
		out := make([]quoteOutput, 0, len(quotes))
		for _, quote := range quotes {
			out = append(out, quoteOutput{
				Symbol:      quote.Symbol,
				Identifier:  quote.Identifier.String(),
				Method:      quote.Method().String(),
				Price:       quote.Price.Value().String(),
				Conf:        quote.Price.Confidence().String(),
				Expo:        quote.Price.Expo,
				PublishTime: quote.Price.PublishedAt(),
				FetchedAt:   quote.FetchedAt,
			})
		}
		return a.writeJSON(out)
	}
	for _, quote := range quotes {
		fmt.Fprintf(
			a.stdout,
			"%s: %s\n",
			quoteLabel(quote.Symbol, quote.Identifier),
			quote.Price.String(),
		)
	}
	return nil
}

func (a *app) printExistence(results []feedExistence) error {
	if a.json() {
		return a.writeJSON(results)
	}
	for _, result := range results {
		fmt.Fprintf(a.stdout, "%s: %t\n", result.Symbol, result.Exists)
	}
	return nil
}

func (a *app) printIdentifiers(ids []identifierOutput) error {
	if a.json() {
		return a.writeJSON(ids)
	}
	for _, id := range ids {
		fmt.Fprintf(
			a.stdout,
			"%s:\n  %s: %s\n  %s: %s\n",
			id.Symbol,
			identifier.MethodDigest,
			id.Digest,
			identifier.MethodTruncatePad,
			id.TruncatePad,
		)
	}
	return nil
}

func (a *app) printPriceData(data *oracle.PriceData) error {
	out := priceDataOutput{
		Timestamp:          data.Time(),
		RecencyDurationSec: data.RecencyDurationSec,
		Prices:             make([]assetPriceOutput, 0, len(data.Prices)),
	}
	for _, price := range data.Prices {
		entry := assetPriceOutput{AssetId: price.AssetId}
		if price.Price != nil {
			entry.Price = price.Price.Value().String()
		}
		out.Prices = append(out.Prices, entry)
	}
	if a.json() {
		return a.writeJSON(out)
	}
	fmt.Fprintf(
		a.stdout,
		"timestamp: %s, recency: %ds\n",
		out.Timestamp.Format(time.RFC3339),
		out.RecencyDurationSec,
	)
	for _, price := range out.Prices {
		if price.Price == "" {
			fmt.Fprintf(a.stdout, "%s: no recent price\n", price.AssetId)
			continue
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", price.AssetId, price.Price)
	}
	return nil
}
