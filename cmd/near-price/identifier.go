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
	"errors"

	"github.com/blinklabs-io/gonear/identifier"
	"github.com/blinklabs-io/gonear/snapshot"
)

func (a *app) identifier(args []string) error {
	if len(args) == 0 {
		return errors.New("you must specify at least one symbol")
	}
	ids := make([]identifierOutput, 0, len(args))
	for _, symbol := range args {
		ids = append(ids, identifierOutput{
			Symbol:      symbol,
			Digest:      identifier.Digest(symbol).String(),
			TruncatePad: identifier.TruncatePad(symbol).String(),
		})
	}
	return a.printIdentifiers(ids)
}

func (a *app) showSnapshot(args []string) error {
	if len(args) != 1 {
		return errors.New("you must specify a snapshot file")
	}
	quotes, err := snapshot.ReadFile(args[0])
	if err != nil {
		return err
	}
	return a.printQuotes(quotes)
}
