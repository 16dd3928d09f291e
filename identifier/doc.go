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

// Package identifier derives the fixed-width price feed identifiers used as
// lookup keys by ledger-resident price oracles.
//
// Two derivation methods exist and they are not interchangeable: an oracle
// registry populated with one convention will not recognize identifiers built
// with the other. Every Identifier carries the method that produced it so that
// consumers can refuse a mismatched key before it reaches the network.
package identifier
