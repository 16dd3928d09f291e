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

// Package rpc implements a JSON-RPC 2.0 client for the NEAR node API.
//
// Only the calls needed by a read-mostly contract client are covered: node
// status, view function calls, access key lookups and synchronous transaction
// submission. Transport failures wrap ErrUnreachable. Errors reported by the
// node are returned as *Error, which unwraps to a sentinel describing the
// cause where one is known.
package rpc
