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

package keystore

import "errors"

// ErrKeyNotFound indicates that the store holds no key for the requested account
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidKey indicates a key that could not be decoded or is not a valid curve point
var ErrInvalidKey = errors.New("invalid key")

// ErrUnsupportedKeyType indicates a key type other than ed25519
var ErrUnsupportedKeyType = errors.New("unsupported key type")
