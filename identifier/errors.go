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

package identifier

import "errors"

// ErrInvalidLength indicates a raw identifier that is not exactly 32 bytes
var ErrInvalidLength = errors.New("identifier must be exactly 32 bytes")

// ErrInvalidHex indicates an identifier string that is not valid hex
var ErrInvalidHex = errors.New("invalid identifier hex")

// ErrUnknownMethod indicates a derivation method name that is not recognized
var ErrUnknownMethod = errors.New("unknown identifier method")
