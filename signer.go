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

package near

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gonear/keystore"
)

// Signer produces signatures on behalf of an account. *keystore.KeyPair implements it
type Signer interface {
	PublicKey() keystore.PublicKey
	Sign(msg []byte) ([]byte, error)
}

// resolveSigner returns the signer for the connection account, using the explicit signer if one
// was provided and the credential store otherwise
func (c *Connection) resolveSigner() (Signer, error) {
	if c.accountId == "" {
		return nil, fmt.Errorf("%w: no account ID", ErrUnauthorized)
	}
	if c.signer != nil {
		return c.signer, nil
	}
	key, err := c.keyStore.GetKey(c.networkId, c.accountId)
	if err != nil {
		if errors.Is(err, keystore.ErrKeyNotFound) {
			return nil, fmt.Errorf(
				"%w: no key for account %s on network %s",
				ErrUnauthorized,
				c.accountId,
				c.networkId,
			)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return key, nil
}
