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

import (
	"crypto/ed25519"
	"fmt"
	"io"
	"strings"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// KeyType identifies the curve of a key. The numeric value is part of the transaction wire format
type KeyType uint8

const (
	KeyTypeEd25519 KeyType = 0
)

const keyTypeEd25519Prefix = "ed25519"

func (k KeyType) String() string {
	switch k {
	case KeyTypeEd25519:
		return keyTypeEd25519Prefix
	default:
		return fmt.Sprintf("KeyType(%d)", uint8(k))
	}
}

// PublicKey is a typed public key
type PublicKey struct {
	Type KeyType
	Data [ed25519.PublicKeySize]byte
}

// ParsePublicKey parses a public key in the "ed25519:<base58>" form. Keys without a type prefix are
// assumed to be ed25519
func ParsePublicKey(s string) (PublicKey, error) {
	keyType, data, err := splitKeyString(s)
	if err != nil {
		return PublicKey{}, err
	}
	if len(data) != ed25519.PublicKeySize {
		return PublicKey{}, fmt.Errorf(
			"%w: public key must be %d bytes, got %d",
			ErrInvalidKey,
			ed25519.PublicKeySize,
			len(data),
		)
	}
	if err := validatePoint(data); err != nil {
		return PublicKey{}, err
	}
	ret := PublicKey{Type: keyType}
	copy(ret.Data[:], data)
	return ret, nil
}

func (p PublicKey) String() string {
	return p.Type.String() + ":" + base58.Encode(p.Data[:])
}

// Verify reports whether sig is a valid signature of msg by this key
func (p PublicKey) Verify(msg []byte, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(p.Data[:]), msg, sig)
}

// KeyPair is an ed25519 signing key and its public key
type KeyPair struct {
	publicKey  PublicKey
	privateKey ed25519.PrivateKey
}

// NewKeyPair wraps an existing ed25519 private key
func NewKeyPair(privateKey ed25519.PrivateKey) (*KeyPair, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf(
			"%w: private key must be %d bytes, got %d",
			ErrInvalidKey,
			ed25519.PrivateKeySize,
			len(privateKey),
		)
	}
	pub, ok := privateKey.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: unable to derive public key", ErrInvalidKey)
	}
	k := &KeyPair{
		publicKey: PublicKey{
			Type: KeyTypeEd25519,
		},
		privateKey: privateKey,
	}
	copy(k.publicKey.Data[:], pub)
	return k, nil
}

// GenerateKeyPair creates a new random key pair using entropy from rand
func GenerateKeyPair(rand io.Reader) (*KeyPair, error) {
	_, privateKey, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, err
	}
	return NewKeyPair(privateKey)
}

// ParseKeyPair parses a secret key in the "ed25519:<base58>" form. Both the 64-byte expanded form
// written by near-cli and a bare 32-byte seed are accepted
func ParseKeyPair(s string) (*KeyPair, error) {
	_, data, err := splitKeyString(s)
	if err != nil {
		return nil, err
	}
	switch len(data) {
	case ed25519.SeedSize:
		return NewKeyPair(ed25519.NewKeyFromSeed(data))
	case ed25519.PrivateKeySize:
		privateKey := ed25519.NewKeyFromSeed(data[:ed25519.SeedSize])
		// The trailing half is the public key and must match the one derived from the seed
		if string(privateKey[ed25519.SeedSize:]) != string(data[ed25519.SeedSize:]) {
			return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKey)
		}
		return NewKeyPair(privateKey)
	default:
		return nil, fmt.Errorf(
			"%w: secret key must be %d or %d bytes, got %d",
			ErrInvalidKey,
			ed25519.SeedSize,
			ed25519.PrivateKeySize,
			len(data),
		)
	}
}

// PublicKey returns the public half of the key pair
func (k *KeyPair) PublicKey() PublicKey {
	return k.publicKey
}

// Sign signs msg with the private key
func (k *KeyPair) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(k.privateKey, msg), nil
}

// SecretString returns the secret key in the "ed25519:<base58>" form used by credential files
func (k *KeyPair) SecretString() string {
	return keyTypeEd25519Prefix + ":" + base58.Encode(k.privateKey)
}

func splitKeyString(s string) (KeyType, []byte, error) {
	s = strings.TrimSpace(s)
	encoded := s
	if prefix, rest, found := strings.Cut(s, ":"); found {
		if strings.ToLower(prefix) != keyTypeEd25519Prefix {
			return 0, nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, prefix)
		}
		encoded = rest
	}
	if encoded == "" {
		return 0, nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	data := base58.Decode(encoded)
	// base58.Decode signals invalid input with an empty result
	if len(data) == 0 {
		return 0, nil, fmt.Errorf("%w: invalid base58 encoding", ErrInvalidKey)
	}
	return KeyTypeEd25519, data, nil
}

func validatePoint(data []byte) error {
	if _, err := new(edwards25519.Point).SetBytes(data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return nil
}
