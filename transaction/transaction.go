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

// Package transaction builds and signs ledger transactions carrying contract function calls.
//
// Transactions are serialized with borsh, hashed with SHA-256 and the hash is
// signed with the sender's ed25519 key, which is what the node expects from
// broadcast_tx_commit.
package transaction

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/gonear/keystore"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// HashSize is the size of block and transaction hashes
const HashSize = sha256.Size

// Action type indexes in the wire format
const (
	actionTypeFunctionCall uint8 = 2
)

// ErrInvalidTransaction indicates a transaction that cannot be serialized
var ErrInvalidTransaction = errors.New("invalid transaction")

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Signer produces signatures for transactions
type Signer interface {
	PublicKey() keystore.PublicKey
	Sign(msg []byte) ([]byte, error)
}

// Action is an operation carried by a transaction
type Action interface {
	actionType() uint8
	serialize(w *borshWriter) error
}

// FunctionCall calls a change method on the receiver contract
type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	// Deposit is the amount attached in yoctoNEAR. nil means zero
	Deposit *big.Int
}

func (f *FunctionCall) actionType() uint8 {
	return actionTypeFunctionCall
}

func (f *FunctionCall) serialize(w *borshWriter) error {
	if f.MethodName == "" {
		return fmt.Errorf("%w: empty method name", ErrInvalidTransaction)
	}
	if f.Deposit != nil && (f.Deposit.Sign() < 0 || f.Deposit.Cmp(maxU128) > 0) {
		return fmt.Errorf("%w: deposit out of range", ErrInvalidTransaction)
	}
	w.writeString(f.MethodName)
	w.writeBytes(f.Args)
	w.writeU64(f.Gas)
	w.writeU128(f.Deposit)
	return nil
}

// Transaction is an unsigned transaction
type Transaction struct {
	SignerId   string
	PublicKey  keystore.PublicKey
	Nonce      uint64
	ReceiverId string
	BlockHash  [HashSize]byte
	Actions    []Action
}

// ParseBlockHash decodes a base58 block hash as reported by the node
func ParseBlockHash(s string) ([HashSize]byte, error) {
	var ret [HashSize]byte
	data := base58.Decode(s)
	if len(data) != HashSize {
		return ret, fmt.Errorf("%w: invalid block hash %q", ErrInvalidTransaction, s)
	}
	copy(ret[:], data)
	return ret, nil
}

// Serialize returns the borsh encoding of the transaction
func (t *Transaction) Serialize() ([]byte, error) {
	w := &borshWriter{}
	if err := t.serialize(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (t *Transaction) serialize(w *borshWriter) error {
	if t.SignerId == "" || t.ReceiverId == "" {
		return fmt.Errorf("%w: signer and receiver are required", ErrInvalidTransaction)
	}
	if len(t.Actions) == 0 {
		return fmt.Errorf("%w: no actions", ErrInvalidTransaction)
	}
	w.writeString(t.SignerId)
	w.writeU8(uint8(t.PublicKey.Type))
	w.writeFixed(t.PublicKey.Data[:])
	w.writeU64(t.Nonce)
	w.writeString(t.ReceiverId)
	w.writeFixed(t.BlockHash[:])
	w.writeU32(uint32(len(t.Actions)))
	for _, action := range t.Actions {
		w.writeU8(action.actionType())
		if err := action.serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Hash returns the SHA-256 hash of the serialized transaction, which is what gets signed
func (t *Transaction) Hash() ([HashSize]byte, error) {
	data, err := t.Serialize()
	if err != nil {
		return [HashSize]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Sign signs the transaction hash with the provided signer
func (t *Transaction) Sign(signer Signer) (*SignedTransaction, error) {
	if signer.PublicKey() != t.PublicKey {
		return nil, fmt.Errorf("%w: signer key does not match transaction key", ErrInvalidTransaction)
	}
	hash, err := t.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(hash[:])
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: unexpected signature size %d", ErrInvalidTransaction, len(sig))
	}
	ret := &SignedTransaction{
		Transaction: *t,
		Hash:        hash,
	}
	copy(ret.Signature[:], sig)
	return ret, nil
}

// SignedTransaction is a transaction together with its signature
type SignedTransaction struct {
	Transaction Transaction
	Hash        [HashSize]byte
	Signature   [ed25519.SignatureSize]byte
}

// Serialize returns the borsh encoding of the signed transaction
func (s *SignedTransaction) Serialize() ([]byte, error) {
	w := &borshWriter{}
	if err := s.Transaction.serialize(w); err != nil {
		return nil, err
	}
	w.writeU8(uint8(s.Transaction.PublicKey.Type))
	w.writeFixed(s.Signature[:])
	return w.Bytes(), nil
}

// HashString returns the transaction hash in the base58 form used by explorers and the node
func (s *SignedTransaction) HashString() string {
	return base58.Encode(s.Hash[:])
}
