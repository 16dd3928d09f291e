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

// Package keystore provides credential stores holding the signing keys of ledger accounts.
//
// Keys are looked up by network ID and account ID. A store is only consulted
// when a signed call is made; read-only queries never need one.
package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// DefaultCredentialsDirName is the directory under the user's home used by near-cli
const DefaultCredentialsDirName = ".near-credentials"

// KeyStore holds signing keys keyed by network and account
type KeyStore interface {
	GetKey(networkId string, accountId string) (*KeyPair, error)
	SetKey(networkId string, accountId string, key *KeyPair) error
	RemoveKey(networkId string, accountId string) error
	Accounts(networkId string) ([]string, error)
}

// DefaultCredentialsDir returns the near-cli credentials directory in the user's home
func DefaultCredentialsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, DefaultCredentialsDirName), nil
}

// InMemoryKeyStore is a KeyStore that keeps keys in memory only. An empty InMemoryKeyStore is
// useful for read-only sessions
type InMemoryKeyStore struct {
	mutex sync.RWMutex
	keys  map[string]map[string]*KeyPair
}

// NewInMemoryKeyStore returns an empty InMemoryKeyStore
func NewInMemoryKeyStore() *InMemoryKeyStore {
	return &InMemoryKeyStore{
		keys: make(map[string]map[string]*KeyPair),
	}
}

func (s *InMemoryKeyStore) GetKey(networkId string, accountId string) (*KeyPair, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	key, ok := s.keys[networkId][accountId]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrKeyNotFound, accountId, networkId)
	}
	return key, nil
}

func (s *InMemoryKeyStore) SetKey(networkId string, accountId string, key *KeyPair) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.keys == nil {
		s.keys = make(map[string]map[string]*KeyPair)
	}
	if _, ok := s.keys[networkId]; !ok {
		s.keys[networkId] = make(map[string]*KeyPair)
	}
	s.keys[networkId][accountId] = key
	return nil
}

func (s *InMemoryKeyStore) RemoveKey(networkId string, accountId string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.keys[networkId], accountId)
	return nil
}

func (s *InMemoryKeyStore) Accounts(networkId string) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	ret := make([]string, 0, len(s.keys[networkId]))
	for accountId := range s.keys[networkId] {
		ret = append(ret, accountId)
	}
	slices.Sort(ret)
	return ret, nil
}
