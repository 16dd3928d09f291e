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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const credentialFileExt = ".json"

// credentialFile is the on-disk format written by near-cli
type credentialFile struct {
	AccountId  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key,omitempty"`
	// Older near-cli releases used this name for the private key
	SecretKey string `json:"secret_key,omitempty"`
}

// FileSystemKeyStore is a KeyStore backed by unencrypted credential files laid out as
// <dir>/<networkId>/<accountId>.json
type FileSystemKeyStore struct {
	dir string
}

// NewFileSystemKeyStore returns a FileSystemKeyStore rooted at dir. The directory does not need to exist
// until a key is written
func NewFileSystemKeyStore(dir string) *FileSystemKeyStore {
	return &FileSystemKeyStore{
		dir: dir,
	}
}

// Dir returns the root directory of the store
func (s *FileSystemKeyStore) Dir() string {
	return s.dir
}

func (s *FileSystemKeyStore) keyPath(networkId string, accountId string) (string, error) {
	// Account IDs never contain path separators, so one that does is not a valid account
	for _, part := range []string{networkId, accountId} {
		if part == "" || part == "." || part == ".." ||
			strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid network or account ID: %q", part)
		}
	}
	return filepath.Join(s.dir, networkId, accountId+credentialFileExt), nil
}

func (s *FileSystemKeyStore) GetKey(networkId string, accountId string) (*KeyPair, error) {
	path, err := s.keyPath(networkId, accountId)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s on %s", ErrKeyNotFound, accountId, networkId)
		}
		return nil, fmt.Errorf("reading credential file: %w", err)
	}
	var cred credentialFile
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("%w: decoding credential file %s: %w", ErrInvalidKey, path, err)
	}
	secret := cred.PrivateKey
	if secret == "" {
		secret = cred.SecretKey
	}
	key, err := ParseKeyPair(secret)
	if err != nil {
		return nil, fmt.Errorf("credential file %s: %w", path, err)
	}
	if cred.PublicKey != "" {
		pub, err := ParsePublicKey(cred.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("credential file %s: %w", path, err)
		}
		if pub != key.PublicKey() {
			return nil, fmt.Errorf(
				"%w: credential file %s: public key does not match private key",
				ErrInvalidKey,
				path,
			)
		}
	}
	return key, nil
}

func (s *FileSystemKeyStore) SetKey(networkId string, accountId string, key *KeyPair) error {
	if key == nil {
		return fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	path, err := s.keyPath(networkId, accountId)
	if err != nil {
		return err
	}
	data, err := json.Marshal(
		credentialFile{
			AccountId:  accountId,
			PublicKey:  key.PublicKey().String(),
			PrivateKey: key.SecretString(),
		},
	)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	return nil
}

func (s *FileSystemKeyStore) RemoveKey(networkId string, accountId string) error {
	path, err := s.keyPath(networkId, accountId)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}

func (s *FileSystemKeyStore) Accounts(networkId string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, networkId))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("listing credential directory: %w", err)
	}
	ret := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, credentialFileExt) {
			continue
		}
		ret = append(ret, strings.TrimSuffix(name, credentialFileExt))
	}
	slices.Sort(ret)
	return ret, nil
}
