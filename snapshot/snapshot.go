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

// Package snapshot persists fetched price quotes as CBOR.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/blinklabs-io/gonear/cbor"
	"github.com/blinklabs-io/gonear/identifier"
	"github.com/blinklabs-io/gonear/oracle"
)

// Version is the current snapshot format version
const Version = 1

// Upper bound on snapshot sizes accepted by Read
const maxSnapshotSize = 64 * 1024 * 1024

var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrCorrupt            = errors.New("corrupt snapshot")
)

// Quote is a price fetched for a symbol at a point in time
type Quote struct {
	Symbol     string
	Identifier identifier.Identifier
	Price      oracle.Price
	// FetchedAt is stored with whole-second precision. Sub-second parts are dropped on write
	FetchedAt time.Time
}

// Method returns the derivation method of the quote identifier
func (q Quote) Method() identifier.Method {
	return q.Identifier.Method()
}

type snapshotCbor struct {
	cbor.StructAsArray
	Version uint
	Quotes  []quoteCbor
}

type quoteCbor struct {
	cbor.StructAsArray
	Symbol      string
	Method      identifier.Method
	Identifier  []byte
	Price       cbor.DecimalFraction
	Conf        uint64
	PublishTime time.Time
	FetchedAt   time.Time
}

func (q Quote) toCbor() quoteCbor {
	return quoteCbor{
		Symbol:      q.Symbol,
		Method:      q.Identifier.Method(),
		Identifier:  q.Identifier.Bytes(),
		Price:       cbor.NewDecimalFraction(q.Price.Price, int64(q.Price.Expo)),
		Conf:        q.Price.Conf,
		PublishTime: q.Price.PublishedAt(),
		FetchedAt:   q.FetchedAt.UTC(),
	}
}

func (q quoteCbor) toQuote() (Quote, error) {
	var id identifier.Identifier
	switch q.Method {
	case identifier.MethodDigest, identifier.MethodTruncatePad:
		// Derived identifiers are recomputed from the symbol and must match what was stored
		id = identifier.Derive(q.Symbol, q.Method)
		if !bytes.Equal(id.Bytes(), q.Identifier) {
			return Quote{}, fmt.Errorf(
				"%w: identifier for %q does not match its %s derivation",
				ErrCorrupt,
				q.Symbol,
				q.Method,
			)
		}
	case identifier.MethodPublished:
		var err error
		id, err = identifier.FromBytes(q.Identifier)
		if err != nil {
			return Quote{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	default:
		return Quote{}, fmt.Errorf("%w: unknown identifier method %d", ErrCorrupt, q.Method)
	}
	if q.Price.Exponent < -(1<<31) || q.Price.Exponent > (1<<31)-1 {
		return Quote{}, fmt.Errorf("%w: price exponent out of range", ErrCorrupt)
	}
	return Quote{
		Symbol:     q.Symbol,
		Identifier: id,
		Price: oracle.Price{
			Price:       q.Price.Mantissa,
			Conf:        q.Conf,
			Expo:        int32(q.Price.Exponent),
			PublishTime: q.PublishTime.Unix(),
		},
		FetchedAt: q.FetchedAt.UTC(),
	}, nil
}

// Write encodes the quotes to w
func Write(w io.Writer, quotes []Quote) error {
	tmp := snapshotCbor{
		Version: Version,
		Quotes:  make([]quoteCbor, 0, len(quotes)),
	}
	for _, quote := range quotes {
		tmp.Quotes = append(tmp.Quotes, quote.toCbor())
	}
	data, err := cbor.Encode(&tmp)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Read decodes quotes written by Write
func Read(r io.Reader) ([]Quote, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSnapshotSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if len(data) > maxSnapshotSize {
		return nil, fmt.Errorf("%w: snapshot too large", ErrCorrupt)
	}
	var tmp snapshotCbor
	n, err := cbor.Decode(data, &tmp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(data)-n)
	}
	if tmp.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, tmp.Version)
	}
	ret := make([]Quote, 0, len(tmp.Quotes))
	for _, quote := range tmp.Quotes {
		q, err := quote.toQuote()
		if err != nil {
			return nil, err
		}
		ret = append(ret, q)
	}
	return ret, nil
}

// WriteFile writes the quotes to path, replacing any existing file once the new contents are complete
func WriteFile(path string, quotes []Quote) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)
	if err := Write(tmpFile, quotes); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ReadFile reads quotes from path
func ReadFile(path string) ([]Quote, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
