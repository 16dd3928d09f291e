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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

var (
	errRetryable = errors.New("retryable")
	errFatal     = errors.New("fatal")
)

func fastRetrier(opts ...OptionFunc) *Retrier {
	return New(
		append(
			[]OptionFunc{
				WithInitialInterval(time.Millisecond),
				WithMaxInterval(2 * time.Millisecond),
				WithJitter(false),
			},
			opts...,
		)...,
	)
}

func TestRetrier_Do(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("success on first attempt", func(t *testing.T) {
		r := fastRetrier()
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("success after retries", func(t *testing.T) {
		var delays []time.Duration
		r := fastRetrier(
			WithOnRetry(func(attempt int, delay time.Duration, err error) {
				delays = append(delays, delay)
			}),
		)
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errRetryable
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		r := fastRetrier(WithMaxRetries(2))
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errRetryable
		})
		assert.ErrorIs(t, err, errRetryable)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry filtered errors", func(t *testing.T) {
		r := fastRetrier(
			WithRetryIf(func(err error) bool {
				return errors.Is(err, errRetryable)
			}),
		)
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errFatal
		})
		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, attempts)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		r := New(WithInitialInterval(time.Hour), WithMaxInterval(time.Hour))
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := r.Do(ctx, func(ctx context.Context) error {
			attempts++
			cancel()
			return errRetryable
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})
}

func TestDoWithData(t *testing.T) {
	r := fastRetrier()
	attempts := 0
	result, err := DoWithData(r, context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", errRetryable
		}
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
}
