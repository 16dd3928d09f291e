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

// Package retry re-runs operations that fail with retryable errors, with exponential backoff between attempts.
package retry

import (
	"context"
	"time"

	"github.com/jpillora/backoff"
)

const (
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 10 * time.Second
	defaultMultiplier      = 2.0
	defaultMaxRetries      = 3
)

// Retrier re-runs a function until it succeeds, fails with a non-retryable error, or runs out of attempts
type Retrier struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
	maxRetries      int
	jitter          bool
	retryIf         func(error) bool
	onRetry         func(attempt int, delay time.Duration, err error)
}

// OptionFunc is a type that represents functions that modify the Retrier config
type OptionFunc func(*Retrier)

// WithInitialInterval sets the delay before the first retry
func WithInitialInterval(d time.Duration) OptionFunc {
	return func(r *Retrier) {
		r.initialInterval = d
	}
}

// WithMaxInterval caps the delay between retries
func WithMaxInterval(d time.Duration) OptionFunc {
	return func(r *Retrier) {
		r.maxInterval = d
	}
}

// WithMultiplier sets the growth factor of the delay between retries
func WithMultiplier(m float64) OptionFunc {
	return func(r *Retrier) {
		r.multiplier = m
	}
}

// WithMaxRetries sets the number of retries after the first attempt. Zero disables retries
func WithMaxRetries(n int) OptionFunc {
	return func(r *Retrier) {
		r.maxRetries = n
	}
}

// WithJitter enables randomized delays
func WithJitter(jitter bool) OptionFunc {
	return func(r *Retrier) {
		r.jitter = jitter
	}
}

// WithRetryIf restricts retries to errors for which fn returns true. By default every error is retried
func WithRetryIf(fn func(error) bool) OptionFunc {
	return func(r *Retrier) {
		r.retryIf = fn
	}
}

// WithOnRetry specifies a function called before each retry
func WithOnRetry(fn func(attempt int, delay time.Duration, err error)) OptionFunc {
	return func(r *Retrier) {
		r.onRetry = fn
	}
}

// New creates a new Retrier with default values and optional overrides
func New(opts ...OptionFunc) *Retrier {
	r := &Retrier{
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		multiplier:      defaultMultiplier,
		maxRetries:      defaultMaxRetries,
		jitter:          true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds or a stop condition is reached, and returns the last error
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	b := &backoff.Backoff{
		Min:    r.initialInterval,
		Max:    r.maxInterval,
		Factor: r.multiplier,
		Jitter: r.jitter,
	}
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= r.maxRetries {
			return err
		}
		if r.retryIf != nil && !r.retryIf(err) {
			return err
		}
		delay := b.Duration()
		if r.onRetry != nil {
			r.onRetry(attempt+1, delay, err)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// DoWithData runs fn with retries and returns its value
func DoWithData[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}
