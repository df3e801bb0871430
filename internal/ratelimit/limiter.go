// Package ratelimit paces queries against upstream fare sources with one
// token bucket per source.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// ErrDeadline is returned when the next token would arrive after the
// context deadline.
var ErrDeadline = errors.New("rate limit wait exceeds deadline")

type Config struct {
	RequestsPerSecond float64
	Burst             int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

func (c Config) sanitize() Config {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	return c
}

// Limiter hands out a bucket per source name, created on first use.
type Limiter struct {
	mu        sync.RWMutex
	buckets   map[string]*rate.Limiter
	config    Config
	throttled atomic.Int64
}

func New(config Config) *Limiter {
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		config:  config.sanitize(),
	}
}

func (l *Limiter) Bucket(source string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[source]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.buckets[source]; ok {
		return b
	}
	b = rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)
	l.buckets[source] = b
	return b
}

// Wait blocks until source's bucket yields a token. It fails fast when the
// token would only arrive after ctx's deadline.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	r := l.Bucket(source).Reserve()
	if !r.OK() {
		return fmt.Errorf("%s: %w", source, ErrDeadline)
	}

	delay := r.Delay()
	if delay == 0 {
		return nil
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
		r.Cancel()
		return fmt.Errorf("%s: %w", source, ErrDeadline)
	}
	l.throttled.Add(1)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Throttled counts the waits that had to sleep for a token.
func (l *Limiter) Throttled() int64 {
	return l.throttled.Load()
}
