// Package ratelimit throttles chat clients with per-key token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// Bucket is a token bucket. It is safe for concurrent use.
type Bucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// NewBucket creates a full bucket holding capacity tokens and refilling
// refillRate tokens per second.
func NewBucket(capacity, refillRate float64) *Bucket {
	return newBucketAt(capacity, refillRate, time.Now)
}

func newBucketAt(capacity, refillRate float64, now func() time.Time) *Bucket {
	return &Bucket{
		tokens:     capacity,
		capacity:   capacity,
		refillRate: refillRate,
		lastRefill: now(),
		now:        now,
	}
}

// refill must be called with mu held.
func (b *Bucket) refill() {
	t := b.now()
	b.tokens += t.Sub(b.lastRefill).Seconds() * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = t
}

// Allow consumes one token if available.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Available returns the current token count.
func (b *Bucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return b.tokens
}

// Full reports whether the bucket has refilled to capacity, meaning its
// key has been idle long enough to be forgotten.
func (b *Bucket) Full() bool {
	return b.Available() >= b.capacity
}
