package ratelimit

import (
	"sync"
	"time"

	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
)

// Config configures a Limiter.
type Config struct {
	// Name labels drops in metrics ("chat", "line").
	Name string

	Burst      float64 // bucket capacity per key
	RefillRate float64 // tokens per second per key

	// CleanupPeriod is how often idle keys are dropped. Zero disables cleanup.
	CleanupPeriod time.Duration

	Metrics *metrics.Metrics
}

// Limiter keeps one Bucket per key (client IP, LINE user ID).
// A Limiter with Burst <= 0 allows everything.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*Bucket
	cfg     Config
	stopCh  chan struct{}
	once    sync.Once
}

// New creates a Limiter and starts its cleanup loop. Call Stop when done.
func New(cfg Config) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*Bucket),
		cfg:     cfg,
		stopCh:  make(chan struct{}),
	}
	if cfg.CleanupPeriod > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Enabled reports whether the limiter throttles anything.
func (l *Limiter) Enabled() bool {
	return l != nil && l.cfg.Burst > 0
}

// Allow reports whether key may make another request. Empty keys are
// never throttled.
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() || key == "" {
		return true
	}
	if l.bucket(key).Allow() {
		return true
	}
	l.cfg.Metrics.RecordRateLimited(l.cfg.Name)
	return false
}

func (l *Limiter) bucket(key string) *Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = NewBucket(l.cfg.Burst, l.cfg.RefillRate)
		l.buckets[key] = b
	}
	return b
}

// ActiveKeys returns the number of tracked keys.
func (l *Limiter) ActiveKeys() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep drops keys whose buckets have refilled.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.Full() {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Stop ends the cleanup loop. Safe to call more than once.
func (l *Limiter) Stop() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.stopCh) })
}
