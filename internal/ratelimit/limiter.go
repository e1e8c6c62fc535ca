// Package ratelimit counts requests per key in fixed windows. The auth
// endpoints use it to slow down credential guessing.
package ratelimit

import (
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type Decision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

type Limiter interface {
	Allow(key string, limit int, window time.Duration) Decision
	Close()
}

type memoryLimiter struct {
	mu      sync.Mutex
	entries map[string]window
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

type window struct {
	count int
	end   time.Time
}

// NewMemory returns a process-local limiter. Counts are not shared between
// replicas; use NewRedis for that.
func NewMemory() Limiter {
	return newMemory(time.Now, true)
}

func newMemory(now func() time.Time, sweep bool) *memoryLimiter {
	l := &memoryLimiter{
		entries: make(map[string]window),
		now:     now,
		stopCh:  make(chan struct{}),
	}
	if sweep {
		go l.sweepLoop()
	}
	return l
}

func (l *memoryLimiter) Allow(key string, limit int, win time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if win <= 0 {
		win = time.Minute
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.entries[key]
	if !ok || !now.Before(w.end) {
		w = window{count: 1, end: now.Add(win)}
		l.entries[key] = w
		return Decision{Allowed: true, Count: w.count, WindowEnd: w.end}
	}
	if w.count >= limit {
		return Decision{Allowed: false, Count: w.count, WindowEnd: w.end}
	}
	w.count++
	l.entries[key] = w
	return Decision{Allowed: true, Count: w.count, WindowEnd: w.end}
}

func (l *memoryLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(l.now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *memoryLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.entries {
		if !now.Before(w.end) {
			delete(l.entries, key)
		}
	}
}

func (l *memoryLimiter) Close() {
	l.once.Do(func() { close(l.stopCh) })
}
