package scanner

import (
	"fmt"
	"sync"
	"time"
)

// Throttler provides a fixed per-request delay and, when adaptive, backs
// off exponentially on 429/503 responses or repeated connection errors. When
// responses are healthy again it gradually recovers to the base delay.
//
// A nil *Throttler is valid and never delays.
type Throttler struct {
	mu           sync.Mutex
	baseDelay    time.Duration
	currentDelay time.Duration
	maxDelay     time.Duration
	consecutive  int // consecutive throttle signals
	enabled      bool
	notify       func(msg string)
}

// NewThrottler creates a throttler. notify receives back-off messages and
// may be nil.
func NewThrottler(baseDelay time.Duration, adaptive bool, notify func(msg string)) *Throttler {
	if notify == nil {
		notify = func(string) {}
	}
	return &Throttler{
		baseDelay:    baseDelay,
		currentDelay: baseDelay,
		maxDelay:     30 * time.Second,
		enabled:      adaptive,
		notify:       notify,
	}
}

// Delay returns the current per-request delay. Workers call this before
// each request.
func (t *Throttler) Delay() time.Duration {
	if t == nil {
		return 0
	}
	if !t.enabled {
		return t.baseDelay
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentDelay
}

// RecordStatus updates the throttler based on a final response status code.
func (t *Throttler) RecordStatus(statusCode int) {
	if t == nil || !t.enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if statusCode == 429 || statusCode == 503 {
		t.consecutive++
		if t.backOff() {
			t.notify(fmt.Sprintf("Rate limited (HTTP %d), backing off to %s/req", statusCode, t.currentDelay))
		}
		return
	}

	if t.consecutive > 0 {
		t.consecutive = 0
		// Halve toward base, but not below base.
		newDelay := t.currentDelay / 2
		if newDelay < t.baseDelay {
			newDelay = t.baseDelay
		}
		if newDelay != t.currentDelay {
			t.currentDelay = newDelay
			if t.currentDelay > t.baseDelay {
				t.notify(fmt.Sprintf("Recovering, delay now %s/req", t.currentDelay))
			}
		}
	}
}

// RecordError flags a connection error (timeout, reset) as a possible
// rate limit signal. Three in a row trigger a back-off.
func (t *Throttler) RecordError() {
	if t == nil || !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutive++
	if t.consecutive >= 3 && t.backOff() {
		t.notify(fmt.Sprintf("Multiple errors, backing off to %s/req", t.currentDelay))
	}
}

// backOff doubles the current delay (min 500ms, max maxDelay). Callers hold
// t.mu. It reports whether the delay changed.
func (t *Throttler) backOff() bool {
	newDelay := t.currentDelay * 2
	if newDelay < 500*time.Millisecond {
		newDelay = 500 * time.Millisecond
	}
	if newDelay > t.maxDelay {
		newDelay = t.maxDelay
	}
	if newDelay == t.currentDelay {
		return false
	}
	t.currentDelay = newDelay
	return true
}
