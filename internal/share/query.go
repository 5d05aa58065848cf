package share

import (
	"sync"
	"time"

	"github.com/rvveber/docs/pkg/docs"
)

// QuerySession owns the raw input text and a debounced committed query. The
// raw value updates synchronously on every keystroke; the committed value
// follows after a quiet period measured from the last keystroke
// (trailing-edge debounce, restarted on every call, at most one pending
// commit at a time). The timer is an owned resource: it is cancelled when
// superseded, on Reset, and on Close, never left as an ambient timeout.
type QuerySession struct {
	mu        sync.Mutex
	raw       string
	committed string
	delay     time.Duration
	timer     *time.Timer
	gen       uint64
	closed    bool
	onCommit  func(query string)
}

// NewQuerySession creates a session with the given debounce delay. A zero
// delay falls back to the default. onCommit, if non-nil, fires after each
// commit with the committed value; it runs on the timer goroutine.
func NewQuerySession(delay time.Duration, onCommit func(query string)) *QuerySession {
	if delay <= 0 {
		delay = docs.SearchDebounceDelay
	}
	return &QuerySession{delay: delay, onCommit: onCommit}
}

// SetRaw records a keystroke. The raw value changes immediately; the commit
// is scheduled after the quiet period, superseding any pending commit.
func (q *QuerySession) SetRaw(text string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.raw = text
	if q.timer != nil {
		q.timer.Stop()
	}
	q.gen++
	gen := q.gen
	q.timer = time.AfterFunc(q.delay, func() {
		q.commit(gen, text)
	})
}

// commit applies a scheduled value. Stale timers (superseded or fired after
// close) are discarded via the generation counter.
func (q *QuerySession) commit(gen uint64, text string) {
	q.mu.Lock()
	if q.closed || gen != q.gen {
		q.mu.Unlock()
		return
	}
	q.committed = text
	onCommit := q.onCommit
	q.mu.Unlock()

	if onCommit != nil {
		onCommit(text)
	}
}

// Reset clears both fields synchronously and cancels any pending commit.
// Used after a selection or a successful invite.
func (q *QuerySession) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.raw = ""
	q.committed = ""
	q.gen++
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}

// Raw returns the immediate input text.
func (q *QuerySession) Raw() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.raw
}

// Committed returns the debounced query.
func (q *QuerySession) Committed() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.committed
}

// SearchEnabled reports whether the committed query has passed the minimum
// length gate. Below the gate no directory call is issued at all.
func (q *QuerySession) SearchEnabled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len([]rune(q.committed)) > docs.MinSearchQueryLength
}

// Close empties the session, cancels the pending commit, and bars all
// further mutation. A closed session reads as blank, like the modal it
// belonged to.
func (q *QuerySession) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.raw = ""
	q.committed = ""
	q.gen++
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}
