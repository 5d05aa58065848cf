package share

import (
	"context"
	"sync"
)

// Page is one fetched page of a paginated listing. Count is the total across
// all pages, or -1 when the backend does not report one. Next is the opaque
// cursor of the following page; empty means exhausted.
type Page[T any] struct {
	Items []T
	Count int
	Next  string
}

// FetchFunc retrieves one page. An empty cursor means page one.
type FetchFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Collection accumulates pages of a paginated listing in fetch order. Pages
// are appended strictly in request order and at most one fetch is
// outstanding at any time, so rapid repeated load-more activations cannot
// duplicate or interleave pages. A failed fetch leaves already-accumulated
// items intact and is retryable. Invalidate and Close bump a generation
// counter, so a fetch that completes after either one is discarded instead
// of landing in the reset collection. One picker session owns two
// independent instances, one for accesses and one for invitations, both
// scoped to a document and discarded when the session closes.
type Collection[T any] struct {
	mu            sync.Mutex
	fetch         FetchFunc[T]
	items         []T
	knownCount    int
	next          string
	hasMore       bool
	started       bool
	inFlight      bool
	closed        bool
	gen           uint64
	refetchQueued bool
	lastErr       error
}

// NewCollection creates an idle collection around a fetch function.
func NewCollection[T any](fetch FetchFunc[T]) *Collection[T] {
	return &Collection[T]{fetch: fetch, knownCount: -1}
}

// FetchInitial loads page one, replacing any previously accumulated items.
// A failure keeps the old items and records the error for Err.
func (c *Collection[T]) FetchInitial(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || c.inFlight {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	gen := c.gen
	fetch := c.fetch
	c.mu.Unlock()

	page, err := fetch(ctx, "")

	c.mu.Lock()
	c.inFlight = false
	if c.closed {
		// The owning session is gone; discard the result.
		c.mu.Unlock()
		return nil
	}
	if gen != c.gen {
		return c.finishStale(ctx)
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	c.items = append([]T(nil), page.Items...)
	c.knownCount = page.Count
	c.next = page.Next
	c.hasMore = page.Next != ""
	c.started = true
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// FetchNext appends the next page to the accumulated items. It is a no-op
// when there is nothing more to fetch or a fetch is already in flight. The
// boolean reports whether a page was actually applied.
func (c *Collection[T]) FetchNext(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.closed || c.inFlight || !c.hasMore {
		c.mu.Unlock()
		return false, nil
	}
	c.inFlight = true
	gen := c.gen
	cursor := c.next
	fetch := c.fetch
	c.mu.Unlock()

	page, err := fetch(ctx, cursor)

	c.mu.Lock()
	c.inFlight = false
	if c.closed {
		c.mu.Unlock()
		return false, nil
	}
	if gen != c.gen {
		// An Invalidate superseded this page while it was in flight.
		return false, c.finishStale(ctx)
	}
	if err != nil {
		// Accumulated items stay intact; the caller may retry.
		c.lastErr = err
		c.mu.Unlock()
		return true, err
	}
	c.items = append(c.items, page.Items...)
	if page.Count > 0 {
		c.knownCount = page.Count
	}
	c.next = page.Next
	c.hasMore = page.Next != ""
	c.lastErr = nil
	c.mu.Unlock()
	return true, nil
}

// finishStale drops a superseded page and runs the page-one refetch an
// Invalidate queued behind the in-flight call, if any. Called with c.mu
// held; unlocks it.
func (c *Collection[T]) finishStale(ctx context.Context) error {
	refetch := c.refetchQueued
	c.refetchQueued = false
	c.mu.Unlock()
	if refetch {
		return c.FetchInitial(ctx)
	}
	return nil
}

// Invalidate discards everything and refetches page one. This is the
// explicit refresh command used after an invite lands, so new pending
// entries appear without a manual reload. If a fetch is in flight its result
// belongs to the old generation: it is discarded on completion and the
// page-one refetch runs right after it drains.
func (c *Collection[T]) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	c.items = nil
	c.knownCount = -1
	c.next = ""
	c.hasMore = false
	c.started = false
	if c.inFlight {
		c.refetchQueued = true
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.FetchInitial(ctx)
}

// Items returns a copy of the accumulated items in fetch order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// KnownCount returns the backend-reported total, or -1 when unknown.
func (c *Collection[T]) KnownCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.knownCount
}

// HasMore reports whether another page is available. The load-more
// affordance is only rendered while this is true.
func (c *Collection[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Err returns the error of the most recent failed fetch, or nil.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close marks the collection dead: in-flight fetches are discarded on
// completion and no further state mutation occurs.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
	c.refetchQueued = false
}
