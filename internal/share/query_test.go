package share

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitRecorder collects committed values for assertions across goroutines.
type commitRecorder struct {
	mu      sync.Mutex
	commits []string
}

func (r *commitRecorder) record(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, query)
}

func (r *commitRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commits...)
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	require.Fail(t, "condition not met before deadline")
}

func TestQueryRawUpdatesImmediately(t *testing.T) {
	q := NewQuerySession(time.Hour, nil)
	defer q.Close()

	q.SetRaw("bo")

	assert.Equal(t, "bo", q.Raw())
	assert.Equal(t, "", q.Committed(), "commit must wait for the quiet period")
}

func TestQueryDebounceCoalescesKeystrokes(t *testing.T) {
	rec := &commitRecorder{}
	q := NewQuerySession(20*time.Millisecond, rec.record)
	defer q.Close()

	// Five keystrokes in quick succession, each inside the quiet period of
	// the previous one.
	for _, text := range []string{"b", "bo", "bob", "bob@", "bob@e"} {
		q.SetRaw(text)
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, func() bool { return q.Committed() == "bob@e" })

	assert.Equal(t, []string{"bob@e"}, rec.all(), "intermediate values must never commit")
}

func TestQueryDebounceCommitsEachQuietPeriod(t *testing.T) {
	rec := &commitRecorder{}
	q := NewQuerySession(10*time.Millisecond, rec.record)
	defer q.Close()

	q.SetRaw("alice")
	waitFor(t, func() bool { return q.Committed() == "alice" })

	q.SetRaw("bob")
	waitFor(t, func() bool { return q.Committed() == "bob" })

	assert.Equal(t, []string{"alice", "bob"}, rec.all())
}

func TestQueryResetCancelsPendingCommit(t *testing.T) {
	rec := &commitRecorder{}
	q := NewQuerySession(20*time.Millisecond, rec.record)
	defer q.Close()

	q.SetRaw("bob")
	q.Reset()

	assert.Equal(t, "", q.Raw())
	assert.Equal(t, "", q.Committed())

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.all(), "a reset query must not commit later")
}

func TestQueryCloseCancelsPendingCommit(t *testing.T) {
	rec := &commitRecorder{}
	q := NewQuerySession(20*time.Millisecond, rec.record)

	q.SetRaw("bob")
	q.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.all())

	// Mutation after close is ignored.
	q.SetRaw("late")
	assert.Equal(t, "", q.Raw())
}

func TestQueryCloseEmptiesCommittedValue(t *testing.T) {
	q := NewQuerySession(5*time.Millisecond, nil)

	q.SetRaw("bobby")
	waitFor(t, func() bool { return q.Committed() == "bobby" })

	q.Close()

	assert.Equal(t, "", q.Raw())
	assert.Equal(t, "", q.Committed())
	assert.False(t, q.SearchEnabled())
}

func TestQuerySearchEnabledGate(t *testing.T) {
	q := NewQuerySession(5*time.Millisecond, nil)
	defer q.Close()

	// Four characters: at the threshold, still gated.
	q.SetRaw("bobb")
	waitFor(t, func() bool { return q.Committed() == "bobb" })
	assert.False(t, q.SearchEnabled())

	// Five characters: past the threshold.
	q.SetRaw("bobby")
	waitFor(t, func() bool { return q.Committed() == "bobby" })
	assert.True(t, q.SearchEnabled())
}

func TestQuerySearchEnabledCountsRunes(t *testing.T) {
	q := NewQuerySession(5*time.Millisecond, nil)
	defer q.Close()

	// Four runes but five bytes: still below the gate.
	q.SetRaw("héll")
	waitFor(t, func() bool { return q.Committed() == "héll" })
	assert.False(t, q.SearchEnabled())

	q.SetRaw("héllo")
	waitFor(t, func() bool { return q.Committed() == "héllo" })
	assert.True(t, q.SearchEnabled())
}
