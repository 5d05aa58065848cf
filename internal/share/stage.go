package share

import "sync"

// SelectionStage holds the users chosen but not yet submitted. Entries are
// unique by identity and keep insertion order. The stage is the only mutable
// local state that crosses the search/browse boundary: it is created empty
// when a picker opens and cleared on submit or close, whichever happens
// first.
type SelectionStage struct {
	mu      sync.Mutex
	entries []Entry
	byID    map[string]struct{}
}

// NewSelectionStage returns an empty stage.
func NewSelectionStage() *SelectionStage {
	return &SelectionStage{byID: make(map[string]struct{})}
}

// Add appends an entry unless one with the same identity is already staged.
// Duplicate adds are silent no-ops.
func (s *SelectionStage) Add(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entry.Identity()
	if _, ok := s.byID[id]; ok {
		return
	}
	s.byID[id] = struct{}{}
	s.entries = append(s.entries, entry)
}

// Remove drops the entry with the given identity. Removing an absent id is a
// no-op, never an error.
func (s *SelectionStage) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, entry := range s.entries {
		if entry.Identity() == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
}

// Clear empties the stage unconditionally.
func (s *SelectionStage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.byID = make(map[string]struct{})
}

// IsEmpty reports whether nothing is staged.
func (s *SelectionStage) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) == 0
}

// Len returns the number of staged entries.
func (s *SelectionStage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the staged entries in insertion order.
func (s *SelectionStage) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
