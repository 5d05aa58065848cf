package share

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rvveber/docs/pkg/docs"
)

// Group is one rendered list of the picker surface.
type Group[T any] struct {
	Label    string
	Elements []T
	HasMore  bool
}

// Groups is the picker's complete render state. In browse mode Invitations
// and Members are populated; in search mode Results holds the merged search
// output and Selected the staged entries.
type Groups struct {
	Mode        ViewMode
	Invitations Group[docs.Invitation]
	Members     Group[docs.Access]
	Results     Group[Entry]
	Selected    Group[Entry]
}

// PickerOptions tune a picker session. Zero values pick sensible defaults.
type PickerOptions struct {
	// DebounceDelay overrides the search debounce quiet period.
	DebounceDelay time.Duration
	// Role is attached to every invitation issued on submit.
	Role string
}

// Picker is one modal session of the access picker. It owns a query session,
// a selection stage, and two independent paginated collections (accesses and
// invitations) scoped to one document, and reconciles them with live
// directory search into a single permission-gated surface. A picker is
// created when the modal opens and closed when it closes; nothing is shared
// between sessions.
type Picker struct {
	mu   sync.Mutex
	api  API
	doc  docs.Document
	caps Capabilities

	query       *QuerySession
	stage       *SelectionStage
	accesses    *Collection[docs.Access]
	invitations *Collection[docs.Invitation]
	submitter   *Submitter

	ctx        context.Context
	results    []Entry
	searched   string
	submitting bool
	lastErr    error
	closed     bool
}

// NewPicker assembles a picker session for one document. The document's
// abilities gate everything: with accesses_view absent no fetch is ever
// issued, with accesses_manage absent submits are rejected.
func NewPicker(ctx context.Context, api API, doc docs.Document, opts PickerOptions) *Picker {
	p := &Picker{
		api:  api,
		doc:  doc,
		caps: ResolveCapabilities(doc),
		ctx:  ctx,
	}
	p.stage = NewSelectionStage()
	p.query = NewQuerySession(opts.DebounceDelay, p.searchCommitted)
	p.accesses = NewCollection(func(ctx context.Context, cursor string) (Page[docs.Access], error) {
		list, err := api.ListAccesses(ctx, doc.ID, cursor)
		if err != nil {
			return Page[docs.Access]{}, err
		}
		return Page[docs.Access]{Items: list.Results, Count: list.Count, Next: list.Next}, nil
	})
	p.invitations = NewCollection(func(ctx context.Context, cursor string) (Page[docs.Invitation], error) {
		list, err := api.ListInvitations(ctx, doc.ID, cursor)
		if err != nil {
			return Page[docs.Invitation]{}, err
		}
		return Page[docs.Invitation]{Items: list.Results, Count: -1, Next: list.Next}, nil
	})
	p.submitter = NewSubmitter(api, doc.ID, opts.Role)
	return p
}

// Capabilities returns the session's resolved view/manage capabilities.
func (p *Picker) Capabilities() Capabilities {
	return p.caps
}

// Open performs the initial page-one fetches for both collections. Without
// the view capability this is a no-op: no member surface exists at all.
func (p *Picker) Open(ctx context.Context) error {
	if !p.caps.CanView {
		return nil
	}
	if err := p.accesses.FetchInitial(ctx); err != nil {
		p.recordErr(err)
		return err
	}
	if err := p.invitations.FetchInitial(ctx); err != nil {
		p.recordErr(err)
		return err
	}
	return nil
}

// OnQueryChange records a keystroke. The committed query follows after the
// debounce quiet period and, if it passes the minimum length gate, triggers
// a directory search.
func (p *Picker) OnQueryChange(text string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if text == "" {
		// Clearing the input also clears stale results immediately.
		p.results = nil
	}
	p.mu.Unlock()

	p.query.SetRaw(text)
}

// searchCommitted runs on the debounce timer goroutine once a query commits.
// Below the length gate the merger operates on an empty directory result
// set, so only the synthetic email entry can appear.
func (p *Picker) searchCommitted(query string) {
	var results []docs.User
	if len([]rune(query)) > docs.MinSearchQueryLength {
		found, err := p.api.SearchUsers(p.ctx, query, p.doc.ID)
		if err != nil {
			p.mu.Lock()
			if !p.closed && p.query.Committed() == query {
				p.searched = query
				p.lastErr = fmt.Errorf("searching users: %w", err)
			}
			p.mu.Unlock()
			return
		}
		results = found
	}

	merged := MergeSearchResults(results, query)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.query.Committed() != query {
		// A newer query superseded this search while it was in flight.
		return
	}
	p.results = merged
	p.searched = query
	p.lastErr = nil
}

// SearchSettled reports whether the displayed results correspond to the
// current input: the debounce has committed it and the search for it (or the
// decision to skip one) has landed. Line-oriented hosts use this to know when
// a redraw will show final results.
func (p *Picker) SearchSettled() bool {
	if p.query.Raw() != p.query.Committed() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searched == p.query.Committed()
}

// OnSelect stages an entry and resets the query, returning toward browse
// mode only once the stage is emptied again.
func (p *Picker) OnSelect(entry Entry) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.results = nil
	p.searched = ""
	p.mu.Unlock()

	p.stage.Add(entry)
	p.query.Reset()
}

// OnRemoveSelected drops a staged entry by identity. Unknown ids are
// ignored.
func (p *Picker) OnRemoveSelected(id string) {
	p.stage.Remove(id)
}

// Submit issues one invitation per staged entry and then invalidates the
// invitation collection so the new pending entries appear without a manual
// reload. Failed entries stay staged; their errors are aggregated into
// LastError and returned individually.
func (p *Picker) Submit(ctx context.Context) ([]docs.Invitation, []InviteError, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, nil, errors.New("picker is closed")
	}
	if p.submitting {
		p.mu.Unlock()
		return nil, nil, errors.New("a submission is already in progress")
	}
	p.submitting = true
	p.mu.Unlock()

	created, failed, err := p.submitter.Submit(ctx, p.caps, p.stage)

	p.mu.Lock()
	p.submitting = false
	if err != nil {
		p.lastErr = err
	} else if len(failed) > 0 {
		errs := make([]error, len(failed))
		for i, f := range failed {
			errs[i] = f
		}
		p.lastErr = errors.Join(errs...)
	} else {
		p.lastErr = nil
	}
	closed := p.closed
	p.mu.Unlock()

	if err != nil {
		return nil, nil, err
	}

	p.query.Reset()
	p.mu.Lock()
	p.searched = ""
	p.mu.Unlock()

	if len(created) > 0 && !closed {
		if refreshErr := p.invitations.Invalidate(ctx); refreshErr != nil {
			p.recordErr(fmt.Errorf("refreshing invitations: %w", refreshErr))
		}
	}

	return created, failed, nil
}

// LoadMoreMembers fetches the next page of accesses, if any.
func (p *Picker) LoadMoreMembers(ctx context.Context) error {
	_, err := p.accesses.FetchNext(ctx)
	if err != nil {
		p.recordErr(err)
	}
	return err
}

// LoadMoreInvitations fetches the next page of invitations, if any.
func (p *Picker) LoadMoreInvitations(ctx context.Context) error {
	_, err := p.invitations.FetchNext(ctx)
	if err != nil {
		p.recordErr(err)
	}
	return err
}

// Mode resolves the current display mode from the raw input and the stage.
func (p *Picker) Mode() ViewMode {
	return ResolveViewMode(p.query.Raw(), p.stage.IsEmpty())
}

// Groups returns the complete render state for the host UI.
func (p *Picker) Groups() Groups {
	members := p.accesses.Items()
	count := p.accesses.KnownCount()
	if count < 0 {
		count = len(members)
	}

	p.mu.Lock()
	results := append([]Entry(nil), p.results...)
	p.mu.Unlock()

	return Groups{
		Mode: p.Mode(),
		Invitations: Group[docs.Invitation]{
			Label:    "Pending invitations",
			Elements: p.invitations.Items(),
			HasMore:  p.invitations.HasMore(),
		},
		Members: Group[docs.Access]{
			Label:    memberGroupLabel(count),
			Elements: members,
			HasMore:  p.accesses.HasMore(),
		},
		Results: Group[Entry]{
			Label:    "Search results",
			Elements: results,
		},
		Selected: Group[Entry]{
			Label:    "Selected",
			Elements: p.stage.Entries(),
		},
	}
}

// memberGroupLabel is singular when the owner is the sole member, plural
// with the live count otherwise.
func memberGroupLabel(count int) string {
	if count <= 1 {
		return "Document owner"
	}
	return fmt.Sprintf("Members (%d)", count)
}

// Staged returns the current staged entries in insertion order.
func (p *Picker) Staged() []Entry {
	return p.stage.Entries()
}

// IsSubmitting reports whether a submission is in flight.
func (p *Picker) IsSubmitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitting
}

// LastError returns the most recent surfaced failure, or nil.
func (p *Picker) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// SetProgress installs a progress callback invoked during Submit after each
// attempted invitation.
func (p *Picker) SetProgress(fn func(done, total int)) {
	p.submitter.OnProgress = fn
}

// Close tears the session down: the pending debounce is cancelled, in-flight
// fetches are discarded on completion, and the stage is cleared. No state
// mutation happens after close.
func (p *Picker) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.results = nil
	p.searched = ""
	p.mu.Unlock()

	p.query.Close()
	p.accesses.Close()
	p.invitations.Close()
	p.stage.Clear()
}

func (p *Picker) recordErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.lastErr = err
}
