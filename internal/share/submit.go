package share

import (
	"context"
	"errors"
	"fmt"

	"github.com/rvveber/docs/pkg/docs"
)

// ErrManageForbidden is returned when a submit is attempted without the
// accesses_manage ability.
var ErrManageForbidden = errors.New("managing accesses is not allowed on this document")

// InviteError records a single failed invitation. The staged entry it refers
// to stays in the stage so the user can retry or remove it manually.
type InviteError struct {
	Entry Entry
	Err   error
}

// Error implements the error interface.
func (e InviteError) Error() string {
	return fmt.Sprintf("inviting %s: %v", e.Entry.Identity(), e.Err)
}

// Unwrap exposes the underlying cause to errors.Is.
func (e InviteError) Unwrap() error {
	return e.Err
}

// API is the slice of the docs client the share subsystem consumes. The
// concrete *docs.Client satisfies it; tests plug in fakes.
type API interface {
	ListAccesses(ctx context.Context, documentID, cursor string) (docs.AccessList, error)
	ListInvitations(ctx context.Context, documentID, cursor string) (docs.InvitationList, error)
	SearchUsers(ctx context.Context, query, documentID string) ([]docs.User, error)
	CreateInvitation(ctx context.Context, documentID string, request docs.InvitationRequest) (docs.Invitation, error)
}

// Submitter turns a staged selection into invitations, one create call per
// staged entry. Submission is not atomic across the set: each call succeeds
// or fails on its own, successes are never rolled back, and failed entries
// remain staged (retry-failed-only).
type Submitter struct {
	api        API
	documentID string
	role       string

	// OnProgress, if set, is called after each attempted invitation with
	// the number of entries processed so far and the total.
	OnProgress func(done, total int)
}

// NewSubmitter creates a submitter for one document. The role is attached to
// every invitation issued.
func NewSubmitter(api API, documentID, role string) *Submitter {
	if role == "" {
		role = docs.RoleReader
	}
	return &Submitter{api: api, documentID: documentID, role: role}
}

// Submit issues one invitation per staged entry. Directory entries carry the
// user id, email entries the raw address. Successful entries are removed
// from the stage; failed ones stay. The returned slice holds one InviteError
// per failure and is empty on full success.
func (s *Submitter) Submit(ctx context.Context, caps Capabilities, stage *SelectionStage) ([]docs.Invitation, []InviteError, error) {
	if !caps.CanManage {
		return nil, nil, ErrManageForbidden
	}

	entries := stage.Entries()
	var created []docs.Invitation
	var failed []InviteError

	for i, entry := range entries {
		request := docs.InvitationRequest{Role: s.role}
		switch entry.Kind {
		case EntryEmailInvite:
			request.Email = entry.User.Email
		default:
			request.UserID = entry.User.ID
		}

		invitation, err := s.api.CreateInvitation(ctx, s.documentID, request)
		if err != nil {
			failed = append(failed, InviteError{Entry: entry, Err: err})
		} else {
			created = append(created, invitation)
			stage.Remove(entry.Identity())
		}

		if s.OnProgress != nil {
			s.OnProgress(i+1, len(entries))
		}
	}

	return created, failed, nil
}
