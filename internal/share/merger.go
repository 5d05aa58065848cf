package share

import (
	"fmt"
	"regexp"

	"github.com/rvveber/docs/pkg/docs"
)

// EntryKind distinguishes a directory hit from the synthetic
// invite-by-email entry, so downstream code never needs a string-equality
// heuristic to tell them apart.
type EntryKind int

const (
	// EntryDirectory is a user known to the directory.
	EntryDirectory EntryKind = iota
	// EntryEmailInvite targets an address outside the directory.
	EntryEmailInvite
)

// Entry is one selectable row of the search surface.
type Entry struct {
	Kind EntryKind
	User docs.User
}

// Identity returns the value entries are deduplicated by: the directory id
// for known users, the raw address for email invites.
func (e Entry) Identity() string {
	if e.Kind == EntryEmailInvite {
		return e.User.Email
	}
	return e.User.ID
}

// Label returns a display string for the entry.
func (e Entry) Label() string {
	if e.Kind == EntryEmailInvite {
		return fmt.Sprintf("Invite %q by email", e.User.Email)
	}
	if e.User.FullName != "" {
		return fmt.Sprintf("%s <%s>", e.User.FullName, e.User.Email)
	}
	return e.User.Email
}

// emailRe matches a conventional address shape: local part, one @, and a
// domain containing at least one dot.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsEmailLike reports whether the query looks like an email address.
func IsEmailLike(query string) bool {
	return emailRe.MatchString(query)
}

// MergeSearchResults turns raw directory results into picker entries,
// appending one synthetic invite-by-email entry when the query is
// email-shaped and no result already carries that exact address. This lets
// an inviter reach someone outside the directory without a separate flow,
// while never duplicating an exact directory hit.
func MergeSearchResults(results []docs.User, query string) []Entry {
	entries := make([]Entry, 0, len(results)+1)
	alreadyPresent := false
	for _, user := range results {
		if user.Email == query {
			alreadyPresent = true
		}
		entries = append(entries, Entry{Kind: EntryDirectory, User: user})
	}

	if IsEmailLike(query) && !alreadyPresent {
		entries = append(entries, Entry{
			Kind: EntryEmailInvite,
			User: docs.User{ID: query, Email: query},
		})
	}

	return entries
}
