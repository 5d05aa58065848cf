package docs

import "time"

// User is a directory identity known to the docs service.
type User struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	ShortName string `json:"short_name"`
	Email     string `json:"email"`
	Language  string `json:"language"`
}

// Abilities is the set of server-computed permissions the current user holds
// on a document. The server is the single source of truth here; the client
// never re-derives these from roles. Missing fields decode to false.
type Abilities struct {
	AccessesManage bool `json:"accesses_manage"`
	AccessesView   bool `json:"accesses_view"`
	Destroy        bool `json:"destroy"`
	InviteOwner    bool `json:"invite_owner"`
	PartialUpdate  bool `json:"partial_update"`
	Retrieve       bool `json:"retrieve"`
	Update         bool `json:"update"`
}

// Document represents a collaborative document.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Abilities Abilities `json:"abilities"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsPublic  bool      `json:"is_public"`
}

// Access is a confirmed permission grant linking a user to a document.
// Accesses are never mutated in place; the server returns the full updated
// resource on PATCH.
type Access struct {
	ID   string `json:"id"`
	User User   `json:"user"`
	Role string `json:"role"`
}

// Invitation is a pending, unconfirmed grant, addressed by email. It is
// removed when accepted externally or withdrawn by a manager.
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// InvitationRequest is the payload for creating an invitation. Exactly one of
// UserID or Email should be set: UserID for a directory user, Email for an
// address outside the directory.
type InvitationRequest struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// AccessList is one page of accesses. Next is an opaque cursor (a URL) for
// the following page; empty means the listing is exhausted. Count is the
// total across all pages.
type AccessList struct {
	Count   int      `json:"count"`
	Next    string   `json:"next"`
	Results []Access `json:"results"`
}

// InvitationList is one page of invitations. The invitations endpoint does
// not report a total count.
type InvitationList struct {
	Next    string       `json:"next"`
	Results []Invitation `json:"results"`
}

// DocumentList is one page of documents.
type DocumentList struct {
	Count   int        `json:"count"`
	Next    string     `json:"next"`
	Results []Document `json:"results"`
}
