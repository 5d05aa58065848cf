// Package docs provides constants used throughout the docs SDK.
package docs

import "time"

// Default HTTP configuration.
const (
	DefaultTimeout = 30 * time.Second
)

// Share picker behavior. These mirror the web client so both frontends feel
// identical: a search is only issued once the committed query is longer than
// MinSearchQueryLength, and keystrokes are debounced by SearchDebounceDelay.
const (
	MinSearchQueryLength = 4
	SearchDebounceDelay  = 300 * time.Millisecond
)

// Roles accepted by the accesses and invitations endpoints. Roles are opaque
// to the client; this list only feeds CLI validation messages.
const (
	RoleReader = "reader"
	RoleEditor = "editor"
	RoleAdmin  = "administrator"
	RoleOwner  = "owner"
)
