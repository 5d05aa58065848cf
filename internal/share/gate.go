// Package share implements access resolution for collaborative documents:
// deciding who may see or manage a document's member list, searching the
// directory for candidate users, staging a multi-user invite, and merging
// confirmed members, pending invitations, and live search results into a
// single permission-gated, paginated picker.
package share

import "github.com/rvveber/docs/pkg/docs"

// Capabilities are the two booleans everything downstream branches on. When
// CanView is false no member or search surface is shown at all, regardless
// of CanManage.
type Capabilities struct {
	CanView   bool
	CanManage bool
}

// ResolveCapabilities projects a document's server-computed abilities onto
// the picker's capabilities. Absent abilities decode to false, so the
// projection fails closed.
func ResolveCapabilities(doc docs.Document) Capabilities {
	return Capabilities{
		CanView:   doc.Abilities.AccessesView,
		CanManage: doc.Abilities.AccessesManage,
	}
}
