package share

// ViewMode is the two-state display machine of the picker.
type ViewMode int

const (
	// ModeBrowse shows the pending invitations and confirmed members.
	ModeBrowse ViewMode = iota
	// ModeSearch shows directory search results and the staged selection.
	ModeSearch
)

// String returns a human-readable mode name.
func (m ViewMode) String() string {
	if m == ModeBrowse {
		return "browse"
	}
	return "search"
}

// ResolveViewMode picks the display mode from the raw input text and the
// stage. Browse is active only while the input is empty and nothing is
// staged; any keystroke or staged selection switches to search. The
// resolution is a pure function recomputed on every relevant change, with no
// transition side effects.
func ResolveViewMode(rawInput string, stageEmpty bool) ViewMode {
	if rawInput == "" && stageEmpty {
		return ModeBrowse
	}
	return ModeSearch
}
