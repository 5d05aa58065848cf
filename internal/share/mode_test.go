package share

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rvveber/docs/pkg/docs"
)

func TestResolveViewMode(t *testing.T) {
	testCases := []struct {
		name       string
		rawInput   string
		stageEmpty bool
		expected   ViewMode
	}{
		{"empty input, empty stage", "", true, ModeBrowse},
		{"typed input", "bo", true, ModeSearch},
		{"staged selection, cleared input", "", false, ModeSearch},
		{"typed input and staged selection", "al", false, ModeSearch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveViewMode(tc.rawInput, tc.stageEmpty))
		})
	}
}

func TestViewModeString(t *testing.T) {
	assert.Equal(t, "browse", ModeBrowse.String())
	assert.Equal(t, "search", ModeSearch.String())
}

func TestResolveCapabilitiesFailsClosed(t *testing.T) {
	// A zero-value document (no abilities reported) grants nothing.
	caps := ResolveCapabilities(docs.Document{})
	assert.False(t, caps.CanView)
	assert.False(t, caps.CanManage)

	caps = ResolveCapabilities(docs.Document{
		Abilities: docs.Abilities{AccessesView: true},
	})
	assert.True(t, caps.CanView)
	assert.False(t, caps.CanManage)

	caps = ResolveCapabilities(docs.Document{
		Abilities: docs.Abilities{AccessesView: true, AccessesManage: true},
	})
	assert.True(t, caps.CanView)
	assert.True(t, caps.CanManage)
}
