package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvveber/docs/pkg/docs"
)

func TestIsEmailLike(t *testing.T) {
	assert.True(t, IsEmailLike("bob@example.com"))
	assert.True(t, IsEmailLike("first.last@sub.example.org"))
	assert.False(t, IsEmailLike("bob"))
	assert.False(t, IsEmailLike("bob@example"))
	assert.False(t, IsEmailLike("bob@@example.com"))
	assert.False(t, IsEmailLike("bob smith@example.com"))
	assert.False(t, IsEmailLike(""))
}

func TestMergeSearchResultsAppendsEmailEntry(t *testing.T) {
	results := []docs.User{
		{ID: "u1", FullName: "Bobby Tables", Email: "bobby@corp.example"},
	}

	entries := MergeSearchResults(results, "bob@example.com")

	require.Len(t, entries, 2)
	assert.Equal(t, EntryDirectory, entries[0].Kind)
	assert.Equal(t, "u1", entries[0].Identity())

	// The synthetic entry comes last and carries the query as both id and
	// email.
	last := entries[1]
	assert.Equal(t, EntryEmailInvite, last.Kind)
	assert.Equal(t, "bob@example.com", last.User.ID)
	assert.Equal(t, "bob@example.com", last.User.Email)
	assert.Equal(t, "bob@example.com", last.Identity())
}

func TestMergeSearchResultsExactHitSuppressesEmailEntry(t *testing.T) {
	results := []docs.User{
		{ID: "u1", FullName: "Bob", Email: "bob@example.com"},
	}

	entries := MergeSearchResults(results, "bob@example.com")

	require.Len(t, entries, 1)
	assert.Equal(t, EntryDirectory, entries[0].Kind)
}

func TestMergeSearchResultsNonEmailQuery(t *testing.T) {
	results := []docs.User{
		{ID: "u1", Email: "alice@example.com"},
		{ID: "u2", Email: "albert@example.com"},
	}

	entries := MergeSearchResults(results, "al")

	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, EntryDirectory, entry.Kind)
	}
}

func TestMergeSearchResultsEmptyDirectory(t *testing.T) {
	entries := MergeSearchResults(nil, "ghost@example.com")
	require.Len(t, entries, 1)
	assert.Equal(t, EntryEmailInvite, entries[0].Kind)

	entries = MergeSearchResults(nil, "ghost")
	assert.Empty(t, entries)
}

func TestEntryLabel(t *testing.T) {
	named := Entry{Kind: EntryDirectory, User: docs.User{FullName: "Alice", Email: "alice@example.com"}}
	assert.Equal(t, "Alice <alice@example.com>", named.Label())

	unnamed := Entry{Kind: EntryDirectory, User: docs.User{Email: "alice@example.com"}}
	assert.Equal(t, "alice@example.com", unnamed.Label())

	invite := Entry{Kind: EntryEmailInvite, User: docs.User{ID: "x@y.zz", Email: "x@y.zz"}}
	assert.Equal(t, `Invite "x@y.zz" by email`, invite.Label())
}
