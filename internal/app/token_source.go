package app

import (
	"sync"

	"golang.org/x/oauth2"
)

// persistingTokenSource wraps an oauth2.TokenSource, detecting refreshes and
// invoking a callback so the new token survives the process.
type persistingTokenSource struct {
	base       oauth2.TokenSource
	mu         sync.Mutex
	lastToken  *oauth2.Token
	onNewToken func(token *oauth2.Token) error
}

// newPersistingTokenSource creates a token source that persists refreshes.
func newPersistingTokenSource(base oauth2.TokenSource, initialToken *oauth2.Token, onNew func(token *oauth2.Token) error) *persistingTokenSource {
	return &persistingTokenSource{
		base:       base,
		lastToken:  initialToken,
		onNewToken: onNew,
	}
}

// Token returns a token from the underlying source, persisting it first if
// the access token changed. A failed persist does not fail the call: the
// token is still valid in memory.
func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newToken, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	if s.lastToken == nil || s.lastToken.AccessToken != newToken.AccessToken {
		s.lastToken = newToken
		if s.onNewToken != nil {
			if err := s.onNewToken(newToken); err != nil {
				return newToken, nil
			}
		}
	}

	return newToken, nil
}
