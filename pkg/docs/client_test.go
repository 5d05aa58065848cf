package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts an httptest server, points the package API root at it
// for the duration of the test, and returns a client with no auth transport.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	previous := customAPIRoot
	SetCustomAPIEndpoint(server.URL + "/")
	t.Cleanup(func() { SetCustomAPIEndpoint(previous) })

	return NewClientWithHTTP(server.Client(), nil)
}

func TestAPICallErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": "Authentication credentials were not provided."}`, ErrReauthRequired},
		{"forbidden", http.StatusForbidden, `{"detail": "You do not have permission to perform this action."}`, ErrAccessDenied},
		{"not found", http.StatusNotFound, `{"detail": "Not found."}`, ErrResourceNotFound},
		{"gone", http.StatusGone, ``, ErrResourceNotFound},
		{"conflict", http.StatusConflict, `{"detail": "Already invited."}`, ErrConflict},
		{"bad request", http.StatusBadRequest, `{"detail": "Invalid role."}`, ErrInvalidRequest},
		{"unprocessable", http.StatusUnprocessableEntity, ``, ErrInvalidRequest},
		{"throttled", http.StatusTooManyRequests, ``, ErrRetryLater},
		{"server error", http.StatusInternalServerError, ``, ErrRetryLater},
		{"bad gateway", http.StatusBadGateway, ``, ErrRetryLater},
		{"unavailable", http.StatusServiceUnavailable, ``, ErrRetryLater},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))

			_, err := client.GetDocument(context.Background(), "doc1")
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestAPICallIncludesErrorDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "You do not have permission to perform this action."}`))
	}))

	_, err := client.GetDocument(context.Background(), "doc1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You do not have permission to perform this action.")
}

func TestAPICallNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	previous := customAPIRoot
	SetCustomAPIEndpoint(server.URL + "/")
	t.Cleanup(func() { SetCustomAPIEndpoint(previous) })
	server.Close() // nothing is listening anymore

	client := NewClientWithHTTP(&http.Client{}, nil)
	_, err := client.GetDocument(context.Background(), "doc1")
	assert.ErrorIs(t, err, ErrNetworkFailed)
}

func TestAPICallDecodingFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))

	_, err := client.GetDocument(context.Background(), "doc1")
	assert.ErrorIs(t, err, ErrDecodingFailed)
}

func TestAPICallNilHTTPClient(t *testing.T) {
	client := &Client{logger: noopLogger{}}
	_, err := client.apiCall(context.Background(), "GET", "http://example.invalid/", "", nil)
	assert.Error(t, err)
}
