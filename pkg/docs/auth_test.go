package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withAuthServer points the OAuth endpoints at a test server for the
// duration of one test.
func withAuthServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	prevAuth, prevToken, prevDevice := customAuthURL, customTokenURL, customDeviceURL
	SetCustomAuthEndpoints(server.URL+"/auth", server.URL+"/token", server.URL+"/device")
	t.Cleanup(func() { SetCustomAuthEndpoints(prevAuth, prevToken, prevDevice) })

	return server
}

func TestInitiateDeviceCodeFlow(t *testing.T) {
	withAuthServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "docs-cli", r.PostForm.Get("client_id"))
		assert.Contains(t, r.PostForm.Get("scope"), "offline_access")

		w.Write([]byte(`{
			"device_code": "dev-1",
			"user_code": "ABCD-EFGH",
			"verification_uri": "https://auth.example.com/device",
			"expires_in": 600,
			"interval": 5
		}`))
	}))

	resp, err := InitiateDeviceCodeFlow("docs-cli", false)
	require.NoError(t, err)
	assert.Equal(t, "dev-1", resp.DeviceCode)
	assert.Equal(t, "ABCD-EFGH", resp.UserCode)
	assert.Equal(t, 5, resp.Interval)
}

func TestVerifyDeviceCodePending(t *testing.T) {
	withAuthServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "authorization_pending", "error_description": "user has not authorized yet"}`))
	}))

	_, err := VerifyDeviceCode("docs-cli", "dev-1", false)
	assert.ErrorIs(t, err, ErrAuthorizationPending)
}

func TestVerifyDeviceCodeDeclined(t *testing.T) {
	withAuthServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "access_denied"}`))
	}))

	_, err := VerifyDeviceCode("docs-cli", "dev-1", false)
	assert.ErrorIs(t, err, ErrAuthorizationDeclined)
}

func TestVerifyDeviceCodeExpired(t *testing.T) {
	withAuthServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "expired_token"}`))
	}))

	_, err := VerifyDeviceCode("docs-cli", "dev-1", false)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyDeviceCodeSuccessSetsExpiry(t *testing.T) {
	withAuthServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:device_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "dev-1", r.PostForm.Get("device_code"))

		w.Write([]byte(`{
			"access_token": "tok",
			"refresh_token": "ref",
			"token_type": "Bearer",
			"expires_in": 300
		}`))
	}))

	token, err := VerifyDeviceCode("docs-cli", "dev-1", false)
	require.NoError(t, err)
	assert.Equal(t, "tok", token.AccessToken)
	assert.Equal(t, "ref", token.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(300*time.Second), token.Expiry, 10*time.Second)
}

func TestStartAuthenticationBuildsPKCEURL(t *testing.T) {
	_, conf := GetOauth2Config("docs-cli")

	authURL, verifier, err := StartAuthentication(context.Background(), conf)
	require.NoError(t, err)
	assert.NotEmpty(t, verifier)
	assert.Contains(t, authURL, "code_challenge=")
	assert.Contains(t, authURL, "code_challenge_method=S256")
	assert.Contains(t, authURL, "client_id=docs-cli")
}
