// Package docs (auth.go) handles OAuth2 authentication against the identity
// provider fronting the docs service. Two flows are supported: the
// Authorization Code Grant with PKCE for environments with a browser, and the
// Device Code Flow for headless use.
package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	cv "github.com/nirasan/go-oauth-pkce-code-verifier"
	"golang.org/x/oauth2"
)

// OAuth2 scopes and endpoints. The defaults target the OIDC provider of the
// public docs instance.
var oAuthScopes = []string{"openid", "email", "profile", "offline_access"}

const (
	oAuthAuthURL   = "https://auth.docs.numerique.gouv.fr/realms/docs/protocol/openid-connect/auth"
	oAuthTokenURL  = "https://auth.docs.numerique.gouv.fr/realms/docs/protocol/openid-connect/token"
	oAuthDeviceURL = "https://auth.docs.numerique.gouv.fr/realms/docs/protocol/openid-connect/auth/device"
)

var (
	customAuthURL   = oAuthAuthURL
	customTokenURL  = oAuthTokenURL
	customDeviceURL = oAuthDeviceURL
)

// SetCustomAuthEndpoints overrides the default OAuth endpoints so tests can
// target a mock identity provider.
func SetCustomAuthEndpoints(authURL, tokenURL, deviceURL string) {
	customAuthURL = authURL
	customTokenURL = tokenURL
	customDeviceURL = deviceURL
}

// Token is the canonical OAuth2 token representation used by the SDK and
// persisted in the client configuration.
type Token oauth2.Token

// OAuthConfig is an alias for oauth2.Config tailored for the docs provider.
type OAuthConfig oauth2.Config

// DeviceCodeResponse is the identity provider's answer to a device code
// request. Everything the user needs to authorize in a browser is here.
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
	Message         string `json:"message"`
}

// GetOauth2Config returns the OAuth2 configuration for the docs identity
// provider with the SDK's scopes and (customizable) endpoints.
func GetOauth2Config(clientID string) (context.Context, *OAuthConfig) {
	ctx := context.Background()
	conf := &oauth2.Config{
		ClientID: clientID,
		Scopes:   oAuthScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  customAuthURL,
			TokenURL: customTokenURL,
		},
	}
	return ctx, (*OAuthConfig)(conf)
}

// StartAuthentication begins the Authorization Code Grant flow with PKCE.
// It returns the URL the user must visit and the code verifier that must be
// kept for the token exchange in CompleteAuthentication.
func StartAuthentication(ctx context.Context, oauthConfig *OAuthConfig) (authURL string, codeVerifier string, err error) {
	if ctx == nil {
		return "", "", fmt.Errorf("context must not be nil for StartAuthentication")
	}

	verifier, err := cv.CreateCodeVerifier()
	if err != nil {
		return "", "", fmt.Errorf("could not create PKCE code verifier: %w", err)
	}
	codeVerifier = verifier.String()
	codeChallenge := verifier.CodeChallengeS256()

	pkceParams := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}

	authURL = (*oauth2.Config)(oauthConfig).AuthCodeURL("state-does-not-matter", pkceParams...)
	return authURL, codeVerifier, nil
}

// CompleteAuthentication exchanges an authorization code for a token using
// the PKCE code verifier from StartAuthentication. The Expiry field is set
// manually from expires_in when the library leaves it zero, since the token
// source needs it to schedule refreshes.
func CompleteAuthentication(ctx context.Context, oauthConfig *OAuthConfig, code, verifier string) (*Token, error) {
	pkceCodeVerifier := oauth2.SetAuthURLParam("code_verifier", verifier)
	token, err := (*oauth2.Config)(oauthConfig).Exchange(ctx, code, pkceCodeVerifier)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange authorization code for token: %v", ErrOperationFailed, err)
	}

	if token.Expiry.IsZero() {
		if expiresIn, ok := token.Extra("expires_in").(float64); ok {
			token.Expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
		}
	}

	return (*Token)(token), nil
}

// InitiateDeviceCodeFlow starts the Device Code Flow. The response carries
// the user code and verification URI to display; the application then polls
// with VerifyDeviceCode.
func InitiateDeviceCodeFlow(clientID string, debug bool) (*DeviceCodeResponse, error) {
	data := url.Values{}
	data.Set("client_id", clientID)
	data.Set("scope", strings.Join(oAuthScopes, " "))

	res, err := authCall("POST", customDeviceURL, strings.NewReader(data.Encode()), debug)
	if err != nil {
		return nil, fmt.Errorf("requesting device code from %s: %w", customDeviceURL, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Printf("Warning: failed to close device code response body: %v", err)
		}
	}()

	var deviceCodeResponse DeviceCodeResponse
	if err := json.NewDecoder(res.Body).Decode(&deviceCodeResponse); err != nil {
		return nil, fmt.Errorf("%w: decoding device code response: %v", ErrDecodingFailed, err)
	}

	return &deviceCodeResponse, nil
}

// VerifyDeviceCode polls the token endpoint once, exchanging the device code
// for a token. While the user has not finished the browser flow this returns
// ErrAuthorizationPending; the caller decides when to poll again.
func VerifyDeviceCode(clientID, deviceCode string, debug bool) (*Token, error) {
	data := url.Values{}
	data.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")
	data.Set("client_id", clientID)
	data.Set("device_code", deviceCode)

	res, err := authCall("POST", customTokenURL, strings.NewReader(data.Encode()), debug)
	if err != nil {
		return nil, fmt.Errorf("polling token endpoint %s: %w", customTokenURL, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Printf("Warning: failed to close token response body: %v", err)
		}
	}()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: retrieving token via device code failed with status %s: %s", ErrOperationFailed, res.Status, string(bodyBytes))
	}

	var token oauth2.Token
	if err := json.Unmarshal(bodyBytes, &token); err != nil {
		return nil, fmt.Errorf("%w: parsing token from device code response: %v", ErrDecodingFailed, err)
	}

	// The expires_in field is what actually drives refresh scheduling.
	var expiresInHolder struct {
		ExpiresIn json.Number `json:"expires_in"`
	}
	if err := json.Unmarshal(bodyBytes, &expiresInHolder); err == nil && expiresInHolder.ExpiresIn != "" {
		if expiresInInt, err := expiresInHolder.ExpiresIn.Int64(); err == nil && expiresInInt > 0 {
			token.Expiry = time.Now().Add(time.Duration(expiresInInt) * time.Second)
		}
	}

	return (*Token)(&token), nil
}

// authCall performs an unauthenticated form-encoded call against the
// identity provider, mapping the conventional OAuth error codes onto
// sentinel errors.
func authCall(method, callURL string, body io.Reader, debug bool) (*http.Response, error) {
	var reqBodyBytes []byte
	if body != nil {
		var readErr error
		reqBodyBytes, readErr = io.ReadAll(body)
		if readErr != nil {
			log.Printf("Warning: failed to read request body for logging: %v", readErr)
		}
		body = bytes.NewBuffer(reqBodyBytes)
	}

	req, err := http.NewRequest(method, callURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s %s failed: %w", method, callURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if debug {
		log.Printf("DEBUG auth request: %s %s body=%s", method, callURL, string(reqBodyBytes))
	}

	authClient := &http.Client{Timeout: DefaultTimeout}
	res, err := authClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during auth call to %s %s: %w", method, callURL, err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		defer func() {
			if closeErr := res.Body.Close(); closeErr != nil {
				log.Printf("Warning: failed to close auth error response body: %v", closeErr)
			}
		}()
		resBodyBytes, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			return nil, fmt.Errorf("HTTP error %s from %s (could not read response body)", res.Status, callURL)
		}

		var oauthError struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}

		if jsonErr := json.Unmarshal(resBodyBytes, &oauthError); jsonErr == nil && oauthError.Error != "" {
			switch oauthError.Error {
			case "authorization_pending", "slow_down":
				return nil, ErrAuthorizationPending
			case "authorization_declined", "access_denied":
				return nil, ErrAuthorizationDeclined
			case "expired_token":
				return nil, ErrTokenExpired
			case "invalid_request", "invalid_grant":
				return nil, fmt.Errorf("%w: %s (OAuth server)", ErrInvalidRequest, oauthError.ErrorDescription)
			default:
				return nil, fmt.Errorf("OAuth authentication error '%s': %s", oauthError.Error, oauthError.ErrorDescription)
			}
		}
		return nil, fmt.Errorf("HTTP error %s from %s: %s", res.Status, callURL, string(resBodyBytes))
	}

	return res, nil
}
