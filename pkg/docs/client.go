// Package docs provides a typed client for the collaborative docs REST API.
// It covers documents, their access grants (confirmed members), pending
// invitations, and directory user search. All calls go through apiCall, which
// maps HTTP failures onto the sentinel errors declared below so callers can
// branch with errors.Is.
package docs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Logger is the interface the SDK uses for logging. It matches the
// application's internal logger so any of its implementations can be plugged
// in directly.
type Logger interface {
	Debug(msg string, args ...any)
	Debugf(format string, args ...any)
	Info(msg string, args ...any)
	Infof(format string, args ...any)
	Warn(msg string, args ...any)
	Warnf(format string, args ...any)
	Error(msg string, args ...any)
	Errorf(format string, args ...any)
}

// noopLogger discards everything. Used when no logger is supplied.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)     {}
func (noopLogger) Debugf(format string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)      {}
func (noopLogger) Infof(format string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)      {}
func (noopLogger) Warnf(format string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any)     {}
func (noopLogger) Errorf(format string, args ...any) {}

const defaultAPIRoot = "https://docs.numerique.gouv.fr/api/v1.0/"

// customAPIRoot is overridable so tests can point the SDK at an
// httptest.Server.
var customAPIRoot = defaultAPIRoot

// SetCustomAPIEndpoint overrides the API root URL. Primarily for testing
// against a mock server; the value must end with a slash.
func SetCustomAPIEndpoint(apiURL string) {
	customAPIRoot = apiURL
}

// Client is a stateful client for the docs API. The underlying http.Client
// carries the OAuth2 transport, so token refreshes happen transparently.
type Client struct {
	httpClient *http.Client
	logger     Logger
}

// NewClient creates a docs API client from an oauth2 token source. The
// source is expected to handle refreshes (see internal/app's persisting
// token source).
func NewClient(ctx context.Context, source oauth2.TokenSource, logger Logger) *Client {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Client{
		httpClient: oauth2.NewClient(ctx, source),
		logger:     logger,
	}
}

// NewClientWithHTTP creates a client around an existing http.Client. Used in
// tests where no real token source exists.
func NewClientWithHTTP(httpClient *http.Client, logger Logger) *Client {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l Logger) {
	c.logger = l
}

// apiCall performs an HTTP request against the docs API and converts error
// responses into sentinel errors. The response body is the caller's to close
// on success.
func (c *Client) apiCall(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Response, error) {
	c.logger.Debugf("apiCall %s %s", method, url)

	if c.httpClient == nil {
		return nil, errors.New("HTTP client is nil, please provide a valid HTTP client")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request failed: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			switch retrieveErr.ErrorCode {
			case "invalid_request", "invalid_client", "invalid_grant",
				"unauthorized_client", "unsupported_grant_type",
				"invalid_scope", "access_denied":
				return nil, fmt.Errorf("%w: %v", ErrReauthRequired, err)
			case "server_error", "temporarily_unavailable":
				return nil, fmt.Errorf("%w: %v", ErrRetryLater, err)
			default:
				return nil, fmt.Errorf("other oauth2 error: %v", err)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailed, err)
	}

	if res.StatusCode >= 400 {
		defer res.Body.Close()
		resBody, _ := io.ReadAll(res.Body)

		// DRF-style error envelope.
		var apiError struct {
			Detail string `json:"detail"`
		}
		detail := res.Status
		if err := json.Unmarshal(resBody, &apiError); err == nil && apiError.Detail != "" {
			detail = apiError.Detail
		}

		switch res.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrReauthRequired, detail)
		case http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", ErrAccessDenied, detail)
		case http.StatusNotFound, http.StatusGone:
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, detail)
		case http.StatusConflict:
			return nil, fmt.Errorf("%w: %s", ErrConflict, detail)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, detail)
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable:
			return nil, fmt.Errorf("%w: %s", ErrRetryLater, detail)
		default:
			return nil, fmt.Errorf("HTTP error: %s - %s", res.Status, detail)
		}
	}

	return res, nil
}

// getAndDecode performs a GET and decodes the JSON response into dest.
// This collapses the repetitive apiCall + defer + Decode pattern.
func (c *Client) getAndDecode(ctx context.Context, url string, dest interface{}, operation string) error {
	res, err := c.apiCall(ctx, "GET", url, "", nil)
	if err != nil {
		return err
	}
	defer closeBodySafely(res.Body, c.logger, operation)

	if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrDecodingFailed, operation, err)
	}
	return nil
}

// closeBodySafely closes a response body and logs any error. Intended for
// defer statements where the error is not actionable.
func closeBodySafely(body io.Closer, logger Logger, operation string) {
	if err := body.Close(); err != nil {
		logger.Warnf("Failed to close %s body: %v", operation, err)
	}
}

// Sentinel errors
var (
	ErrReauthRequired        = errors.New("re-authentication required")
	ErrAccessDenied          = errors.New("access denied")
	ErrRetryLater            = errors.New("retry later")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrResourceNotFound      = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrDecodingFailed        = errors.New("decoding failed")
	ErrOperationFailed       = errors.New("operation failed")
	ErrNetworkFailed         = errors.New("network failed")
	ErrAuthorizationPending  = errors.New("authorization pending")
	ErrAuthorizationDeclined = errors.New("authorization declined")
	ErrTokenExpired          = errors.New("token expired")
)
