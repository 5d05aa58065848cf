package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetMe retrieves the profile of the currently signed-in user.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var user User

	meURL := customAPIRoot + "users/me/"
	if err := c.getAndDecode(ctx, meURL, &user, "user"); err != nil {
		return user, err
	}

	return user, nil
}

// SearchUsers looks up directory users by partial name or email. The
// documentID scopes the search so users already holding an access on the
// document are excluded server-side.
func (c *Client) SearchUsers(ctx context.Context, query, documentID string) ([]User, error) {
	var users []User

	params := url.Values{}
	params.Set("q", query)
	if documentID != "" {
		params.Set("document_id", documentID)
	}

	searchURL := customAPIRoot + "users/?" + params.Encode()
	if err := c.getAndDecode(ctx, searchURL, &users, "user search"); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateUser patches a user's profile fields. Only non-empty fields of the
// request are sent.
func (c *Client) UpdateUser(ctx context.Context, userID string, fields map[string]string) (User, error) {
	var user User

	data, err := json.Marshal(fields)
	if err != nil {
		return user, fmt.Errorf("marshalling user update request: %w", err)
	}

	userURL := customAPIRoot + "users/" + url.PathEscape(userID) + "/"
	res, err := c.apiCall(ctx, "PATCH", userURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return user, err
	}
	defer closeBodySafely(res.Body, c.logger, "update user")

	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return user, fmt.Errorf("%w: decoding user response: %v", ErrDecodingFailed, err)
	}

	return user, nil
}
