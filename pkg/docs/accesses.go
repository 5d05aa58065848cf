package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListAccesses retrieves one page of confirmed access grants on a document.
// The response carries the total count across all pages and an opaque cursor
// for the next page. Pass an empty cursor for page one.
func (c *Client) ListAccesses(ctx context.Context, documentID, cursor string) (AccessList, error) {
	var list AccessList

	listURL := customAPIRoot + "documents/" + url.PathEscape(documentID) + "/accesses/"
	if cursor != "" {
		listURL = cursor
	}

	if err := c.getAndDecode(ctx, listURL, &list, "access list"); err != nil {
		return list, err
	}

	return list, nil
}

// UpdateAccess changes the role on an existing access grant. The server
// returns the full updated resource.
func (c *Client) UpdateAccess(ctx context.Context, documentID, accessID, role string) (Access, error) {
	var access Access

	data, err := json.Marshal(map[string]string{"role": role})
	if err != nil {
		return access, fmt.Errorf("marshalling access update request: %w", err)
	}

	accessURL := customAPIRoot + "documents/" + url.PathEscape(documentID) +
		"/accesses/" + url.PathEscape(accessID) + "/"
	res, err := c.apiCall(ctx, "PATCH", accessURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return access, err
	}
	defer closeBodySafely(res.Body, c.logger, "update access")

	if err := json.NewDecoder(res.Body).Decode(&access); err != nil {
		return access, fmt.Errorf("%w: decoding access response: %v", ErrDecodingFailed, err)
	}

	return access, nil
}

// DeleteAccess revokes an access grant from a document.
func (c *Client) DeleteAccess(ctx context.Context, documentID, accessID string) error {
	accessURL := customAPIRoot + "documents/" + url.PathEscape(documentID) +
		"/accesses/" + url.PathEscape(accessID) + "/"
	res, err := c.apiCall(ctx, "DELETE", accessURL, "", nil)
	if err != nil {
		return err
	}
	defer closeBodySafely(res.Body, c.logger, "delete access")

	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		return fmt.Errorf("delete access failed with status: %s", res.Status)
	}

	return nil
}
