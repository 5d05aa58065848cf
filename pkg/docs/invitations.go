package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListInvitations retrieves one page of pending invitations on a document.
// Unlike accesses, the invitations endpoint reports no total count. Pass an
// empty cursor for page one.
func (c *Client) ListInvitations(ctx context.Context, documentID, cursor string) (InvitationList, error) {
	var list InvitationList

	listURL := customAPIRoot + "documents/" + url.PathEscape(documentID) + "/invitations/"
	if cursor != "" {
		listURL = cursor
	}

	if err := c.getAndDecode(ctx, listURL, &list, "invitation list"); err != nil {
		return list, err
	}

	return list, nil
}

// CreateInvitation issues a single invitation on a document. Each call
// succeeds or fails independently; inviting several people means one call
// per person.
func (c *Client) CreateInvitation(ctx context.Context, documentID string, request InvitationRequest) (Invitation, error) {
	var invitation Invitation

	data, err := json.Marshal(request)
	if err != nil {
		return invitation, fmt.Errorf("marshalling invitation request: %w", err)
	}

	inviteURL := customAPIRoot + "documents/" + url.PathEscape(documentID) + "/invitations/"
	res, err := c.apiCall(ctx, "POST", inviteURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return invitation, err
	}
	defer closeBodySafely(res.Body, c.logger, "create invitation")

	if err := json.NewDecoder(res.Body).Decode(&invitation); err != nil {
		return invitation, fmt.Errorf("%w: decoding invitation response: %v", ErrDecodingFailed, err)
	}

	return invitation, nil
}

// DeleteInvitation withdraws a pending invitation.
func (c *Client) DeleteInvitation(ctx context.Context, documentID, invitationID string) error {
	inviteURL := customAPIRoot + "documents/" + url.PathEscape(documentID) +
		"/invitations/" + url.PathEscape(invitationID) + "/"
	res, err := c.apiCall(ctx, "DELETE", inviteURL, "", nil)
	if err != nil {
		return err
	}
	defer closeBodySafely(res.Body, c.logger, "delete invitation")

	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		return fmt.Errorf("delete invitation failed with status: %s", res.Status)
	}

	return nil
}
