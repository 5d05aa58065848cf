package docs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInvitations(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/doc1/invitations/", r.URL.Path)
		// The invitations endpoint reports no count and a null cursor once
		// exhausted.
		w.Write([]byte(`{
			"next": null,
			"results": [
				{"id": "inv1", "email": "bob@example.com", "role": "reader", "status": "pending"}
			]
		}`))
	}))

	list, err := client.ListInvitations(context.Background(), "doc1", "")
	require.NoError(t, err)

	assert.Empty(t, list.Next)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "bob@example.com", list.Results[0].Email)
	assert.Equal(t, "pending", list.Results[0].Status)
}

func TestCreateInvitationByEmail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents/doc1/invitations/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		// Only the email and role fields may be present.
		assert.Equal(t, map[string]any{"email": "bob@example.com", "role": "reader"}, payload)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": "inv9", "email": "bob@example.com", "role": "reader", "status": "pending"}`))
	}))

	invitation, err := client.CreateInvitation(context.Background(), "doc1", InvitationRequest{
		Email: "bob@example.com",
		Role:  RoleReader,
	})
	require.NoError(t, err)
	assert.Equal(t, "inv9", invitation.ID)
	assert.Equal(t, "bob@example.com", invitation.Email)
}

func TestCreateInvitationByUserID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, map[string]any{"user_id": "u7", "role": "editor"}, payload)

		w.Write([]byte(`{"id": "inv10", "role": "editor", "status": "pending"}`))
	}))

	invitation, err := client.CreateInvitation(context.Background(), "doc1", InvitationRequest{
		UserID: "u7",
		Role:   RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, "inv10", invitation.ID)
}

func TestCreateInvitationConflict(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "This email is already invited."}`))
	}))

	_, err := client.CreateInvitation(context.Background(), "doc1", InvitationRequest{
		Email: "bob@example.com",
		Role:  RoleReader,
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteInvitation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/documents/doc1/invitations/inv1/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.DeleteInvitation(context.Background(), "doc1", "inv1"))
}
