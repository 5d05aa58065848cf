package app

import (
	"context"

	"github.com/rvveber/docs/pkg/docs"
)

// SDK is the interface the command layer uses to talk to the docs API. It
// exists so command logic can be tested against a mock. It is a superset of
// share.API, so an SDK can back a share picker directly.
type SDK interface {
	GetMe(ctx context.Context) (docs.User, error)
	GetDocument(ctx context.Context, documentID string) (docs.Document, error)
	ListDocuments(ctx context.Context, cursor string) (docs.DocumentList, error)
	DeleteDocument(ctx context.Context, documentID string) error
	ListAccesses(ctx context.Context, documentID, cursor string) (docs.AccessList, error)
	UpdateAccess(ctx context.Context, documentID, accessID, role string) (docs.Access, error)
	DeleteAccess(ctx context.Context, documentID, accessID string) error
	ListInvitations(ctx context.Context, documentID, cursor string) (docs.InvitationList, error)
	CreateInvitation(ctx context.Context, documentID string, request docs.InvitationRequest) (docs.Invitation, error)
	DeleteInvitation(ctx context.Context, documentID, invitationID string) error
	SearchUsers(ctx context.Context, query, documentID string) ([]docs.User, error)
	UpdateUser(ctx context.Context, userID string, fields map[string]string) (docs.User, error)
}

// LiveSDK is the concrete implementation backed by a real docs client.
type LiveSDK struct {
	client *docs.Client
}

// NewDocsSDK wraps a docs client in the SDK interface.
func NewDocsSDK(client *docs.Client) *LiveSDK {
	return &LiveSDK{client: client}
}

func (s *LiveSDK) GetMe(ctx context.Context) (docs.User, error) {
	return s.client.GetMe(ctx)
}

func (s *LiveSDK) GetDocument(ctx context.Context, documentID string) (docs.Document, error) {
	return s.client.GetDocument(ctx, documentID)
}

func (s *LiveSDK) ListDocuments(ctx context.Context, cursor string) (docs.DocumentList, error) {
	return s.client.ListDocuments(ctx, cursor)
}

func (s *LiveSDK) DeleteDocument(ctx context.Context, documentID string) error {
	return s.client.DeleteDocument(ctx, documentID)
}

func (s *LiveSDK) ListAccesses(ctx context.Context, documentID, cursor string) (docs.AccessList, error) {
	return s.client.ListAccesses(ctx, documentID, cursor)
}

func (s *LiveSDK) UpdateAccess(ctx context.Context, documentID, accessID, role string) (docs.Access, error) {
	return s.client.UpdateAccess(ctx, documentID, accessID, role)
}

func (s *LiveSDK) DeleteAccess(ctx context.Context, documentID, accessID string) error {
	return s.client.DeleteAccess(ctx, documentID, accessID)
}

func (s *LiveSDK) ListInvitations(ctx context.Context, documentID, cursor string) (docs.InvitationList, error) {
	return s.client.ListInvitations(ctx, documentID, cursor)
}

func (s *LiveSDK) CreateInvitation(ctx context.Context, documentID string, request docs.InvitationRequest) (docs.Invitation, error) {
	return s.client.CreateInvitation(ctx, documentID, request)
}

func (s *LiveSDK) DeleteInvitation(ctx context.Context, documentID, invitationID string) error {
	return s.client.DeleteInvitation(ctx, documentID, invitationID)
}

func (s *LiveSDK) SearchUsers(ctx context.Context, query, documentID string) ([]docs.User, error) {
	return s.client.SearchUsers(ctx, query, documentID)
}

func (s *LiveSDK) UpdateUser(ctx context.Context, userID string, fields map[string]string) (docs.User, error) {
	return s.client.UpdateUser(ctx, userID, fields)
}
