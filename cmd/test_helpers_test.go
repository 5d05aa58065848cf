package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rvveber/docs/internal/app"
	"github.com/rvveber/docs/internal/config"
	"github.com/rvveber/docs/internal/logger"
	"github.com/rvveber/docs/internal/ui"
	"github.com/rvveber/docs/pkg/docs"
)

// MockSDK is a mock implementation of the SDK interface for testing command
// logic without a network.
type MockSDK struct {
	GetMeFunc            func(ctx context.Context) (docs.User, error)
	GetDocumentFunc      func(ctx context.Context, documentID string) (docs.Document, error)
	ListDocumentsFunc    func(ctx context.Context, cursor string) (docs.DocumentList, error)
	DeleteDocumentFunc   func(ctx context.Context, documentID string) error
	ListAccessesFunc     func(ctx context.Context, documentID, cursor string) (docs.AccessList, error)
	UpdateAccessFunc     func(ctx context.Context, documentID, accessID, role string) (docs.Access, error)
	DeleteAccessFunc     func(ctx context.Context, documentID, accessID string) error
	ListInvitationsFunc  func(ctx context.Context, documentID, cursor string) (docs.InvitationList, error)
	CreateInvitationFunc func(ctx context.Context, documentID string, request docs.InvitationRequest) (docs.Invitation, error)
	DeleteInvitationFunc func(ctx context.Context, documentID, invitationID string) error
	SearchUsersFunc      func(ctx context.Context, query, documentID string) ([]docs.User, error)
	UpdateUserFunc       func(ctx context.Context, userID string, fields map[string]string) (docs.User, error)
}

func (m *MockSDK) GetMe(ctx context.Context) (docs.User, error) {
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx)
	}
	return docs.User{}, nil
}

func (m *MockSDK) GetDocument(ctx context.Context, documentID string) (docs.Document, error) {
	if m.GetDocumentFunc != nil {
		return m.GetDocumentFunc(ctx, documentID)
	}
	return docs.Document{}, nil
}

func (m *MockSDK) ListDocuments(ctx context.Context, cursor string) (docs.DocumentList, error) {
	if m.ListDocumentsFunc != nil {
		return m.ListDocumentsFunc(ctx, cursor)
	}
	return docs.DocumentList{}, nil
}

func (m *MockSDK) DeleteDocument(ctx context.Context, documentID string) error {
	if m.DeleteDocumentFunc != nil {
		return m.DeleteDocumentFunc(ctx, documentID)
	}
	return nil
}

func (m *MockSDK) ListAccesses(ctx context.Context, documentID, cursor string) (docs.AccessList, error) {
	if m.ListAccessesFunc != nil {
		return m.ListAccessesFunc(ctx, documentID, cursor)
	}
	return docs.AccessList{}, nil
}

func (m *MockSDK) UpdateAccess(ctx context.Context, documentID, accessID, role string) (docs.Access, error) {
	if m.UpdateAccessFunc != nil {
		return m.UpdateAccessFunc(ctx, documentID, accessID, role)
	}
	return docs.Access{}, nil
}

func (m *MockSDK) DeleteAccess(ctx context.Context, documentID, accessID string) error {
	if m.DeleteAccessFunc != nil {
		return m.DeleteAccessFunc(ctx, documentID, accessID)
	}
	return nil
}

func (m *MockSDK) ListInvitations(ctx context.Context, documentID, cursor string) (docs.InvitationList, error) {
	if m.ListInvitationsFunc != nil {
		return m.ListInvitationsFunc(ctx, documentID, cursor)
	}
	return docs.InvitationList{}, nil
}

func (m *MockSDK) CreateInvitation(ctx context.Context, documentID string, request docs.InvitationRequest) (docs.Invitation, error) {
	if m.CreateInvitationFunc != nil {
		return m.CreateInvitationFunc(ctx, documentID, request)
	}
	return docs.Invitation{}, nil
}

func (m *MockSDK) DeleteInvitation(ctx context.Context, documentID, invitationID string) error {
	if m.DeleteInvitationFunc != nil {
		return m.DeleteInvitationFunc(ctx, documentID, invitationID)
	}
	return nil
}

func (m *MockSDK) SearchUsers(ctx context.Context, query, documentID string) ([]docs.User, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, query, documentID)
	}
	return nil, nil
}

func (m *MockSDK) UpdateUser(ctx context.Context, userID string, fields map[string]string) (docs.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, userID, fields)
	}
	return docs.User{}, nil
}

// newTestApp builds an App around a mock SDK.
func newTestApp(mock *MockSDK) *app.App {
	return &app.App{
		Config: &config.Configuration{},
		Logger: &logger.NoopLogger{},
		SDK:    mock,
	}
}

// newTestCommand builds a bare command with the standard paging and role
// flags so logic functions can parse them.
func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())
	ui.AddPagingFlags(cmd)
	cmd.Flags().String("role", docs.RoleReader, "")
	return cmd
}

// viewManageDoc returns a document granting both view and manage.
func viewManageDoc(id string) docs.Document {
	return docs.Document{
		ID: id,
		Abilities: docs.Abilities{
			AccessesView:   true,
			AccessesManage: true,
		},
	}
}
