// internal/core/services/user_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

var adminCaller = domain.Identity{ID: 1, Role: domain.RoleAdmin}

func strPtr(s string) *string { return &s }

func rolePtr(r domain.Role) *domain.Role { return &r }

func testUser(id int64) *domain.User {
	return &domain.User{ID: id, Name: "Jane Doe", Email: "jane@example.com", Role: domain.RolePharmacist, PasswordHash: "old"}
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name          string
		id            int64
		upd           domain.UserUpdate
		setupMocks    func(*testing.T, *mockStore)
		expectedError error
		errorContains string
	}{
		{
			name: "promotes_and_audits",
			id:   4,
			upd:  domain.UserUpdate{Role: rolePtr(domain.RoleAdmin)},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.users.EXPECT().GetByID(gomock.Any(), int64(4)).Return(testUser(4), nil)
				m.users.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, u *domain.User) error {
						assert.Equal(t, domain.RoleAdmin, u.Role)
						assert.Equal(t, "old", u.PasswordHash)
						return nil
					})
				m.audit.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, a *domain.AuditLog) error {
						assert.Equal(t, int64(1), *a.UserID)
						assert.Equal(t, domain.AuditUserUpdated, a.Action)
						assert.Equal(t, "user 4: role=admin", a.Details)
						return nil
					})
			},
		},
		{
			name: "hashes_new_password",
			id:   4,
			upd:  domain.UserUpdate{Password: strPtr("n3wpassword")},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.users.EXPECT().GetByID(gomock.Any(), int64(4)).Return(testUser(4), nil)
				m.users.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, u *domain.User) error {
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("n3wpassword")))
						return nil
					})
				m.audit.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:          "cannot_demote_self",
			id:            1,
			upd:           domain.UserUpdate{Role: rolePtr(domain.RolePharmacist)},
			setupMocks:    func(t *testing.T, m *mockStore) {},
			expectedError: domain.ErrConflict,
			errorContains: "own account",
		},
		{
			name:          "empty_update",
			id:            4,
			setupMocks:    func(t *testing.T, m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name: "unknown_user",
			id:   9,
			upd:  domain.UserUpdate{Name: strPtr("Someone")},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.users.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, domain.NewNotFound("user", 9))
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "email_taken",
			id:   4,
			upd:  domain.UserUpdate{Email: strPtr("taken@example.com")},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.users.EXPECT().GetByID(gomock.Any(), int64(4)).Return(testUser(4), nil)
				m.users.EXPECT().Update(gomock.Any(), gomock.Any()).
					Return(domain.NewConflict("email taken@example.com is already registered"))
			},
			expectedError: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			tt.setupMocks(t, m)

			svc := services.NewUserService(m.store, bcrypt.MinCost, helpers.TestLogger())
			user, err := svc.Update(context.Background(), adminCaller, tt.id, tt.upd)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, user.ID)
		})
	}
}

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		id            int64
		setupMocks    func(*mockStore)
		expectedError error
		errorContains string
	}{
		{
			name: "deletes_and_audits",
			id:   4,
			setupMocks: func(m *mockStore) {
				m.users.EXPECT().GetByID(gomock.Any(), int64(4)).Return(testUser(4), nil)
				m.users.EXPECT().Delete(gomock.Any(), int64(4)).Return(nil)
				m.audit.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, a *domain.AuditLog) error {
						assert.Equal(t, domain.AuditUserDeleted, a.Action)
						assert.Equal(t, "user 4 (jane@example.com)", a.Details)
						return nil
					})
			},
		},
		{
			name:          "cannot_delete_self",
			id:            1,
			setupMocks:    func(m *mockStore) {},
			expectedError: domain.ErrConflict,
			errorContains: "own account",
		},
		{
			name: "user_with_history",
			id:   4,
			setupMocks: func(m *mockStore) {
				m.users.EXPECT().GetByID(gomock.Any(), int64(4)).Return(testUser(4), nil)
				m.users.EXPECT().Delete(gomock.Any(), int64(4)).
					Return(domain.NewConflict("user is referenced by other records"))
			},
			expectedError: domain.ErrConflict,
			errorContains: "recorded purchases or sales",
		},
		{
			name: "unknown_user",
			id:   9,
			setupMocks: func(m *mockStore) {
				m.users.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, domain.NewNotFound("user", 9))
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			tt.setupMocks(m)

			svc := services.NewUserService(m.store, bcrypt.MinCost, helpers.TestLogger())
			err := svc.Delete(context.Background(), adminCaller, tt.id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				return
			}
			assert.NoError(t, err)
		})
	}
}
