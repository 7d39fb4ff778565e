// internal/core/services/catalog_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

func TestCatalogService_FindOrCreate(t *testing.T) {
	acme := &domain.CatalogEntry{ID: 4, Kind: domain.CatalogManufacturer, Name: "Acme"}

	tests := []struct {
		name          string
		token         domain.NameOrID
		setupMocks    func(*mockStore)
		expectedID    int64
		expectedError error
		errorContains string
	}{
		{
			name:  "id_must_exist",
			token: domain.NameOrID{ID: 4},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().GetByID(gomock.Any(), domain.CatalogManufacturer, int64(4)).Return(acme, nil)
			},
			expectedID: 4,
		},
		{
			name:  "unknown_id",
			token: domain.NameOrID{ID: 99},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().GetByID(gomock.Any(), domain.CatalogManufacturer, int64(99)).
					Return(nil, domain.NewNotFound("manufacturer", 99))
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:  "name_is_upserted",
			token: domain.NameOrID{Name: "  Acme "},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().Upsert(gomock.Any(), domain.CatalogManufacturer, "Acme").Return(acme, nil)
			},
			expectedID: 4,
		},
		{
			name:  "conflict_is_retried",
			token: domain.NameOrID{Name: "Acme"},
			setupMocks: func(m *mockStore) {
				gomock.InOrder(
					m.catalog.EXPECT().Upsert(gomock.Any(), domain.CatalogManufacturer, "Acme").
						Return(nil, domain.NewConflict("duplicate")),
					m.catalog.EXPECT().Upsert(gomock.Any(), domain.CatalogManufacturer, "Acme").
						Return(acme, nil),
				)
			},
			expectedID: 4,
		},
		{
			name:  "gives_up_after_three_conflicts",
			token: domain.NameOrID{Name: "Acme"},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().Upsert(gomock.Any(), domain.CatalogManufacturer, "Acme").
					Return(nil, domain.NewConflict("duplicate")).
					Times(3)
			},
			expectedError: domain.ErrConflict,
			errorContains: "after 3 attempts",
		},
		{
			name:  "other_errors_are_not_retried",
			token: domain.NameOrID{Name: "Acme"},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().Upsert(gomock.Any(), domain.CatalogManufacturer, "Acme").
					Return(nil, errors.New("connection reset"))
			},
			errorContains: "connection reset",
		},
		{
			name:          "name_too_short",
			token:         domain.NameOrID{Name: "A"},
			setupMocks:    func(m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "empty_token",
			setupMocks:    func(m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			tt.setupMocks(m)

			svc := services.NewCatalogService(m.store, m.cache, helpers.TestLogger())
			entry, err := svc.FindOrCreate(context.Background(), domain.CatalogManufacturer, tt.token)

			if tt.expectedError != nil || tt.errorContains != "" {
				require.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedID, entry.ID)
		})
	}
}

func TestCatalogService_Create(t *testing.T) {
	tests := []struct {
		name          string
		entry         *domain.CatalogEntry
		setupMocks    func(*mockStore)
		expectedError error
		errorContains string
	}{
		{
			name:  "creates_supplier",
			entry: &domain.CatalogEntry{Kind: domain.CatalogSupplier, Name: "MedSupply", Contact: "+15551234567"},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:  "duplicate_name",
			entry: &domain.CatalogEntry{Kind: domain.CatalogUnit, Name: "tablet"},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.NewConflict("unique violation"))
			},
			expectedError: domain.ErrConflict,
			errorContains: `unit "tablet" already exists`,
		},
		{
			name:          "short_supplier_contact",
			entry:         &domain.CatalogEntry{Kind: domain.CatalogSupplier, Name: "MedSupply", Contact: "123"},
			setupMocks:    func(m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "unknown_kind",
			entry:         &domain.CatalogEntry{Kind: "colours", Name: "red"},
			setupMocks:    func(m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			tt.setupMocks(m)

			svc := services.NewCatalogService(m.store, m.cache, helpers.TestLogger())
			err := svc.Create(context.Background(), tt.entry)

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

func TestCatalogService_Update(t *testing.T) {
	tests := []struct {
		name          string
		entry         *domain.CatalogEntry
		setupMocks    func(*mockStore)
		expectedError error
		errorContains string
	}{
		{
			name:  "renames_supplier",
			entry: &domain.CatalogEntry{ID: 2, Kind: domain.CatalogSupplier, Name: "MedSupply Ltd", Contact: "+15551234567"},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, e *domain.CatalogEntry) error {
						assert.Equal(t, int64(2), e.ID)
						assert.Equal(t, "MedSupply Ltd", e.Name)
						return nil
					})
			},
		},
		{
			name:  "name_taken",
			entry: &domain.CatalogEntry{ID: 2, Kind: domain.CatalogUnit, Name: "tablet"},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().Update(gomock.Any(), gomock.Any()).Return(domain.NewConflict("unique violation"))
			},
			expectedError: domain.ErrConflict,
			errorContains: `unit "tablet" already exists`,
		},
		{
			name:  "unknown_entry",
			entry: &domain.CatalogEntry{ID: 99, Kind: domain.CatalogCategory, Name: "Antibiotic"},
			setupMocks: func(m *mockStore) {
				m.catalog.EXPECT().Update(gomock.Any(), gomock.Any()).Return(domain.NewNotFound("category", 99))
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "missing_id",
			entry:         &domain.CatalogEntry{Kind: domain.CatalogUnit, Name: "tablet"},
			setupMocks:    func(m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "blank_name",
			entry:         &domain.CatalogEntry{ID: 2, Kind: domain.CatalogUnit, Name: " "},
			setupMocks:    func(m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			tt.setupMocks(m)

			svc := services.NewCatalogService(m.store, m.cache, helpers.TestLogger())
			err := svc.Update(context.Background(), tt.entry)

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
