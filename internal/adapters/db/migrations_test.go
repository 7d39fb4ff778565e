package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppliedMigrations(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []AppliedMigration
		wantErr   bool
	}{
		{
			name: "returns_rows_in_order",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"version", "dirty"}).
					AddRow(1, false).
					AddRow(2, true)
				mock.ExpectQuery(`SELECT version, dirty FROM public.schema_migrations ORDER BY version ASC`).
					WillReturnRows(rows)
			},
			want: []AppliedMigration{{Version: 1}, {Version: 2, Dirty: true}},
		},
		{
			name: "empty_table",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT version, dirty FROM public.schema_migrations`).
					WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}))
			},
			want: []AppliedMigration{},
		},
		{
			name: "query_error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT version, dirty`).
					WillReturnError(errors.New("relation does not exist"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer sqlDB.Close()

			tt.setupMock(mock)

			got, err := appliedMigrations(context.Background(), sqlDB, "public", "schema_migrations")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrationFilesEmbedded(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init_schema.up.sql")
	assert.Contains(t, names, "000001_init_schema.down.sql")
}
