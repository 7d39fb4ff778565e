package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

func TestNameOrID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.NameOrID
	}{
		{name: "number_is_id", input: `12`, want: domain.NameOrID{ID: 12}},
		{name: "string_is_name", input: `"Pfizer"`, want: domain.NameOrID{Name: "Pfizer"}},
		{name: "numeric_string_is_id", input: `"3"`, want: domain.NameOrID{ID: 3}},
		{name: "null_is_zero", input: `null`, want: domain.NameOrID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.NameOrID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad domain.NameOrID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestParseCatalogKind(t *testing.T) {
	kind, err := domain.ParseCatalogKind("Manufacturer")
	require.NoError(t, err)
	assert.Equal(t, domain.CatalogManufacturer, kind)
	assert.Equal(t, "manufacturer", kind.Entity())

	_, err = domain.ParseCatalogKind("vendors")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalogEntry_Validate(t *testing.T) {
	e := &domain.CatalogEntry{Kind: domain.CatalogUnit, Name: "  mg  "}
	require.NoError(t, e.Validate())
	assert.Equal(t, "mg", e.Name)

	e = &domain.CatalogEntry{Kind: domain.CatalogSupplier, Name: "Acme", Contact: "123"}
	assert.ErrorIs(t, e.Validate(), domain.ErrValidation)

	e = &domain.CatalogEntry{Kind: domain.CatalogCategory, Name: "x"}
	assert.ErrorIs(t, e.Validate(), domain.ErrValidation)
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "SALE-1", domain.FormatReference(domain.TransactionSale, 1))
	assert.Equal(t, "PURCHASE-42", domain.FormatReference(domain.TransactionPurchase, 42))
}

func TestNewTransactionPage(t *testing.T) {
	f := domain.TransactionFilter{Page: 0, Limit: 0}
	f.Normalize()
	page := domain.NewTransactionPage(nil, f, 41)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.NotNil(t, page.Items)
}

func TestErrorsIs(t *testing.T) {
	assert.ErrorIs(t, domain.NewNotFound("medicine", 4), domain.ErrNotFound)
	assert.EqualError(t, domain.NewNotFound("medicine", 4), "medicine 4 not found")
	assert.ErrorIs(t, domain.NewConflict("batch %d busy", 1), domain.ErrConflict)
	assert.ErrorIs(t, domain.Unauthorized("expired"), domain.ErrUnauthorized)
	assert.NotErrorIs(t, domain.NewValidation("x", "bad"), domain.ErrNotFound)
}
