// internal/core/domain/catalog.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CatalogKind identifies one of the reference catalog tables.
type CatalogKind string

const (
	CatalogManufacturer CatalogKind = "manufacturers"
	CatalogUnit         CatalogKind = "units"
	CatalogCategory     CatalogKind = "categories"
	CatalogSupplier     CatalogKind = "suppliers"
)

// ParseCatalogKind accepts plural or singular kind names.
func ParseCatalogKind(s string) (CatalogKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manufacturers", "manufacturer":
		return CatalogManufacturer, nil
	case "units", "unit":
		return CatalogUnit, nil
	case "categories", "category":
		return CatalogCategory, nil
	case "suppliers", "supplier":
		return CatalogSupplier, nil
	}
	return "", NewValidation("kind", fmt.Sprintf("unknown catalog kind %q", s))
}

// Entity returns the singular entity name used in error messages.
func (k CatalogKind) Entity() string {
	switch k {
	case CatalogManufacturer:
		return "manufacturer"
	case CatalogUnit:
		return "unit"
	case CatalogCategory:
		return "category"
	case CatalogSupplier:
		return "supplier"
	}
	return string(k)
}

// CatalogEntry is a manufacturer, unit, category or supplier.
type CatalogEntry struct {
	ID        int64       `json:"id"`
	Kind      CatalogKind `json:"kind"`
	Name      string      `json:"name"`
	Contact   string      `json:"contact,omitempty"`
	Email     string      `json:"email,omitempty"`
	Address   string      `json:"address,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Validate checks the entry name length.
func (c *CatalogEntry) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if n := len(c.Name); n < 2 || n > 100 {
		return NewValidation("name", "must be between 2 and 100 characters")
	}
	if c.Kind == CatalogSupplier && c.Contact != "" {
		if n := len(c.Contact); n < 10 || n > 20 {
			return NewValidation("contact", "must be between 10 and 20 characters")
		}
	}
	return nil
}

// NameOrID references a catalog entry either by numeric id or by name.
// JSON numbers decode as ids, strings as names unless they are all digits.
type NameOrID struct {
	ID   int64
	Name string
}

// ParseNameOrID interprets a spreadsheet cell or query value.
func ParseNameOrID(s string) NameOrID {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return NameOrID{ID: id}
	}
	return NameOrID{Name: s}
}

// IsZero reports whether neither id nor name is set.
func (t NameOrID) IsZero() bool { return t.ID == 0 && t.Name == "" }

func (t NameOrID) String() string {
	if t.ID > 0 {
		return strconv.FormatInt(t.ID, 10)
	}
	return t.Name
}

func (t *NameOrID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = NameOrID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ParseNameOrID(s)
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("expected id or name: %w", err)
	}
	*t = NameOrID{ID: id}
	return nil
}

func (t NameOrID) MarshalJSON() ([]byte, error) {
	if t.ID > 0 {
		return json.Marshal(t.ID)
	}
	return json.Marshal(t.Name)
}
