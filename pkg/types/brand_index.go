package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// BrandIndex maps a normalized brand name to the ids of the products
// carrying that brand within one subcategory. A brand key exists if and
// only if it has at least one product id.
type BrandIndex map[string][]uuid.UUID

// Add registers a product under a brand. Adding the same product twice
// is a no-op.
func (b BrandIndex) Add(brand string, productID uuid.UUID) {
	for _, id := range b[brand] {
		if id == productID {
			return
		}
	}
	b[brand] = append(b[brand], productID)
}

// Remove drops a product from a brand and deletes the key when the
// brand has no products left.
func (b BrandIndex) Remove(brand string, productID uuid.UUID) {
	ids := b[brand]
	for i, id := range ids {
		if id == productID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(b, brand)
		return
	}
	b[brand] = ids
}

// Contains reports whether the brand lists the given product.
func (b BrandIndex) Contains(brand string, productID uuid.UUID) bool {
	for _, id := range b[brand] {
		if id == productID {
			return true
		}
	}
	return false
}

// Brands returns the brand names in lexical order.
func (b BrandIndex) Brands() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value serializes the index as jsonb.
func (b BrandIndex) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("brand index: marshal: %w", err)
	}
	return raw, nil
}

// Scan accepts the jsonb bytes returned by Postgres.
func (b *BrandIndex) Scan(value interface{}) error {
	if value == nil {
		*b = BrandIndex{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("brand index: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*b = BrandIndex{}
		return nil
	}

	var parsed BrandIndex
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("brand index: unmarshal: %w", err)
	}
	if parsed == nil {
		parsed = BrandIndex{}
	}
	*b = parsed
	return nil
}
