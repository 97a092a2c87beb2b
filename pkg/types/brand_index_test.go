package types

import (
	"testing"

	"github.com/google/uuid"
)

func TestBrandIndexAddDeduplicates(t *testing.T) {
	idx := BrandIndex{}
	productID := uuid.New()

	idx.Add("Torku", productID)
	idx.Add("Torku", productID)

	if got := len(idx["Torku"]); got != 1 {
		t.Fatalf("expected one entry for brand, got %d", got)
	}
}

func TestBrandIndexRemoveDeletesEmptyKey(t *testing.T) {
	idx := BrandIndex{}
	first := uuid.New()
	second := uuid.New()
	idx.Add("Ülker", first)
	idx.Add("Ülker", second)

	idx.Remove("Ülker", first)
	if !idx.Contains("Ülker", second) {
		t.Fatal("remaining product dropped from brand")
	}

	idx.Remove("Ülker", second)
	if _, ok := idx["Ülker"]; ok {
		t.Fatal("brand key should be deleted once its last product is removed")
	}
}

func TestBrandIndexRemoveUnknownProductIsNoop(t *testing.T) {
	idx := BrandIndex{}
	kept := uuid.New()
	idx.Add("Eti", kept)

	idx.Remove("Eti", uuid.New())
	if !idx.Contains("Eti", kept) {
		t.Fatal("unrelated removal must not drop existing products")
	}
}

func TestBrandIndexScanRoundTrip(t *testing.T) {
	idx := BrandIndex{}
	productID := uuid.New()
	idx.Add("Pınar", productID)

	raw, err := idx.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var parsed BrandIndex
	if err := parsed.Scan(raw); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !parsed.Contains("Pınar", productID) {
		t.Fatal("round-tripped index lost the product entry")
	}
}

func TestBrandIndexScanNilYieldsEmptyMap(t *testing.T) {
	var parsed BrandIndex
	if err := parsed.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if parsed == nil || len(parsed) != 0 {
		t.Fatalf("expected empty index, got %v", parsed)
	}
}

func TestBrandIndexBrandsSorted(t *testing.T) {
	idx := BrandIndex{}
	idx.Add("Torku", uuid.New())
	idx.Add("Eti", uuid.New())
	idx.Add("Pınar", uuid.New())

	brands := idx.Brands()
	want := []string{"Eti", "Pınar", "Torku"}
	if len(brands) != len(want) {
		t.Fatalf("Brands() length = %d, want %d", len(brands), len(want))
	}
	for i := range want {
		if brands[i] != want[i] {
			t.Fatalf("Brands()[%d] = %q, want %q", i, brands[i], want[i])
		}
	}
}
