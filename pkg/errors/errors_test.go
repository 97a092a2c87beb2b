package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusForbidden},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusBadRequest},
		{CodeDependent, http.StatusBadRequest},
		{CodeStateConflict, http.StatusBadRequest},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Errorf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code mapped to %d, want 500", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeInternal, cause, "saving product")
	if err.Unwrap() != cause {
		t.Fatal("Unwrap did not return the wrapped cause")
	}
	if !IsCode(err, CodeInternal) {
		t.Fatal("IsCode did not match the wrapped code")
	}
}

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	inner := New(CodeNotFound, "product not found")
	outer := fmt.Errorf("loading cart line: %w", inner)
	typed := As(outer)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("As(outer) = %v, want the nested NOT_FOUND error", typed)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeConflict, fmt.Errorf("duplicate key"), "sku already registered")
	d := Dump(err)
	if d.Code != CodeConflict {
		t.Errorf("Dump code = %s, want %s", d.Code, CodeConflict)
	}
	if len(d.Chain) < 2 {
		t.Errorf("Dump chain length = %d, want at least 2", len(d.Chain))
	}
}
