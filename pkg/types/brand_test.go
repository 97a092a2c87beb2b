package types

import "testing"

func TestNormalizeBrand(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "Torku", "Torku"},
		{"lowercase dotted i", "istanbul", "İstanbul"},
		{"uppercase dotless text", "IĞDIR", "Iğdır"},
		{"uppercase dotted", "İSTANBUL", "İstanbul"},
		{"multi word", "domates çiftliği", "Domates çiftliği"},
		{"surrounding whitespace", "  ülker  ", "Ülker"},
		{"single rune", "a", "A"},
		{"single dotless rune", "ı", "I"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeBrand(tc.in); got != tc.want {
				t.Fatalf("NormalizeBrand(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
