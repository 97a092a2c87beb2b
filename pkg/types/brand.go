package types

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	turkishUpper = cases.Upper(language.Turkish)
	turkishLower = cases.Lower(language.Turkish)
)

// NormalizeBrand canonicalizes a brand name before it is stored on a
// product or used as a brand index key: trimmed, first code point
// upper-cased, remainder lower-cased. Casing follows Turkish rules so
// "istanbul" becomes "İstanbul" and "IĞDIR" becomes "Iğdır".
func NormalizeBrand(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	runes := []rune(trimmed)
	head := turkishUpper.String(string(runes[:1]))
	if len(runes) == 1 {
		return head
	}
	return head + turkishLower.String(string(runes[1:]))
}
