// Package textnorm canonicalizes free-text answers and ISO codes so they can
// be compared for equality. All functions are total and safe for concurrent use.
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxIntegerDigits bounds ParseStrictInt so the result always fits in an int64.
const MaxIntegerDigits = 15

// Transformer chains keep internal state, so each call borrows its own.
var stripPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	},
}

func stripMarks(s string) string {
	t := stripPool.Get().(transform.Transformer)
	out, _, err := transform.String(t, s)
	t.Reset()
	stripPool.Put(t)
	if err != nil {
		return s
	}
	return out
}

// Text lowercases s, strips accents, replaces every run of characters
// outside [a-z0-9] with a single space and trims the result.
//
//	Text("  Córdoba ")          == "cordoba"
//	Text("Côte d'Ivoire")       == "cote d ivoire"
//	Text("  Multiple   Spaces ") == "multiple spaces"
func Text(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = stripMarks(s)

	var b strings.Builder
	b.Grow(len(s))
	gap := false
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte(' ')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// Code keeps only ASCII letters and uppercases them, e.g. " usd. " -> "USD".
func Code(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z':
			b.WriteByte(c)
		case 'a' <= c && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}

// ParseStrictInt parses a non-negative integer written with optional comma
// or space grouping ("1,234,567", "1 234 567"). Signs, decimals and any other
// character make the input invalid, as does more than MaxIntegerDigits digits.
func ParseStrictInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" || len(s) > MaxIntegerDigits {
		return 0, false
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, true
}
