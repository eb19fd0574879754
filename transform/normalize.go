package transform

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	xtransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText strips diacritics, lower-cases and collapses whitespace,
// so that "Zapojení  Týmu" and "zapojeni tymu" compare equal.
func NormalizeText(s string) string {
	// The chain keeps state, so it is built per call
	t := xtransform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := xtransform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// containsAny reports whether one of the markers starts a word of the
// normalized text: "rate" matches "return rate" and "rates" but not "generated".
func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if hasWordPrefix(text, marker) {
			return true
		}
	}
	return false
}

func hasWordPrefix(text, marker string) bool {
	if marker == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], marker)
		if i < 0 {
			return false
		}
		i += offset
		if i == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		offset = i + 1
	}
	return false
}

// ParseLocaleNumber parses a cell value written with either "." or ","
// as decimal separator. It returns false for empty, unparseable or
// non-finite values; those are treated as absent, never as zero.
func ParseLocaleNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	// Thousands separators written as spaces
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\u202f' {
			return -1
		}
		return r
	}, s)

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		// The separator that comes last is the decimal one
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return 0, false
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// roundTo1 rounds to one decimal place
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// formatPercent renders a percentage such as 85.5 as "85.5%"
func formatPercent(v float64) string {
	return strconv.FormatFloat(roundTo1(v), 'f', -1, 64) + "%"
}

// slugify builds a URL-safe identifier from an area title
func slugify(title string) string {
	normalized := NormalizeText(title)
	var b strings.Builder
	lastDash := false
	for _, r := range normalized {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "area"
	}
	return slug
}
