package keygen

import "strings"

// NormalizeField canonicalizes a name-like cell value for key building.
func NormalizeField(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// NormalizeIdentifier canonicalizes an identifier cell value. The value is
// upper-cased and trimmed, a trailing ".0" left behind by spreadsheet float
// coercion is stripped, and everything except digits and the letter K is
// removed. K survives because the national-ID checksum may be a literal K.
func NormalizeIdentifier(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	v = strings.TrimSuffix(v, ".0")
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if (r >= '0' && r <= '9') || r == 'K' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatRUT renders a cleaned identifier in the conventional XX.XXX.XXX-X
// display format. Values that clean down to fewer than two characters are
// returned as-is; formatting them would only destroy information.
func FormatRUT(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	clean := NormalizeIdentifier(v)
	if len(clean) < 2 {
		return strings.TrimSpace(v)
	}

	body := clean[:len(clean)-1]
	check := clean[len(clean)-1:]

	var b strings.Builder
	for i, digit := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	return b.String() + "-" + check
}
