package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTag converts a raw metadata string from a music container into
// clean UTF-8. Containers store fixed-width, NUL-padded fields in whatever
// 8-bit encoding the ripper used; bytes that are not valid UTF-8 are decoded
// as Windows-1252. Control characters are dropped, the result is NFC
// normalized, and surrounding whitespace is trimmed.
func NormalizeTag(raw string) string {
	if i := strings.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return ""
	}
	if !utf8.ValidString(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().String(raw)
		if err != nil {
			decoded = strings.ToValidUTF8(raw, "�")
		}
		raw = decoded
	}
	raw = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(norm.NFC.String(raw))
}
