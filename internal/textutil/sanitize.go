package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxFileNameLength caps sanitized titles so document paths stay portable.
const maxFileNameLength = 100

// unsafeFileNameChars are stripped from titles before use as a filename.
const unsafeFileNameChars = `<>:"/\|?*`

// SanitizeFileName makes a document title safe to use as a filename: the
// text is NFC-normalized, filesystem metacharacters are removed, and the
// result is truncated to 100 characters. Returns "untitled" when nothing
// survives.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(unsafeFileNameChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := strings.TrimSpace(b.String())
	if runes := []rune(out); len(runes) > maxFileNameLength {
		out = strings.TrimSpace(string(runes[:maxFileNameLength]))
	}
	if out == "" {
		return "untitled"
	}
	return out
}
