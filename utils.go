package picshelf

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeFilename reduces a client-supplied filename to a string that is safe
// to use as a storage key. It:
//   - strips directory components (both / and \ separators)
//   - replaces whitespace runs with a single underscore
//   - drops control characters, DEL, and the characters ? # ~ % * : | " < >
//   - rejects names that are empty, ".", "..", or reduce to nothing usable
//   - rejects names that are not valid UTF-8 or longer than 255 bytes
//
// Returns the sanitized name, or ErrInvalidInput when nothing safe survives.
func SanitizeFilename(name string) (string, error) {
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("sanitize filename: %w: not valid utf-8", ErrInvalidInput)
	}

	// Keep only the final path element, whatever the separator style.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			continue
		case unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		case strings.ContainsRune(`?#~%*:|"<>`, r):
			continue
		default:
			b.WriteRune(r)
			lastUnderscore = false
		}
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "", fmt.Errorf("sanitize filename %q: %w", name, ErrInvalidInput)
	}

	if len(out) > 255 {
		return "", fmt.Errorf("sanitize filename %q: %w: name too long", name, ErrInvalidInput)
	}

	return out, nil
}
