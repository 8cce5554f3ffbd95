package textutil

import "strings"

// maxSlugLength keeps derived filenames comfortably under filesystem limits
// even after a collision suffix and extension are appended.
const maxSlugLength = 80

// Slug converts free-form model output into a lowercase filename token.
// Letters are lowercased, digits kept, and every other run of characters
// collapses to a single underscore. Returns "image" when nothing survives.
func Slug(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	lastUnderscore := true
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastUnderscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if len(out) > maxSlugLength {
		out = out[:maxSlugLength]
		if idx := strings.LastIndexByte(out, '_'); idx > 0 {
			out = out[:idx]
		}
		out = strings.Trim(out, "_")
	}
	if out == "" {
		return "image"
	}
	return out
}

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)
