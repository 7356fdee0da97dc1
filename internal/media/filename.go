package media

import (
	"strings"
)

// FallbackFilename is substituted when sanitizing leaves nothing usable.
const FallbackFilename = "download"

// SanitizeFilename strips a requested title down to something safe to use
// both on the filesystem and inside a Content-Disposition header: only
// printable ASCII, none of the Windows-reserved characters, single spaces.
// An empty result falls back to FallbackFilename.
func SanitizeFilename(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r < 0x20 || r > 0x7e {
			continue
		}
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if cleaned == "" {
		return FallbackFilename
	}
	return cleaned
}
