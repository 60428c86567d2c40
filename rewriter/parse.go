package rewriter

import (
	"strings"
)

const (
	titleMarker       = "Title:"
	descriptionMarker = "Description:"
)

// parsed is the outcome of reading one model reply. When ok is false the
// reply did not follow the expected two-line format and neither field is
// usable.
type parsed struct {
	title       string
	description string
	ok          bool
}

// parseReply reads the conventional two-line reply format
//
//	Title: <text>
//	Description: <text>
//
// splitting at the first line break only, so descriptions may span lines.
// Missing markers make the whole reply malformed; an individual field that is
// empty after stripping its marker is returned empty and the caller falls
// back per-field.
func parseReply(raw string) parsed {
	content := strings.TrimSpace(raw)
	if !strings.Contains(content, titleMarker) || !strings.Contains(content, descriptionMarker) {
		return parsed{}
	}

	segments := strings.SplitN(content, "\n", 2)
	if len(segments) < 2 {
		return parsed{}
	}

	return parsed{
		title:       strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(segments[0]), titleMarker)),
		description: strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(segments[1]), descriptionMarker)),
		ok:          true,
	}
}
