// Package extract pulls a single self-contained invitation document out of a
// generative model's free-text reply. The model often wraps the document in
// chatty prose or a fenced code block; extraction is permissive about what
// surrounds the document and strict about requiring the closing marker, so a
// truncated reply never yields a partial capture.
package extract

import (
	"regexp"
	"strings"
)

const (
	startMarker = "<!DOCTYPE html"
	endMarker   = "</html>"
)

var (
	// Bare document anywhere in the reply.
	docPattern = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(startMarker) + `.*?` + regexp.QuoteMeta(endMarker))
	// Document inside a fenced block, any info string.
	fencedPattern = regexp.MustCompile("(?is)```[a-zA-Z]*\\s*\\n(" + regexp.QuoteMeta(startMarker) + ".*?" + regexp.QuoteMeta(endMarker) + ")")
)

// Document returns the first well-formed document found in reply, or ok=false
// when no complete document is present. No attempt is made to repair markup.
func Document(reply string) (string, bool) {
	if strings.TrimSpace(reply) == "" {
		return "", false
	}

	if m := docPattern.FindString(reply); m != "" {
		return m, true
	}

	if m := fencedPattern.FindStringSubmatch(reply); len(m) == 2 {
		return m[1], true
	}

	return "", false
}
