package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// renderText flattens product markup (body_html) into the plain text that
// gets persisted. Invalid markup degrades gracefully: the tokenizer yields
// whatever text it can before the error.
func renderText(markup string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))

	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
		}
	}
}
