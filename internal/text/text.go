// Package text holds stateless filters applied to user-supplied text.
package text

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripTags removes every HTML tag from s and leaves plain text.
func StripTags(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// Excerpt returns the first max runes of the plain-text form of s.
func Excerpt(s string, max int) string {
	plain := strings.Join(strings.Fields(StripTags(s)), " ")
	if utf8.RuneCountInString(plain) <= max {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// Renderer turns markdown post bodies into safe HTML.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer creates a Renderer with GitHub-flavoured markdown and the UGC policy.
func NewRenderer() *Renderer {
	return &Renderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitised HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return string(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}
