// Package htmlsanitize cleans the rich text stored in program catalogs.
package htmlsanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps formatting markup (paragraphs, lists, links, emphasis) and
// drops scripts, event handlers and unsafe URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// StripTags removes all markup and unescapes entities, leaving the text a
// reader would see.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// TextLen counts the visible characters of s.
func TextLen(s string) int {
	return utf8.RuneCountInString(StripTags(s))
}

// BulletList renders points as an unordered list. Blank points are skipped
// and text is escaped.
func BulletList(points []string) string {
	var b strings.Builder
	for _, p := range points {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<li>")
		b.WriteString(html.EscapeString(p))
		b.WriteString("</li>")
	}
	if b.Len() == 0 {
		return ""
	}
	return "<ul>" + b.String() + "</ul>"
}
