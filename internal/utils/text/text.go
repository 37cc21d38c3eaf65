// Package text provides small text-shaping helpers shared by the adapters:
// tag stripping for snippets, entity cleanup, and headline truncation.
package text

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	tagRE    = regexp.MustCompile(`(?s)<[^>]*>`)
	entities = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&#8217;", "’",
	)
)

// StripTags removes HTML tags and decodes the handful of entities that show
// up in feed summaries. The result is still unnormalized; callers collapse
// whitespace afterwards.
func StripTags(s string) string {
	return entities.Replace(tagRE.ReplaceAllString(s, " "))
}

// FirstLine returns everything before the first line break.
func FirstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// Truncate shortens s to at most max UTF-16 code units, appending an
// ellipsis when anything was cut. Lengths are measured in UTF-16 units so
// headlines truncate at the same point across snapshot generations.
func Truncate(s string, max int) string {
	units := utf16.Encode([]rune(s))
	if len(units) <= max {
		return s
	}
	return string(utf16.Decode(units[:max-3])) + "..."
}
