package posts

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	hyphenRuns  = regexp.MustCompile(`-+`)
	nonSlugRune = regexp.MustCompile(`[^a-z0-9_-]+`)
)

// Slugify turns a title into its URL-safe base slug: lowercase, trimmed,
// whitespace runs collapsed to a single hyphen, everything outside the
// word/hyphen class stripped, repeated hyphens collapsed, edge hyphens
// removed. A title that normalizes to nothing falls back to "untitled".
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Join(strings.FieldsFunc(slug, unicode.IsSpace), "-")
	slug = nonSlugRune.ReplaceAllString(slug, "")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return "untitled"
	}
	return slug
}
