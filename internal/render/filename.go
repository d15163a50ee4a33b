package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fallbackName = "roadmap"

var lower = cases.Lower(language.Und)

// ExportFilename derives a file name from the document title: lower-cased,
// whitespace runs replaced with hyphens. ext is appended with a dot.
func ExportFilename(title, ext string) string {
	name := strings.Join(strings.Fields(lower.String(title)), "-")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	name = strings.Trim(name, ".-")
	if name == "" {
		name = fallbackName
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}
