package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxSlugLen caps slug length so slugs stay filesystem- and URL-friendly.
const maxSlugLen = 60

var titleCaser = cases.Title(language.AmericanEnglish)

// Slugify derives a stable identifier from a display name: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading/trailing
// hyphens trimmed, capped at 60 characters. Deterministic for a given input.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	slug := b.String()
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// DisplayCity turns a city slug back into a display name ("fort-myers" →
// "Fort Myers").
func DisplayCity(slug string) string {
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}
