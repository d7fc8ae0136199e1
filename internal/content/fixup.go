package content

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// emptyListPattern matches a list-valued key whose value was omitted by the
// legacy string-built serializer ("reviews:\n" followed directly by the next
// top-level key), which parses as null instead of an empty list.
var emptyListPattern = regexp.MustCompile(`(?m)^(reviews|specialties|certifications|featuredClinics):[ \t]*\n+([A-Za-z])`)

// FixEmptyCollections rewrites ambiguously-serialized empty lists in every
// clinic file to explicit empty sequences. Idempotent; files written by the
// current encoder are never touched. Returns the number of files rewritten.
func (s *Store) FixEmptyCollections() (int, error) {
	files, err := s.ListClinicFiles()
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fixed, eris.Wrapf(err, "content: read %s", path)
		}
		repaired := emptyListPattern.ReplaceAll(data, []byte("${1}: []\n${2}"))
		if string(repaired) == string(data) {
			continue
		}
		if err := os.WriteFile(path, repaired, 0o644); err != nil {
			return fixed, eris.Wrapf(err, "content: rewrite %s", path)
		}
		fixed++
	}
	return fixed, nil
}

// RewriteAssetURLs replaces local asset paths with their durable URLs in
// every clinic file where a mapped path is textually present. The mapping is
// keyed by repository-local path ("public/images/..."); records reference
// the site-relative form ("/images/...").
func (s *Store) RewriteAssetURLs(mapping map[string]string) (int, error) {
	files, err := s.ListClinicFiles()
	if err != nil {
		return 0, err
	}

	rewritten := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return rewritten, eris.Wrapf(err, "content: read %s", path)
		}

		text := string(data)
		updated := text
		for localPath, url := range mapping {
			urlPath := "/" + strings.TrimPrefix(localPath, "public/")
			updated = strings.ReplaceAll(updated, urlPath, url)
		}
		if updated == text {
			continue
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return rewritten, eris.Wrapf(err, "content: rewrite %s", path)
		}
		rewritten++
	}
	return rewritten, nil
}
