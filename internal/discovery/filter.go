package discovery

import "strings"

// Filter classifies a place name as in-domain or not. A name passes when it
// contains at least one include keyword and none of the exclude keywords
// (case-insensitive substring match). False negatives are accepted; false
// positives are suppressed via the exclusion list.
type Filter struct {
	keywords []string
	excludes []string
}

// NewFilter creates a Filter from the configured keyword sets.
func NewFilter(keywords, excludes []string) *Filter {
	return &Filter{
		keywords: lowerAll(keywords),
		excludes: lowerAll(excludes),
	}
}

// IsRelevant reports whether the display name matches the domain heuristic.
func (f *Filter) IsRelevant(name string) bool {
	lower := strings.ToLower(name)
	if lower == "" {
		return false
	}

	for _, kw := range f.excludes {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(strings.ToLower(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
