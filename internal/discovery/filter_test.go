package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testFilter() *Filter {
	return NewFilter(
		[]string{"plastic", "cosmetic", "aesthetic", "surgeon", "medspa"},
		[]string{"dental", "dentist", "veterinary", "chiropract"},
	)
}

func TestFilterIsRelevant(t *testing.T) {
	f := testFilter()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"direct match", "Miami Plastic Surgery Center", true},
		{"case insensitive", "BOCA AESTHETIC INSTITUTE", true},
		{"no keyword", "Joe's Pizza", false},
		{"empty name", "", false},
		{"medspa", "Glow MedSpa", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsRelevant(tt.in))
		})
	}
}

func TestFilterExclusionWinsOverKeyword(t *testing.T) {
	f := testFilter()

	// "cosmetic" matches, but the dental exclusion must dominate.
	assert.False(t, f.IsRelevant("Sunrise Cosmetic Dentistry"))
	assert.False(t, f.IsRelevant("Aesthetic Veterinary Clinic"))
}
