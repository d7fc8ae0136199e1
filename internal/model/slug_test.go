package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Miami Plastic Surgery", "miami-plastic-surgery"},
		{"punctuation collapses", "Dr. Smith's Clinic & Spa", "dr-smith-s-clinic-spa"},
		{"leading trailing junk", "  --Miami--  ", "miami"},
		{"unicode stripped", "Clínica Estética", "cl-nica-est-tica"},
		{"already clean", "boca-raton", "boca-raton"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	in := "West Palm Beach Aesthetic & Reconstructive Surgery Institute"
	assert.Equal(t, Slugify(in), Slugify(in))
}

func TestSlugifyLengthCap(t *testing.T) {
	long := strings.Repeat("plastic surgery center of excellence ", 5)
	slug := Slugify(long)

	assert.LessOrEqual(t, len(slug), 60)
	assert.False(t, strings.HasSuffix(slug, "-"), "cap must not leave a trailing hyphen")
}

func TestDisplayCity(t *testing.T) {
	assert.Equal(t, "Boca Raton", DisplayCity("boca raton"))
	assert.Equal(t, "Miami", DisplayCity("MIAMI"))
}
