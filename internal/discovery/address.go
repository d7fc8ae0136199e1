package discovery

import (
	"strings"

	"github.com/aesthetic-atlas/directory-cli/internal/model"
	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

// Address component type tags used by the provider.
const (
	tagLocality     = "locality"
	tagStateArea    = "administrative_area_level_1"
	tagCountyArea   = "administrative_area_level_2"
	tagNeighborhood = "neighborhood"
	tagPostalCode   = "postal_code"
	tagCountry      = "country"
)

// ParseComponents derives the canonical location tuple from structured
// address components via type-tag lookup. Missing components degrade to
// empty strings; the same input always yields the same slug.
func ParseComponents(components []places.AddressComponent) model.NormalizedLocation {
	find := func(tag string) *places.AddressComponent {
		for i := range components {
			for _, t := range components[i].Types {
				if t == tag {
					return &components[i]
				}
			}
		}
		return nil
	}

	var loc model.NormalizedLocation
	if c := find(tagLocality); c != nil {
		loc.City = c.LongText
		loc.CitySlug = model.Slugify(c.LongText)
	}
	if c := find(tagStateArea); c != nil {
		loc.State = c.ShortText
		loc.StateFullName = c.LongText
	}
	if c := find(tagCountyArea); c != nil {
		loc.County = c.LongText
	}
	if c := find(tagNeighborhood); c != nil {
		loc.Neighborhood = c.LongText
	}
	if c := find(tagPostalCode); c != nil {
		loc.ZipCode = c.LongText
	}
	if c := find(tagCountry); c != nil {
		loc.Country = c.ShortText
	}
	return loc
}

// cleanAddress strips the country suffix from a formatted address.
func cleanAddress(addr string) string {
	addr = strings.TrimSuffix(addr, ", USA")
	addr = strings.TrimSuffix(addr, ", United States")
	return addr
}
