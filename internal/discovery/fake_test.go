package discovery

import (
	"context"

	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

// fakePlaces is a places.Client with per-operation overrides.
type fakePlaces struct {
	search  func(req places.SearchTextRequest) (*places.SearchTextResponse, error)
	details func(placeID string) (*places.Place, error)
	photo   func(photoName string, maxWidthPx int) ([]byte, error)
}

func (f *fakePlaces) SearchText(_ context.Context, req places.SearchTextRequest) (*places.SearchTextResponse, error) {
	if f.search == nil {
		return &places.SearchTextResponse{}, nil
	}
	return f.search(req)
}

func (f *fakePlaces) PlaceDetails(_ context.Context, placeID string) (*places.Place, error) {
	if f.details == nil {
		return &places.Place{ID: placeID}, nil
	}
	return f.details(placeID)
}

func (f *fakePlaces) PhotoMedia(_ context.Context, photoName string, maxWidthPx int) ([]byte, error) {
	if f.photo == nil {
		return nil, nil
	}
	return f.photo(photoName, maxWidthPx)
}

// usPlace builds a relevant US place with structured address components.
func usPlace(id, name, city string) places.Place {
	return places.Place{
		ID:          id,
		DisplayName: &places.LocalizedText{Text: name},
		AddressComponents: []places.AddressComponent{
			{LongText: city, ShortText: city, Types: []string{"locality", "political"}},
			{LongText: "Florida", ShortText: "FL", Types: []string{"administrative_area_level_1"}},
			{LongText: "Miami-Dade County", ShortText: "Miami-Dade", Types: []string{"administrative_area_level_2"}},
			{LongText: "33139", ShortText: "33139", Types: []string{"postal_code"}},
			{LongText: "United States", ShortText: "US", Types: []string{"country"}},
		},
		Reviews: []places.Review{{Rating: 5}},
	}
}
