package discovery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aesthetic-atlas/directory-cli/internal/config"
	"github.com/aesthetic-atlas/directory-cli/internal/content"
	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

func testConfig(t *testing.T, queries []string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Content: config.ContentConfig{
			ClinicsDir:     filepath.Join(dir, "clinics"),
			CitiesDir:      filepath.Join(dir, "cities"),
			AssetsDir:      filepath.Join(dir, "logos"),
			AssetURLPrefix: "/images/clinics/logos",
		},
		Discovery: config.DiscoveryConfig{
			Queries:         queries,
			Keywords:        []string{"plastic", "cosmetic", "aesthetic"},
			ExcludeKeywords: []string{"dental"},
			MaxPages:        1,
			PageSize:        20,
			PageDelayMs:     1,
			QueryDelayMs:    1,
			RadiusMeters:    50000,
			PhotoMinBytes:   1000,
			PhotoMaxWidth:   800,
		},
	}
}

func miamiTarget() CityTarget {
	return CityTarget{City: "Miami", State: "FL", Lat: 25.76, Lng: -80.19}
}

func TestPipelineRunWritesRecordsOnce(t *testing.T) {
	relevant := usPlace("p1", "Ocean Drive Plastic Surgery", "Miami Beach")
	dental := usPlace("p2", "Sunrise Cosmetic Dentistry & Dental Spa", "Miami Beach")
	foreign := places.Place{
		ID:          "p3",
		DisplayName: &places.LocalizedText{Text: "Toronto Plastic Surgery"},
		AddressComponents: []places.AddressComponent{
			{LongText: "Toronto", Types: []string{"locality"}},
			{LongText: "Canada", ShortText: "CA", Types: []string{"country"}},
		},
		Reviews: []places.Review{{Rating: 5}},
	}

	// Both queries surface the same places; dedupe must collapse them.
	client := &fakePlaces{
		search: func(req places.SearchTextRequest) (*places.SearchTextResponse, error) {
			return &places.SearchTextResponse{Places: []places.Place{relevant, dental, foreign}}, nil
		},
	}

	cfg := testConfig(t, []string{"plastic surgery", "cosmetic surgery"})
	store := content.NewStore(cfg.Content)
	p := NewPipeline(client, store, cfg)

	result, err := p.Run(context.Background(), miamiTarget())
	require.NoError(t, err)

	assert.Equal(t, 1, result.RecordsWritten)
	assert.Equal(t, 3, result.UniquePlaces)
	assert.Equal(t, 1, result.CitiesCreated)
	assert.Equal(t, 2, result.APICalls)

	clinic, err := store.ReadClinic("ocean-drive-plastic-surgery")
	require.NoError(t, err)
	assert.Equal(t, "miami-beach", clinic.City)
	assert.True(t, store.CityExists("miami-beach"))
	assert.False(t, store.CityExists("toronto"))
}

func TestPipelineFallsBackToTargetCity(t *testing.T) {
	// US place with no locality component (common for unincorporated areas).
	noLocality := places.Place{
		ID:          "p9",
		DisplayName: &places.LocalizedText{Text: "Everglades Aesthetic Center"},
		AddressComponents: []places.AddressComponent{
			{LongText: "Florida", ShortText: "FL", Types: []string{"administrative_area_level_1"}},
			{LongText: "United States", ShortText: "US", Types: []string{"country"}},
		},
		Reviews: []places.Review{{Rating: 4}},
	}
	client := &fakePlaces{
		search: func(req places.SearchTextRequest) (*places.SearchTextResponse, error) {
			return &places.SearchTextResponse{Places: []places.Place{noLocality}}, nil
		},
	}

	cfg := testConfig(t, []string{"aesthetic surgery"})
	store := content.NewStore(cfg.Content)
	p := NewPipeline(client, store, cfg)

	result, err := p.Run(context.Background(), miamiTarget())
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordsWritten)

	clinic, err := store.ReadClinic("everglades-aesthetic-center")
	require.NoError(t, err)
	assert.Equal(t, "miami", clinic.City, "locality-less records attach to the searched city")
	assert.True(t, store.CityExists("miami"))
}

func TestPipelineFetchesDetailsWhenReviewsMissing(t *testing.T) {
	bare := usPlace("p5", "Bayfront Plastic Surgery", "Miami")
	bare.Reviews = nil

	detailCalls := 0
	client := &fakePlaces{
		search: func(req places.SearchTextRequest) (*places.SearchTextResponse, error) {
			return &places.SearchTextResponse{Places: []places.Place{bare}}, nil
		},
		details: func(placeID string) (*places.Place, error) {
			detailCalls++
			full := usPlace(placeID, "Bayfront Plastic Surgery", "Miami")
			full.Reviews = []places.Review{{
				AuthorAttribution: &places.AuthorAttribution{DisplayName: "Ana Lopez"},
				Rating:            5,
				PublishTime:       "2026-02-01T10:00:00Z",
				Text:              &places.LocalizedText{Text: "Wonderful staff."},
			}}
			return &full, nil
		},
	}

	cfg := testConfig(t, []string{"plastic surgery"})
	store := content.NewStore(cfg.Content)
	p := NewPipeline(client, store, cfg)

	_, err := p.Run(context.Background(), miamiTarget())
	require.NoError(t, err)
	assert.Equal(t, 1, detailCalls)

	clinic, err := store.ReadClinic("bayfront-plastic-surgery")
	require.NoError(t, err)
	require.Len(t, clinic.Reviews, 1)
	assert.Equal(t, "Ana L.", clinic.Reviews[0].Author)
	assert.Equal(t, "Wonderful staff.", clinic.Reviews[0].Text)
}
