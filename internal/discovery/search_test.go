package discovery

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

func testBias() places.LocationBias {
	return places.LocationBias{
		Circle: places.Circle{
			Center: places.LatLng{Latitude: 25.76, Longitude: -80.19},
			Radius: 50000,
		},
	}
}

func TestSearchFollowsPagesUpToCap(t *testing.T) {
	var tokens []string
	client := &fakePlaces{
		search: func(req places.SearchTextRequest) (*places.SearchTextResponse, error) {
			tokens = append(tokens, req.PageToken)
			return &places.SearchTextResponse{
				Places:        []places.Place{{ID: "p-" + req.PageToken}},
				NextPageToken: "next-" + req.PageToken,
			}, nil
		},
	}

	s := NewSearcher(client, 3, 20, 1)
	results, calls := s.Search(context.Background(), "plastic surgery in Miami, FL", testBias())

	assert.Equal(t, 3, calls, "pagination must stop at the page cap")
	assert.Len(t, results, 3)
	assert.Equal(t, []string{"", "next-", "next-next-"}, tokens)
}

func TestSearchStopsWithoutToken(t *testing.T) {
	client := &fakePlaces{
		search: func(req places.SearchTextRequest) (*places.SearchTextResponse, error) {
			return &places.SearchTextResponse{
				Places: []places.Place{{ID: "only"}},
			}, nil
		},
	}

	s := NewSearcher(client, 3, 20, 1)
	results, calls := s.Search(context.Background(), "medspa in Tampa, FL", testBias())

	assert.Equal(t, 1, calls)
	require.Len(t, results, 1)
	assert.Equal(t, "only", results[0].ID)
}

func TestSearchReturnsPartialOnError(t *testing.T) {
	page := 0
	client := &fakePlaces{
		search: func(req places.SearchTextRequest) (*places.SearchTextResponse, error) {
			page++
			if page == 2 {
				return nil, eris.New("quota exceeded")
			}
			return &places.SearchTextResponse{
				Places:        []places.Place{{ID: "p1"}},
				NextPageToken: "more",
			}, nil
		},
	}

	s := NewSearcher(client, 3, 20, 1)
	results, calls := s.Search(context.Background(), "liposuction in Orlando, FL", testBias())

	assert.Equal(t, 2, calls)
	require.Len(t, results, 1, "first page survives a later page failure")
	assert.Equal(t, "p1", results[0].ID)
}
