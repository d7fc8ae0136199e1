package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))

		mask := r.Header.Get("X-Goog-FieldMask")
		assert.Contains(t, mask, "places.addressComponents")
		assert.Contains(t, mask, "nextPageToken")

		var req SearchTextRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "plastic surgery in Miami, FL", req.TextQuery)
		assert.Equal(t, 20, req.MaxResultCount)
		require.NotNil(t, req.LocationBias)
		assert.Equal(t, 50000.0, req.LocationBias.Circle.Radius)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"places": []map[string]any{
				{"id": "p1", "displayName": map[string]string{"text": "Ocean Drive Plastic Surgery"}},
			},
			"nextPageToken": "tok-2",
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.SearchText(context.Background(), SearchTextRequest{
		TextQuery: "plastic surgery in Miami, FL",
		LocationBias: &LocationBias{Circle: Circle{
			Center: LatLng{Latitude: 25.76, Longitude: -80.19},
			Radius: 50000,
		}},
		MaxResultCount: 20,
	})
	require.NoError(t, err)

	require.Len(t, resp.Places, 1)
	assert.Equal(t, "p1", resp.Places[0].ID)
	assert.Equal(t, "Ocean Drive Plastic Surgery", resp.Places[0].Name())
	assert.Equal(t, "tok-2", resp.NextPageToken)
}

func TestSearchTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.SearchText(context.Background(), SearchTextRequest{TextQuery: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPlaceDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/places/p1", r.URL.Path)

		mask := r.Header.Get("X-Goog-FieldMask")
		assert.Contains(t, mask, "reviews")
		assert.False(t, strings.Contains(mask, "places."), "details mask is unprefixed")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "p1",
			"rating": 4.8,
			"reviews": []map[string]any{
				{"rating": 5, "text": map[string]string{"text": "Great results."}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	place, err := c.PlaceDetails(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", place.ID)
	assert.Equal(t, 4.8, place.Rating)
	require.Len(t, place.Reviews, 1)
	assert.Equal(t, "Great results.", place.Reviews[0].Text.Text)
}

func TestPhotoMedia(t *testing.T) {
	payload := []byte("jpeg-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/p1/photos/abc/media", r.URL.Path)
		assert.Equal(t, "800", r.URL.Query().Get("maxWidthPx"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	data, err := c.PhotoMedia(context.Background(), "places/p1/photos/abc", 800)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}
