package discovery

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

func photoPlace() *places.Place {
	return &places.Place{
		ID:     "p1",
		Photos: []places.Photo{{Name: "places/p1/photos/abc"}},
	}
}

func TestPhotoFetcherSavesPhoto(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte{0xff}, 4000)
	client := &fakePlaces{
		photo: func(name string, maxWidthPx int) ([]byte, error) {
			assert.Equal(t, "places/p1/photos/abc", name)
			assert.Equal(t, 800, maxWidthPx)
			return payload, nil
		},
	}

	f := NewPhotoFetcher(client, dir, "/images/clinics/logos", 1000, 800)
	got := f.Fetch(context.Background(), photoPlace(), "ocean-drive")

	require.NotNil(t, got)
	assert.Equal(t, "/images/clinics/logos/ocean-drive.jpg", *got)

	saved, err := os.ReadFile(filepath.Join(dir, "ocean-drive.jpg"))
	require.NoError(t, err)
	assert.Equal(t, payload, saved)
}

func TestPhotoFetcherDiscardsUndersized(t *testing.T) {
	dir := t.TempDir()
	client := &fakePlaces{
		photo: func(string, int) ([]byte, error) {
			return bytes.Repeat([]byte{0xff}, 400), nil
		},
	}

	f := NewPhotoFetcher(client, dir, "/images/clinics/logos", 1000, 800)
	got := f.Fetch(context.Background(), photoPlace(), "tiny")

	assert.Nil(t, got, "placeholder-sized payloads must be discarded")
	_, err := os.Stat(filepath.Join(dir, "tiny.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestPhotoFetcherAbsorbsFailures(t *testing.T) {
	f := NewPhotoFetcher(&fakePlaces{
		photo: func(string, int) ([]byte, error) { return nil, eris.New("boom") },
	}, t.TempDir(), "/images", 1000, 800)

	assert.Nil(t, f.Fetch(context.Background(), photoPlace(), "x"))
	assert.Nil(t, f.Fetch(context.Background(), &places.Place{ID: "nophoto"}, "y"))
}
