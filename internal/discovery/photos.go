package discovery

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aesthetic-atlas/directory-cli/pkg/places"
)

// PhotoFetcher downloads one representative photo per record. Failures and
// undersized payloads yield "no asset", never an error.
type PhotoFetcher struct {
	client    places.Client
	assetsDir string
	urlPrefix string
	minBytes  int
	maxWidth  int
}

// NewPhotoFetcher creates a PhotoFetcher writing into assetsDir. Records
// reference saved files as urlPrefix/<slug>.jpg. Payloads under minBytes are
// treated as placeholder images and discarded.
func NewPhotoFetcher(client places.Client, assetsDir, urlPrefix string, minBytes, maxWidth int) *PhotoFetcher {
	if minBytes <= 0 {
		minBytes = 1000
	}
	if maxWidth <= 0 {
		maxWidth = 800
	}
	return &PhotoFetcher{
		client:    client,
		assetsDir: assetsDir,
		urlPrefix: urlPrefix,
		minBytes:  minBytes,
		maxWidth:  maxWidth,
	}
}

// Fetch downloads the first photo reference of a place and saves it under
// the record's slug. Returns the site-relative asset path, or nil when the
// place has no usable photo.
func (f *PhotoFetcher) Fetch(ctx context.Context, place *places.Place, slug string) *string {
	if len(place.Photos) == 0 {
		return nil
	}
	log := zap.L().With(zap.String("component", "discovery.photos"), zap.String("slug", slug))

	data, err := f.client.PhotoMedia(ctx, place.Photos[0].Name, f.maxWidth)
	if err != nil {
		log.Debug("photo download failed", zap.Error(err))
		return nil
	}
	if len(data) < f.minBytes {
		log.Debug("photo below size floor, discarding", zap.Int("bytes", len(data)))
		return nil
	}

	filename := slug + ".jpg"
	if err := os.WriteFile(filepath.Join(f.assetsDir, filename), data, 0o644); err != nil {
		log.Warn("photo write failed", zap.Error(err))
		return nil
	}

	path := f.urlPrefix + "/" + filename
	return &path
}
