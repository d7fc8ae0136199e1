package assets

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aesthetic-atlas/directory-cli/pkg/blob"
)

// contentTypes maps asset file extensions to MIME types.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// ContentType returns the MIME type for an asset path.
func ContentType(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Uploader pushes unmapped local assets to the durable store.
type Uploader struct {
	store   blob.Client
	mapping *Mapping
	// assetsDir is the on-disk directory scanned for image files; localPrefix
	// is the repository-relative prefix recorded as the mapping key.
	assetsDir   string
	localPrefix string
	limiter     *rate.Limiter
}

// NewUploader creates an Uploader over the given store and mapping.
func NewUploader(store blob.Client, mapping *Mapping, assetsDir string) *Uploader {
	return &Uploader{
		store:       store,
		mapping:     mapping,
		assetsDir:   assetsDir,
		localPrefix: filepath.ToSlash(assetsDir),
		limiter:     rate.NewLimiter(rate.Limit(10), 1),
	}
}

// UploadNew uploads every image in the assets directory that is not yet in
// the mapping, records each upload, and saves the mapping once at the end.
// A single failed upload is logged and skipped, not fatal. Returns the
// number of files uploaded.
func (u *Uploader) UploadNew(ctx context.Context) (int, error) {
	log := zap.L().With(zap.String("component", "assets.uploader"))

	entries, err := os.ReadDir(u.assetsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, eris.Wrapf(err, "assets: read dir %s", u.assetsDir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := contentTypes[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	uploaded := 0
	for _, name := range names {
		localPath := u.localPrefix + "/" + name
		if _, ok := u.mapping.URL(localPath); ok {
			continue
		}

		if err := u.limiter.Wait(ctx); err != nil {
			return uploaded, eris.Wrap(err, "assets: rate limit wait")
		}

		data, err := os.ReadFile(filepath.Join(u.assetsDir, name))
		if err != nil {
			log.Warn("read asset failed", zap.String("file", name), zap.Error(err))
			continue
		}

		blobPath := strings.TrimPrefix(localPath, "public/")
		url, err := u.store.Put(ctx, blobPath, data, ContentType(name))
		if err != nil {
			log.Warn("upload failed", zap.String("file", name), zap.Error(err))
			continue
		}

		u.mapping.Set(localPath, url)
		uploaded++
	}

	if uploaded > 0 {
		if err := u.mapping.Save(); err != nil {
			return uploaded, err
		}
	}
	return uploaded, nil
}
