// Package content persists directory records as one YAML file per entity,
// the contract consumed by the site build.
package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/aesthetic-atlas/directory-cli/internal/config"
	"github.com/aesthetic-atlas/directory-cli/internal/model"
)

// Store reads and writes the persisted content tree.
type Store struct {
	ClinicsDir string
	CitiesDir  string
	AssetsDir  string
}

// NewStore creates a Store over the configured content tree.
func NewStore(cfg config.ContentConfig) *Store {
	return &Store{
		ClinicsDir: cfg.ClinicsDir,
		CitiesDir:  cfg.CitiesDir,
		AssetsDir:  cfg.AssetsDir,
	}
}

// Init ensures the content directories exist.
func (s *Store) Init() error {
	for _, dir := range []string{s.ClinicsDir, s.CitiesDir, s.AssetsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "content: create dir %s", dir)
		}
	}
	return nil
}

// ClinicPath returns the file path for a clinic slug.
func (s *Store) ClinicPath(slug string) string {
	return filepath.Join(s.ClinicsDir, slug+".yaml")
}

// CityPath returns the file path for a city slug.
func (s *Store) CityPath(slug string) string {
	return filepath.Join(s.CitiesDir, slug+".yaml")
}

// WriteClinic persists a clinic record, overwriting any prior record with
// the same slug. Empty collections are encoded as explicit empty sequences.
func (s *Store) WriteClinic(c *model.Clinic) error {
	if c.Slug == "" {
		return eris.New("content: clinic slug is empty")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrapf(err, "content: marshal clinic %s", c.Slug)
	}
	if err := os.WriteFile(s.ClinicPath(c.Slug), data, 0o644); err != nil {
		return eris.Wrapf(err, "content: write clinic %s", c.Slug)
	}
	return nil
}

// ReadClinic loads a clinic record by slug.
func (s *Store) ReadClinic(slug string) (*model.Clinic, error) {
	data, err := os.ReadFile(s.ClinicPath(slug))
	if err != nil {
		return nil, eris.Wrapf(err, "content: read clinic %s", slug)
	}
	var c model.Clinic
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrapf(err, "content: unmarshal clinic %s", slug)
	}
	return &c, nil
}

// ListClinicFiles returns the paths of all persisted clinic files, sorted.
func (s *Store) ListClinicFiles() ([]string, error) {
	entries, err := os.ReadDir(s.ClinicsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "content: list clinics")
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		files = append(files, filepath.Join(s.ClinicsDir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// CityExists reports whether a location record exists for the slug.
func (s *Store) CityExists(slug string) bool {
	_, err := os.Stat(s.CityPath(slug))
	return err == nil
}

// WriteCity persists a location record only if none exists yet; existing
// city files are operator-curated and never overwritten by the pipeline.
// Returns true when a new record was created.
func (s *Store) WriteCity(city *model.City) (bool, error) {
	if city.Slug == "" {
		return false, eris.New("content: city slug is empty")
	}
	if s.CityExists(city.Slug) {
		return false, nil
	}
	data, err := yaml.Marshal(city)
	if err != nil {
		return false, eris.Wrapf(err, "content: marshal city %s", city.Slug)
	}
	if err := os.WriteFile(s.CityPath(city.Slug), data, 0o644); err != nil {
		return false, eris.Wrapf(err, "content: write city %s", city.Slug)
	}
	return true, nil
}
