// Package assets uploads local asset files to durable storage and maintains
// the local-path → URL mapping that guarantees at-most-once upload.
package assets

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Mapping is the append-only local-path → durable-URL table, persisted as a
// single JSON file rewritten in full after each batch of uploads.
type Mapping struct {
	path    string
	entries map[string]string
}

// LoadMapping reads the mapping file, returning an empty mapping when the
// file does not exist yet.
func LoadMapping(path string) (*Mapping, error) {
	m := &Mapping{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, eris.Wrapf(err, "assets: read mapping %s", path)
	}
	if err := json.Unmarshal(data, &m.entries); err != nil {
		return nil, eris.Wrapf(err, "assets: unmarshal mapping %s", path)
	}
	return m, nil
}

// Save rewrites the mapping file in full.
func (m *Mapping) Save() error {
	data, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "assets: marshal mapping")
	}
	if err := os.WriteFile(m.path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "assets: write mapping %s", m.path)
	}
	return nil
}

// URL returns the durable URL for a local path, if uploaded before.
func (m *Mapping) URL(localPath string) (string, bool) {
	url, ok := m.entries[localPath]
	return url, ok
}

// Set records an upload. Existing entries are never replaced.
func (m *Mapping) Set(localPath, url string) {
	if _, ok := m.entries[localPath]; ok {
		return
	}
	m.entries[localPath] = url
}

// Entries returns a copy of the mapping table.
func (m *Mapping) Entries() map[string]string {
	out := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of mapped paths.
func (m *Mapping) Len() int {
	return len(m.entries)
}
