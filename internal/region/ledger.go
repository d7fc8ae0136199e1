// Package region orchestrates resumable per-region batch discovery over a
// durable JSON ledger.
package region

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/aesthetic-atlas/directory-cli/internal/config"
	"github.com/aesthetic-atlas/directory-cli/internal/model"
)

// Ledger is the durable region state file. Every mutation rewrites the whole
// file; a crash loses at most the in-flight city.
type Ledger struct {
	path  string
	state *model.RegionState
}

// LoadLedger reads the ledger from path, or starts empty when the file does
// not exist yet.
func LoadLedger(path string) (*Ledger, error) {
	l := &Ledger{
		path:  path,
		state: &model.RegionState{Regions: make(map[string]*model.Region)},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "region: read ledger")
	}
	if err := json.Unmarshal(data, l.state); err != nil {
		return nil, eris.Wrap(err, "region: parse ledger")
	}
	if l.state.Regions == nil {
		l.state.Regions = make(map[string]*model.Region)
	}
	return l, nil
}

// Save rewrites the ledger file in full.
func (l *Ledger) Save() error {
	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return eris.Wrap(err, "region: marshal ledger")
	}
	if err := os.WriteFile(l.path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrap(err, "region: write ledger")
	}
	return nil
}

// Seed adds configured regions and cities the ledger does not know yet.
// Existing entries keep their status and results; seeding never demotes.
func (l *Ledger) Seed(defs map[string]config.RegionDef) {
	for id, def := range defs {
		region, ok := l.state.Regions[id]
		if !ok {
			region = &model.Region{Name: def.Name}
			l.state.Regions[id] = region
		}
		for _, c := range def.Cities {
			if region.Find(c.City, c.State) == nil {
				region.Cities = append(region.Cities, model.CityEntry{
					City:   c.City,
					State:  c.State,
					Status: model.CityStatusQueued,
				})
			}
		}
	}
}

// Requeue resets failed cities of a region back to queued, clearing their
// recorded error. When includeRunning is set, cities stuck in running from
// an interrupted run are reset too. Returns the number of entries reset.
func (l *Ledger) Requeue(regionID string, includeRunning bool) (int, error) {
	region := l.state.Regions[regionID]
	if region == nil {
		return 0, eris.Errorf("region: unknown region %q", regionID)
	}

	reset := 0
	for i := range region.Cities {
		c := &region.Cities[i]
		if c.Status == model.CityStatusFailed || (includeRunning && c.Status == model.CityStatusRunning) {
			c.Status = model.CityStatusQueued
			c.Error = ""
			reset++
		}
	}
	if reset == 0 {
		return 0, nil
	}
	return reset, l.Save()
}

// Region returns the named region, or nil.
func (l *Ledger) Region(id string) *model.Region {
	return l.state.Regions[id]
}

// RegionIDs returns the ids of all regions in the ledger.
func (l *Ledger) RegionIDs() []string {
	ids := make([]string, 0, len(l.state.Regions))
	for id := range l.state.Regions {
		ids = append(ids, id)
	}
	return ids
}

// State exposes the full ledger state for read-only reporting.
func (l *Ledger) State() *model.RegionState {
	return l.state
}
