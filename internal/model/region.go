package model

// CityStatus is the orchestration state of one city within a region.
type CityStatus string

const (
	CityStatusQueued  CityStatus = "queued"
	CityStatusRunning CityStatus = "running"
	CityStatusDone    CityStatus = "done"
	CityStatusFailed  CityStatus = "failed"
)

// CityEntry is one city's row in the region ledger.
type CityEntry struct {
	City    string     `json:"city"`
	State   string     `json:"state"`
	Status  CityStatus `json:"status"`
	Clinics int        `json:"clinics,omitempty"`
	Date    string     `json:"date,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Region groups the cities processed together as one batch unit.
type Region struct {
	Name   string      `json:"name"`
	Cities []CityEntry `json:"cities"`
}

// RegionState is the durable orchestration ledger: region id → region.
// Rewritten in full on every city transition; the single source of truth
// for resumability.
type RegionState struct {
	Regions map[string]*Region `json:"regions"`
}

// Find returns the city entry matching city and state, or nil.
func (r *Region) Find(city, state string) *CityEntry {
	for i := range r.Cities {
		if r.Cities[i].City == city && r.Cities[i].State == state {
			return &r.Cities[i]
		}
	}
	return nil
}

// Queued returns the queued city entries in declaration order.
func (r *Region) Queued() []*CityEntry {
	var queued []*CityEntry
	for i := range r.Cities {
		if r.Cities[i].Status == CityStatusQueued {
			queued = append(queued, &r.Cities[i])
		}
	}
	return queued
}

// Counts tallies per-status city counts and total clinics for done cities.
func (r *Region) Counts() (done, queued, running, failed, clinics int) {
	for _, c := range r.Cities {
		switch c.Status {
		case CityStatusDone:
			done++
			clinics += c.Clinics
		case CityStatusQueued:
			queued++
		case CityStatusRunning:
			running++
		case CityStatusFailed:
			failed++
		}
	}
	return done, queued, running, failed, clinics
}
