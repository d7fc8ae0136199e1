package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegion() *Region {
	return &Region{
		Name: "South Florida",
		Cities: []CityEntry{
			{City: "Miami", State: "FL", Status: CityStatusDone, Clinics: 42},
			{City: "Fort Lauderdale", State: "FL", Status: CityStatusQueued},
			{City: "Boca Raton", State: "FL", Status: CityStatusFailed, Error: "build check failed"},
			{City: "West Palm Beach", State: "FL", Status: CityStatusQueued},
		},
	}
}

func TestRegionFind(t *testing.T) {
	r := testRegion()

	entry := r.Find("Boca Raton", "FL")
	require.NotNil(t, entry)
	assert.Equal(t, CityStatusFailed, entry.Status)

	assert.Nil(t, r.Find("Boca Raton", "CA"))
	assert.Nil(t, r.Find("Orlando", "FL"))
}

func TestRegionQueuedOrder(t *testing.T) {
	r := testRegion()

	queued := r.Queued()
	require.Len(t, queued, 2)
	assert.Equal(t, "Fort Lauderdale", queued[0].City)
	assert.Equal(t, "West Palm Beach", queued[1].City)

	// Queued returns pointers into the ledger so transitions stick.
	queued[0].Status = CityStatusRunning
	assert.Equal(t, CityStatusRunning, r.Cities[1].Status)
}

func TestRegionCounts(t *testing.T) {
	r := testRegion()

	done, queued, running, failed, clinics := r.Counts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, queued)
	assert.Equal(t, 0, running)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 42, clinics)
}
