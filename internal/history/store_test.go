package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestStartCompleteFail(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	id1, err := st.Start(ctx, "south-florida", "Miami", "FL")
	require.NoError(t, err)
	id2, err := st.Start(ctx, "south-florida", "Fort Lauderdale", "FL")
	require.NoError(t, err)

	require.NoError(t, st.Complete(ctx, id1, 42))
	require.NoError(t, st.Fail(ctx, id2, "build check failed"))

	runs, err := st.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byID := map[string]Run{}
	for _, r := range runs {
		byID[r.ID] = r
	}

	done := byID[id1]
	assert.Equal(t, "done", done.Status)
	assert.Equal(t, 42, done.Records)
	assert.NotNil(t, done.FinishedAt)

	failed := byID[id2]
	assert.Equal(t, "failed", failed.Status)
	assert.Equal(t, "build check failed", failed.Error)
}

func TestListLimit(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)

	for i := 0; i < 5; i++ {
		_, err := st.Start(ctx, "south-florida", "Miami", "FL")
		require.NoError(t, err)
	}

	runs, err := st.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestCompleteUnknownRun(t *testing.T) {
	st := testStore(t)
	err := st.Complete(context.Background(), "no-such-id", 1)
	assert.Error(t, err)
}

func TestListEmpty(t *testing.T) {
	st := testStore(t)
	runs, err := st.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
