package ci

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aesthetic-atlas/directory-cli/internal/config"
)

func TestExecCheckerPass(t *testing.T) {
	c := NewExecChecker(config.BuildConfig{Command: "true", TimeoutSecs: 5})
	assert.NoError(t, c.Check(context.Background()))
}

func TestExecCheckerFailCarriesOutput(t *testing.T) {
	c := NewExecChecker(config.BuildConfig{
		Command:     "echo 'reviews expected array, received null' >&2; exit 1",
		TimeoutSecs: 5,
	})

	err := c.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reviews expected array, received null")
}

func TestExecCheckerTimeout(t *testing.T) {
	c := NewExecChecker(config.BuildConfig{Command: "sleep 10", TimeoutSecs: 1})
	assert.Error(t, c.Check(context.Background()))
}
