package volume

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat(t *testing.T) {
	dir := t.TempDir()

	u, err := Stat(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, u.Path)
	assert.Greater(t, u.Total, uint64(0))
	assert.LessOrEqual(t, u.Free, u.Total)
}

func TestStat_Missing(t *testing.T) {
	_, err := Stat(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
