package sysio

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noFd struct{}

func (noFd) Fd() uintptr { return ^uintptr(0) }
func (noFd) Sync() error { return nil }

func TestAdvise_NoDescriptor(t *testing.T) {
	assert.ErrorIs(t, Advise(noFd{}, AdviceSequential), ErrUnsupported)
	assert.ErrorIs(t, DropCache(noFd{}), ErrUnsupported)
}

func TestDropCache(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "random-00000000"))
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write(make([]byte, 4096))
	require.NoError(t, err)

	err = DropCache(f)
	if runtime.GOOS == "linux" {
		assert.NoError(t, err)
		assert.NoError(t, Advise(f, AdviceSequential))
		assert.NoError(t, Advise(f, AdviceNormal))
	} else {
		assert.ErrorIs(t, err, ErrUnsupported)
	}
}
