package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planet.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = \"a\"\n"), 0o644))

	pw, err := NewParameterWatcher(path, 100*time.Millisecond)
	require.NoError(t, err)
	defer pw.Close()

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, pw.Path())

	// a burst of writes is reported once
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("name = \"b\"\n"), 0o644))
	}
	select {
	case got := <-pw.Events():
		assert.Equal(t, abs, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-pw.Events():
		t.Fatal("burst reported more than once")
	case <-time.After(300 * time.Millisecond):
	}

	// atomic replace through a rename
	tmp := filepath.Join(dir, ".planet.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("name = \"c\"\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	select {
	case got := <-pw.Events():
		assert.Equal(t, abs, got)
	case <-time.After(2 * time.Second):
		t.Fatal("replace not reported")
	}
}

func TestParameterWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planet.toml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	pw, err := NewParameterWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)
	defer pw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644))
	select {
	case <-pw.Events():
		t.Fatal("unrelated file reported")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestParameterWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planet.toml")
	pw, err := NewParameterWatcher(path, 0)
	require.NoError(t, err)

	require.NoError(t, pw.Close())
	assert.ErrorIs(t, pw.Close(), ErrWatcherClosed)

	_, ok := <-pw.Events()
	assert.False(t, ok)
}

func TestParameterWatcherMissingDirectory(t *testing.T) {
	_, err := NewParameterWatcher(filepath.Join(t.TempDir(), "nope", "planet.toml"), 0)
	assert.Error(t, err)
}
