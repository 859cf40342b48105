package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/genie/internal/adapters/discovery"
	"go.trai.ch/genie/internal/core/domain"
)

// touch creates placeholder socket files; discovery never opens them.
func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, domain.PrivateFilePerm))
	}
}

func twoDirs(t *testing.T) (discovery.SearchPath, string, string) {
	t.Helper()
	x, y := t.TempDir(), t.TempDir()
	return discovery.SearchPath{x, y}, x, y
}

func TestFind_FirstDirectoryWins(t *testing.T) {
	path, x, y := twoDirs(t)
	touch(t, x, "tsc.200.sock")
	touch(t, y, "tsc.100.sock")

	loc, err := path.Find("tsc", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Location{Name: "tsc", ID: "200", Path: filepath.Join(x, "tsc.200.sock"), Index: 0}, loc)
}

func TestFind_ByID(t *testing.T) {
	path, x, y := twoDirs(t)
	touch(t, x, "tsc.200.sock")
	touch(t, y, "tsc.100.sock")

	loc, err := path.Find("tsc", "100")
	require.NoError(t, err)
	assert.Equal(t, 1, loc.Index)
	assert.Equal(t, "100", loc.ID)
}

func TestFind_SortedWithinDirectory(t *testing.T) {
	path, x, _ := twoDirs(t)
	touch(t, x, "watch.9.sock", "watch.10.sock")

	loc, err := path.Find("watch", "")
	require.NoError(t, err)
	assert.Equal(t, "10", loc.ID, "entries are ordered by file name")
}

func TestFind_IgnoresOtherFiles(t *testing.T) {
	path, x, _ := twoDirs(t)
	touch(t, x, "tsc.log", "Tsc.1.sock", "tsc.1.sock.bak", "tsc.a-b.sock", "tsc.sock")

	_, err := path.Find("tsc", "")
	require.ErrorIs(t, err, domain.ErrGenieNotFound)
}

func TestFind_HiddenSockets(t *testing.T) {
	path, x, _ := twoDirs(t)
	touch(t, x, ".tsc.abc123.sock")

	loc, err := path.Find("tsc", "abc123")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(x, ".tsc.abc123.sock"), loc.Path)
}

func TestFind_SkipsUnreadableDirectories(t *testing.T) {
	_, _, y := twoDirs(t)
	touch(t, y, "watch.1.sock")
	path := discovery.SearchPath{"", filepath.Join(y, "missing"), y}

	loc, err := path.Find("watch", "")
	require.NoError(t, err)
	assert.Equal(t, 2, loc.Index)
}

func TestFind_NotFound(t *testing.T) {
	path, _, _ := twoDirs(t)

	_, err := path.Find("tsc", "1")
	require.ErrorIs(t, err, domain.ErrGenieNotFound)
	assert.ErrorContains(t, err, "no matching socket")
}

func TestList(t *testing.T) {
	path, x, y := twoDirs(t)
	touch(t, x, "watch.2.sock", "tsc.1.sock", "notes.txt")
	touch(t, y, "watch.3.sock")

	got := path.List()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"tsc", "watch", "watch"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, []int{0, 0, 1}, []int{got[0].Index, got[1].Index, got[2].Index})
}

func TestPromote(t *testing.T) {
	path, x, y := twoDirs(t)
	touch(t, x, "tsc.1.sock")

	found, err := path.Find("tsc", "")
	require.NoError(t, err)

	moved, err := path.Promote("tsc", "", found.Index+1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(y, "tsc.1.sock"), moved.Path)
	assert.Equal(t, 1, moved.Index)

	assert.NoFileExists(t, filepath.Join(x, "tsc.1.sock"))
	assert.FileExists(t, filepath.Join(y, "tsc.1.sock"))
}

func TestPromote_PathExhausted(t *testing.T) {
	path, _, y := twoDirs(t)
	touch(t, y, "tsc.1.sock")

	_, err := path.Promote("tsc", "", 2)
	require.ErrorIs(t, err, domain.ErrPathExhausted)
	assert.FileExists(t, filepath.Join(y, "tsc.1.sock"), "nothing moves on failure")
}

func TestPromote_NotFound(t *testing.T) {
	path, _, _ := twoDirs(t)

	_, err := path.Promote("tsc", "", 1)
	require.ErrorIs(t, err, domain.ErrGenieNotFound)
}

func TestMove_RenameFails(t *testing.T) {
	path, x, _ := twoDirs(t)

	_, err := path.Move(domain.Location{Name: "tsc", ID: "1", Path: filepath.Join(x, "tsc.1.sock")}, 1)
	require.ErrorIs(t, err, domain.ErrSocketRelocateFailed)
}

func TestNth(t *testing.T) {
	path, x, _ := twoDirs(t)

	dir, err := path.Nth(0)
	require.NoError(t, err)
	assert.Equal(t, x, dir)

	_, err = path.Nth(2)
	require.ErrorIs(t, err, domain.ErrPathExhausted)
	_, err = path.Nth(-1)
	require.ErrorIs(t, err, domain.ErrPathExhausted)
}
