package files

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_OpenSources(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.xlsx", "b.xlsx")

	found, err := NewDiscovery(dir).FindReportFiles(dir)
	require.NoError(t, err)

	opened, err := NewManager(nil).OpenSources(found)
	require.NoError(t, err)
	require.Len(t, opened.Sources, 2)
	assert.Equal(t, "a.xlsx", opened.Sources[0].Name)
	assert.Equal(t, "b.xlsx", opened.Sources[1].Name)

	data, err := io.ReadAll(opened.Sources[1].Reader)
	require.NoError(t, err)
	assert.Equal(t, "test content", string(data))

	require.NoError(t, opened.Close())
	// a second close is a no-op
	assert.NoError(t, opened.Close())
}

func TestManager_OpenSourcesFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.xlsx")

	_, err := NewManager(nil).OpenSources([]FileInfo{
		{Path: filepath.Join(dir, "a.xlsx"), Name: "a.xlsx"},
		{Path: filepath.Join(dir, "missing.xlsx"), Name: "missing.xlsx"},
	})
	assert.Error(t, err)
}

func TestManager_OpenFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "cost.xlsx")

	f, name, err := NewManager(nil).OpenFile(filepath.Join(dir, "cost.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "cost.xlsx", name)

	_, _, err = NewManager(nil).OpenFile(filepath.Join(dir, "none.xlsx"))
	assert.Error(t, err)
}

func TestManager_Directories(t *testing.T) {
	m := NewManager(nil)
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, m.EnsureDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	require.NoError(t, m.EnsureDirectory(dir))

	touch(t, dir, "x.xlsx")
	assert.Error(t, m.EnsureDirectory(filepath.Join(dir, "x.xlsx")), "a file is not a directory")
}
