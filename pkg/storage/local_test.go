package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_PutGetReplace(t *testing.T) {
	d := NewLocal(t.TempDir(), "http://localhost/storage/")

	require.NoError(t, d.Put("products.json", []byte(`[1]`)))
	require.NoError(t, d.Put("products.json", []byte(`[1,2]`)))

	got, err := d.Get("products.json")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
	assert.True(t, d.Exists("products.json"))
	assert.Equal(t, "http://localhost/storage/products.json", d.URL("/products.json"))
}

func TestLocalDisk_GetMissing(t *testing.T) {
	d := NewLocal(t.TempDir(), "")
	_, err := d.Get("nope.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDisk_DeleteMissingIsNoop(t *testing.T) {
	d := NewLocal(t.TempDir(), "")
	assert.NoError(t, d.Delete("nope.json"))
}

func TestLocalDisk_FilesSkipsTempAndDirs(t *testing.T) {
	root := t.TempDir()
	d := NewLocal(root, "")

	require.NoError(t, d.Put("exports/a.json", []byte("{}")))
	require.NoError(t, d.Put("exports/b.json", []byte("{}")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "exports", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "exports", ".tmp"), nil, 0o644))

	files, err := d.Files("exports")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"exports/a.json", "exports/b.json"}, files)

	none, err := d.Files("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUse_Unregistered(t *testing.T) {
	_, err := Use("does-not-exist")
	assert.Error(t, err)

	RegisterDisk("mem-test", NewLocal(t.TempDir(), ""))
	d, err := Use("mem-test")
	require.NoError(t, err)
	assert.NotNil(t, d)
}
