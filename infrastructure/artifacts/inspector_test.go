package artifacts_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/ZKNoxHQ/ksig-bridge/infrastructure/artifacts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileInspector_HostFilesystem(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "r1cs.bin")
	require.NoError(t, os.WriteFile(file, []byte{1}, 0o600))

	inspector := artifacts.NewFileInspector()

	t.Run("existing file", func(t *testing.T) {
		assert.NoError(t, inspector.Inspect(file))
	})

	t.Run("absent file", func(t *testing.T) {
		err := inspector.Inspect(filepath.Join(dir, "proving_key.bin"))
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		assert.ErrorIs(t, inspector.Inspect(dir), artifacts.ErrNotRegular)
	})

	t.Run("empty path", func(t *testing.T) {
		assert.ErrorIs(t, inspector.Inspect(""), fs.ErrInvalid)
	})
}

func TestFileInspector_WithFS(t *testing.T) {
	fsys := fstest.MapFS{
		"keys/verifying_key.bin": &fstest.MapFile{Data: []byte{1}},
	}
	inspector := artifacts.NewFileInspector(artifacts.WithFS(fsys))

	assert.NoError(t, inspector.Inspect("keys/verifying_key.bin"))
	assert.ErrorIs(t, inspector.Inspect("keys"), artifacts.ErrNotRegular)
	assert.ErrorIs(t, inspector.Inspect("keys/missing.bin"), fs.ErrNotExist)
}
