package libraries

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/wwscc/distbuilder/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
}

func TestCopy(t *testing.T) {
	src := filepath.Join(t.TempDir(), "lib")
	dst := filepath.Join(t.TempDir(), "runtime", "lib")
	writeFile(t, filepath.Join(src, "b.jar"), "bbb")
	writeFile(t, filepath.Join(src, "a.jar"), "aaa")
	writeFile(t, filepath.Join(src, "nested", "c.jar"), "ccc")

	names, err := Copy(src, dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jar", "b.jar"}, names)

	data, err := os.ReadFile(filepath.Join(dst, "a.jar"))
	require.NoError(t, err)
	assert.Equal(t, "aaa", string(data))
	assert.NoFileExists(t, filepath.Join(dst, "nested", "c.jar"))
}

func TestCopy_OverwritesExisting(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "a.jar"), "new")
	writeFile(t, filepath.Join(dst, "a.jar"), "old content that is longer")

	_, err := Copy(src, dst)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dst, "a.jar"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCopy_EmptySource(t *testing.T) {
	names, err := Copy(t.TempDir(), filepath.Join(t.TempDir(), "lib"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCopy_MissingSource(t *testing.T) {
	_, err := Copy(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryFileSystem))
}
