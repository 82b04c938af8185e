package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/wwscc/distbuilder/internal/errors"
)

func populate(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o640))
	}
}

func TestCreate_ReproducesTree(t *testing.T) {
	src := filepath.Join(t.TempDir(), "win")
	files := map[string]string{
		"bin/java.exe":         "binary",
		"lib/a.jar":            "aaa",
		"lib/b.jar":            "bbb",
		"StartScorekeeper.bat": "start",
		"rules.bat":            "rules",
	}
	populate(t, src, files)
	require.NoError(t, os.Chmod(filepath.Join(src, "rules.bat"), 0o777))

	dest := filepath.Join(t.TempDir(), "Scorekeeper-1.2.3-win.zip")
	res, err := Create(src, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, res.Path)
	assert.Positive(t, res.Bytes)

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	sum := sha256.Sum256(raw)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.SHA256)

	zr, err := zip.OpenReader(dest)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	got := map[string]string{}
	var dirs []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			dirs = append(dirs, f.Name)
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		got[f.Name] = string(data)
		if f.Name == "rules.bat" {
			assert.Equal(t, os.FileMode(0o777), f.Mode().Perm())
		}
	}
	assert.Equal(t, files, got)
	sort.Strings(dirs)
	assert.Equal(t, []string{"bin/", "lib/"}, dirs)
	assert.Equal(t, len(files)+len(dirs), res.Entries)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(dest), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCreate_MissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.zip")
	_, err := Create(filepath.Join(t.TempDir(), "missing"), dest)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryFileSystem))
	assert.NoFileExists(t, dest)
}

func TestCreate_SourceIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "runtime")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err := Create(file, filepath.Join(t.TempDir(), "out.zip"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryArchive))
}
