package linker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwscc/distbuilder/internal/config"
	derrors "github.com/wwscc/distbuilder/internal/errors"
)

type fakeLinker struct {
	calls []Request
	err   error
}

func (f *fakeLinker) Link(_ context.Context, req Request) error {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return f.err
	}
	return os.MkdirAll(filepath.Join(req.Output, "bin"), 0o750)
}

func buildConfig(t *testing.T) *config.BuildConfig {
	t.Helper()
	root := t.TempDir()
	return &config.BuildConfig{
		Product:    "Scorekeeper",
		Modules:    "java.base,java.sql",
		JDK:        "/opt/jdk",
		Target:     "linux",
		Version:    "1.0.0",
		Platform:   config.PlatformUnix,
		BuildRoot:  root,
		RuntimeDir: filepath.Join(root, "linux"),
	}
}

func TestArgs(t *testing.T) {
	args := Args(Request{Modules: "java.base", ModulePath: "/jdk/jmods/", Output: "/out"})
	assert.Equal(t, []string{
		"-v", "--strip-debug", "--compress", "2", "--no-header-files", "--no-man-pages",
		"--module-path", "/jdk/jmods/", "--output", "/out", "--add-modules", "java.base",
	}, args)
}

func TestPrepare_LinksWhenMissing(t *testing.T) {
	cfg := buildConfig(t)
	fl := &fakeLinker{}

	linked, err := Prepare(context.Background(), cfg, fl)
	require.NoError(t, err)
	assert.True(t, linked)
	require.Len(t, fl.calls, 1)
	assert.Equal(t, cfg.RuntimeDir, fl.calls[0].Output)
	assert.Equal(t, filepath.Join("/opt/jdk", "jmods")+string(filepath.Separator), fl.calls[0].ModulePath)

	st, err := ReadStatus(cfg)
	require.NoError(t, err)
	assert.True(t, st.Present)
	assert.True(t, st.Complete)
	assert.Equal(t, "java.base,java.sql", st.Marker.Modules)
}

func TestPrepare_SkipsExistingRuntime(t *testing.T) {
	cfg := buildConfig(t)
	require.NoError(t, os.MkdirAll(cfg.RuntimeDir, 0o750))
	fl := &fakeLinker{}

	linked, err := Prepare(context.Background(), cfg, fl)
	require.NoError(t, err)
	assert.False(t, linked)
	assert.Empty(t, fl.calls)

	st, err := ReadStatus(cfg)
	require.NoError(t, err)
	assert.True(t, st.Present)
	assert.False(t, st.Complete, "no marker without a link")
}

func TestPrepare_SkipRuntimeFlag(t *testing.T) {
	cfg := buildConfig(t)
	cfg.SkipRuntime = true
	fl := &fakeLinker{}

	linked, err := Prepare(context.Background(), cfg, fl)
	require.NoError(t, err)
	assert.False(t, linked)
	assert.Empty(t, fl.calls)
}

func TestPrepare_FailureIsRuntimeError(t *testing.T) {
	cfg := buildConfig(t)
	fl := &fakeLinker{err: errors.New("exit status 1")}

	_, err := Prepare(context.Background(), cfg, fl)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryRuntime))
	_, statErr := os.Stat(cfg.RuntimeMarkerPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestBinaryLinker_MissingTool(t *testing.T) {
	b := &BinaryLinker{Tool: "distbuilder-no-such-jlink"}
	err := b.Link(context.Background(), Request{Output: t.TempDir()})
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryRuntime))
}

func TestReadStatus_Empty(t *testing.T) {
	st, err := ReadStatus(buildConfig(t))
	require.NoError(t, err)
	assert.False(t, st.Present)
	assert.False(t, st.Complete)
	assert.Nil(t, st.Marker)
}
