package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/linker"
)

type fakeLinker struct {
	calls int
}

func (f *fakeLinker) Link(_ context.Context, req linker.Request) error {
	f.calls++
	return os.MkdirAll(filepath.Join(req.Output, "bin"), 0o750)
}

type fixture struct {
	dir       string
	app       string
	jdk       string
	buildRoot string
}

func newFixture(t *testing.T, libs ...string) fixture {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	f := fixture{
		dir:       dir,
		app:       filepath.Join(dir, "app"),
		jdk:       filepath.Join(dir, "jdk"),
		buildRoot: filepath.Join(dir, "build"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(f.app, "lib"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(f.jdk, "jmods"), 0o750))
	for _, l := range libs {
		require.NoError(t, os.WriteFile(filepath.Join(f.app, "lib", l), []byte(l), 0o600))
	}
	return f
}

func (f fixture) buildArgs(extra ...string) []string {
	args := []string{"build",
		"--modules", "java.base,java.sql",
		"--jdk", f.jdk,
		"--app", f.app,
		"--build-root", f.buildRoot,
	}
	return append(args, extra...)
}

// run parses args and executes the selected command.
func run(t *testing.T, g *Global, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("distbuilder"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	if g == nil {
		g = &Global{}
	}
	g.Ctx = context.Background()
	g.Out = &out
	err = kctx.Run(g, &cli)
	return out.String(), err
}

func TestBuildCommand_SkipRuntimeUnix(t *testing.T) {
	f := newFixture(t, "b.jar", "a.jar")

	out, err := run(t, nil, f.buildArgs("--target", "linux", "--version", "1.0", "--skip-runtime")...)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome=success")

	assert.FileExists(t, filepath.Join(f.buildRoot, "Scorekeeper-1.0-linux.zip"))
	assert.FileExists(t, filepath.Join(f.buildRoot, "Scorekeeper-1.0-linux.manifest.json"))

	launcher, err := os.ReadFile(filepath.Join(f.buildRoot, "linux", "StartScorekeeper"))
	require.NoError(t, err)
	assert.Contains(t, string(launcher), "../lib/a.jar:../lib/b.jar")
	assert.NoFileExists(t, filepath.Join(f.buildRoot, "linux", "rules.bat"))
}

func TestBuildCommand_UsesLinkerOverride(t *testing.T) {
	f := newFixture(t, "a.jar")
	fl := &fakeLinker{}

	_, err := run(t, &Global{Linker: fl}, f.buildArgs("--target", "win", "--version", "2.0")...)
	require.NoError(t, err)
	assert.Equal(t, 1, fl.calls)
	assert.FileExists(t, filepath.Join(f.buildRoot, "win", "rules.bat"))
	assert.FileExists(t, filepath.Join(f.buildRoot, "Scorekeeper-2.0-win.zip"))

	// the runtime image now exists, so a second build does not link again
	_, err = run(t, &Global{Linker: fl}, f.buildArgs("--target", "win", "--version", "2.0")...)
	require.NoError(t, err)
	assert.Equal(t, 1, fl.calls)
}

func TestBuildCommand_MissingFlags(t *testing.T) {
	f := newFixture(t, "a.jar")

	tests := []struct {
		name string
		args []string
	}{
		{"no modules", []string{"build", "--jdk", f.jdk, "--app", f.app, "--target", "linux", "--version", "1"}},
		{"no jdk", []string{"build", "--modules", "java.base", "--app", f.app, "--target", "linux", "--version", "1"}},
		{"no app", []string{"build", "--modules", "java.base", "--jdk", f.jdk, "--target", "linux", "--version", "1"}},
		{"no target", []string{"build", "--modules", "java.base", "--jdk", f.jdk, "--app", f.app, "--version", "1"}},
		{"no version", []string{"build", "--modules", "java.base", "--jdk", f.jdk, "--app", f.app, "--target", "linux"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, nil, tt.args...)
			require.Error(t, err)
			assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation), "got %v", err)
		})
	}
	_, err := os.Stat(f.buildRoot)
	assert.True(t, os.IsNotExist(err), "usage errors must not touch the build root")
}

func TestBuildCommand_MissingLibraryDirectory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(f.app, "lib")))

	out, err := run(t, nil, f.buildArgs("--target", "linux", "--version", "1", "--skip-runtime")...)
	require.Error(t, err)
	assert.Contains(t, out, "outcome=failed")
	assert.NoFileExists(t, filepath.Join(f.buildRoot, "Scorekeeper-1-linux.zip"))
}

func TestBuildCommand_MetricsAndReportFiles(t *testing.T) {
	f := newFixture(t, "a.jar")
	metricsFile := filepath.Join(f.dir, "out", "distbuilder.prom")
	reportFile := filepath.Join(f.dir, "out", "report.json")

	_, err := run(t, nil, f.buildArgs("--target", "linux", "--version", "1", "--skip-runtime",
		"--metrics-file", metricsFile, "--report-file", reportFile)...)
	require.NoError(t, err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "distbuilder_build_outcomes_total")
	assert.Contains(t, string(prom), "distbuilder_libraries_copied")

	report, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(report), `"outcome": "success"`)
}

func TestStatusCommand(t *testing.T) {
	f := newFixture(t, "a.jar")
	fl := &fakeLinker{}

	out, err := run(t, nil, "status", "--target", "linux", "--version", "1", "--build-root", f.buildRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "(missing)")
	assert.Contains(t, out, "linked:   no")

	_, err = run(t, &Global{Linker: fl}, f.buildArgs("--target", "linux", "--version", "1")...)
	require.NoError(t, err)

	out, err = run(t, nil, "status", "--target", "linux", "--version", "1", "--build-root", f.buildRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "(present)")
	assert.Contains(t, out, "modules=java.base,java.sql")
	assert.Contains(t, out, "Scorekeeper-1-linux.zip (")
}

func TestHistoryCommand(t *testing.T) {
	f := newFixture(t, "a.jar")
	cfgPath := filepath.Join(f.dir, "distbuilder.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  path: "+filepath.Join(f.dir, "history.db")+"\n"), 0o600))

	out, err := run(t, nil, "-c", cfgPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No builds recorded")

	_, err = run(t, nil, append([]string{"-c", cfgPath}, f.buildArgs("--target", "linux", "--version", "3.1", "--skip-runtime")...)...)
	require.NoError(t, err)

	out, err = run(t, nil, "-c", cfgPath, "history", "--target", "linux")
	require.NoError(t, err)
	assert.Contains(t, out, "3.1")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "Scorekeeper-3.1-linux.zip")
}

func TestHistoryCommand_NotEnabled(t *testing.T) {
	newFixture(t)

	_, err := run(t, nil, "history")
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestInitCommand(t *testing.T) {
	f := newFixture(t)

	out, err := run(t, nil, "init", "--output", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")

	data, err := os.ReadFile(filepath.Join(f.dir, "distbuilder.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "StartScorekeeper")

	_, err = run(t, nil, "init", "--output", f.dir)
	require.Error(t, err)

	_, err = run(t, nil, "init", "--output", f.dir, "--force")
	require.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "distbuilder "))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env     string
		verbose bool
		want    slog.Level
	}{
		{"", false, slog.LevelInfo},
		{"", true, slog.LevelDebug},
		{"debug", false, slog.LevelDebug},
		{"WARN", false, slog.LevelWarn},
		{"warning", false, slog.LevelWarn},
		{"error", false, slog.LevelError},
		{"error", true, slog.LevelDebug},
		{"bogus", false, slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("DISTBUILDER_LOG_LEVEL", tt.env)
			assert.Equal(t, tt.want, parseLogLevel(tt.verbose))
		})
	}
}
