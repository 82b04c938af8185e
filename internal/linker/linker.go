package linker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
)

// Request describes one runtime image to produce.
type Request struct {
	Modules    string // comma separated module list handed to --add-modules
	ModulePath string // directory holding the JDK module images
	Output     string // runtime directory to create
}

// Linker abstracts how a trimmed runtime image is produced. The default
// BinaryLinker shells out to jlink; tests inject fakes.
type Linker interface {
	Link(ctx context.Context, req Request) error
}

// BinaryLinker invokes the jlink binary. Tool defaults to "jlink" on PATH.
type BinaryLinker struct {
	Tool   string
	Stdout *os.File
	Stderr *os.File
}

// Args returns the fixed jlink argument set for req.
func Args(req Request) []string {
	return []string{
		"-v",
		"--strip-debug",
		"--compress", "2",
		"--no-header-files",
		"--no-man-pages",
		"--module-path", req.ModulePath,
		"--output", req.Output,
		"--add-modules", req.Modules,
	}
}

func (b *BinaryLinker) tool() string {
	if b.Tool != "" {
		return b.Tool
	}
	return "jlink"
}

func (b *BinaryLinker) Link(ctx context.Context, req Request) error {
	tool := b.tool()
	path, err := exec.LookPath(tool)
	if err != nil {
		return derrors.LinkFailed(tool, fmt.Errorf("%s not found: %w", tool, err))
	}

	args := Args(req)
	// #nosec G204 -- tool and args come from resolved build configuration
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	slog.Info("Linking runtime image",
		logfields.Path(req.Output),
		slog.String("tool", path),
		slog.String("args", strings.Join(args, " ")))
	if err := cmd.Run(); err != nil {
		return derrors.LinkFailed(tool, err)
	}
	return nil
}
