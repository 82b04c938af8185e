// Package libraries collects the application's library archives into the
// runtime output directory.
package libraries

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
)

// Copy copies every regular file directly inside src into dst and returns the
// copied file names. dst is created when missing. Sub-directories are not
// descended into. Names come back sorted because os.ReadDir sorts by name,
// which keeps the generated classpath stable between builds.
func Copy(src, dst string) ([]string, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, derrors.FileSystemError("read library directory", src, err)
	}
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return nil, derrors.FileSystemError("create library directory", dst, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			slog.Debug("Skipping library sub-directory", logfields.Path(filepath.Join(src, entry.Name())))
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if err := copyFile(srcPath, dstPath); err != nil {
			return names, derrors.FileSystemError("copy library", srcPath, err)
		}
		names = append(names, entry.Name())
	}

	slog.Info("Copied libraries", logfields.Path(dst), logfields.Count(len(names)))
	return names, nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) (err error) {
	// #nosec G304 -- src enumerated from the application library directory
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", src)
	}

	// #nosec G304 -- dst is inside the runtime directory
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dstFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}
