// Package archive seals a runtime directory into a zip distribution.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
)

// Result describes a written archive.
type Result struct {
	Path    string
	Bytes   int64
	SHA256  string
	Entries int
}

// Create zips every entry below srcDir into dest. Entry names are relative to
// srcDir, file modes are preserved, and dest only appears once the archive is
// complete.
func Create(srcDir, dest string) (res Result, err error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return res, derrors.FileSystemError("stat runtime directory", srcDir, err)
	}
	if !info.IsDir() {
		return res, derrors.ArchiveFailed(dest, fmt.Errorf("%s is not a directory", srcDir))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return res, derrors.FileSystemError("create archive directory", filepath.Dir(dest), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return res, derrors.FileSystemError("create temp archive", dest, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	hasher := sha256.New()
	zw := zip.NewWriter(io.MultiWriter(tmp, hasher))
	entries, err := addTree(zw, srcDir)
	if err != nil {
		_ = zw.Close()
		return res, derrors.ArchiveFailed(dest, err)
	}
	if err = zw.Close(); err != nil {
		return res, derrors.ArchiveFailed(dest, err)
	}
	if err = tmp.Close(); err != nil {
		return res, derrors.ArchiveFailed(dest, err)
	}
	if err = os.Rename(tmpName, dest); err != nil {
		return res, derrors.FileSystemError("rename archive", dest, err)
	}

	st, err := os.Stat(dest)
	if err != nil {
		return res, derrors.FileSystemError("stat archive", dest, err)
	}
	res = Result{Path: dest, Bytes: st.Size(), SHA256: hex.EncodeToString(hasher.Sum(nil)), Entries: entries}
	slog.Info("Archive written", logfields.Path(dest), logfields.Bytes(res.Bytes), logfields.Count(entries))
	return res, nil
}

func addTree(zw *zip.Writer, root string) (int, error) {
	entries := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("file info of %s: %w", path, err)
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("zip header for %s: %w", path, err)
		}
		header.Name = filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			header.Name += "/"
			header.Method = zip.Store
			if _, err := zw.CreateHeader(header); err != nil {
				return fmt.Errorf("directory entry %s: %w", rel, err)
			}
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("read symlink %s: %w", path, err)
			}
			header.Method = zip.Store
			w, err := zw.CreateHeader(header)
			if err != nil {
				return fmt.Errorf("symlink entry %s: %w", rel, err)
			}
			if _, err := io.WriteString(w, filepath.ToSlash(target)); err != nil {
				return fmt.Errorf("write symlink %s: %w", rel, err)
			}
		case d.Type().IsRegular():
			header.Method = zip.Deflate
			w, err := zw.CreateHeader(header)
			if err != nil {
				return fmt.Errorf("file entry %s: %w", rel, err)
			}
			if err := copyInto(w, path); err != nil {
				return fmt.Errorf("write %s: %w", rel, err)
			}
		default:
			slog.Debug("Skipping special file", logfields.Path(path))
			return nil
		}
		entries++
		return nil
	})
	return entries, err
}

func copyInto(w io.Writer, path string) error {
	// #nosec G304 -- path enumerated from the runtime directory
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	_, err = io.Copy(w, f)
	return err
}
