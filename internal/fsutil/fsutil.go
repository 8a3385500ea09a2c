// Package fsutil holds the file writing helpers shared by the builder and
// its extensions.
package fsutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
)

// WriteFileAtomic streams r into dst via a temp file in the same directory
// and a rename. Missing parent directories are created. The temp file is
// removed on any failure.
func WriteFileAtomic(dst string, r io.Reader) (err error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create directory").
			Fatal().WithContext("path", dir).Build()
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create temp file").
			Fatal().WithContext("path", dir).Build()
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write file").
			Fatal().WithContext("path", dst).Build()
	}
	if err = tmp.Chmod(0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "chmod file").
			Fatal().WithContext("path", dst).Build()
	}
	if err = tmp.Close(); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "close file").
			Fatal().WithContext("path", dst).Build()
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "rename file").
			Fatal().WithContext("path", dst).Build()
	}
	return nil
}

// CopyDir copies the regular files below src into dst, keeping the relative
// layout. Existing files are overwritten.
func CopyDir(src, dst string) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := WriteFileAtomic(filepath.Join(dst, rel), f); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil && !derrors.IsClassified(err) {
		return copied, derrors.WrapError(err, derrors.CategoryFileSystem, "copy directory").
			Fatal().WithContext("path", src).Build()
	}
	return copied, err
}
