// Package fsutil provides file helpers shared by the config writer, the hook
// installer and the PID file.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// DirPermissions is used for parent directories created on write.
	DirPermissions = 0o700

	// FilePermissions is used for new files unless overridden.
	FilePermissions = 0o600
)

type writeOptions struct {
	perm   os.FileMode
	backup bool
	now    func() time.Time
}

// WriteOption configures AtomicWriteFile.
type WriteOption func(*writeOptions)

// WithPerm sets the permissions of a newly created file. Existing files keep
// their permissions.
func WithPerm(perm os.FileMode) WriteOption {
	return func(o *writeOptions) {
		o.perm = perm
	}
}

// WithBackup copies an existing file to "<path>.backup.<unix>" before
// replacing it.
func WithBackup() WriteOption {
	return func(o *writeOptions) {
		o.backup = true
	}
}

// WithTimeFunc sets the clock used for backup names.
func WithTimeFunc(now func() time.Time) WriteOption {
	return func(o *writeOptions) {
		o.now = now
	}
}

// AtomicWriteFile writes data to a temp file in the target directory and
// renames it over path. It returns the backup path when one was made.
func AtomicWriteFile(path string, data []byte, opts ...WriteOption) (string, error) {
	o := writeOptions{perm: FilePermissions, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return "", errors.Wrap(err, "failed to create directory")
	}

	perm := o.perm
	existing := false

	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
		existing = true
	}

	var backupPath string

	if o.backup && existing {
		backupPath = fmt.Sprintf("%s.backup.%d", path, o.now().Unix())
		if err := copyFile(path, backupPath); err != nil {
			return "", errors.Wrap(err, "failed to create backup")
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return "", errors.Wrap(err, "failed to write temp file")
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return "", errors.Wrap(err, "failed to close temp file")
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)

		return "", errors.Wrap(err, "failed to set permissions")
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return "", errors.Wrap(err, "failed to rename temp file")
	}

	return backupPath, nil
}

// copyFile copies src file to dst
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // src is controlled by caller
	if err != nil {
		return errors.Wrap(err, "failed to read source file")
	}

	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "failed to stat source file")
	}

	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "failed to write destination file")
	}

	return nil
}
