// Package fsys is the filesystem adapter behind the file tool. It works on an
// afero.Fs so the same code runs against the OS or an in-memory tree.
package fsys

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mcncl/scriptkit/internal/errors"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// FS performs whole-file operations on an afero.Fs.
type FS struct {
	fs     afero.Fs
	logger *zap.Logger
}

// Entry is one item of a directory listing.
type Entry struct {
	Path  string
	IsDir bool
	Size  int64
}

// New wraps fs. A nil logger disables logging.
func New(fs afero.Fs, logger *zap.Logger) *FS {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FS{fs: fs, logger: logger}
}

// NewOS returns an FS backed by the real filesystem.
func NewOS(logger *zap.Logger) *FS {
	return New(afero.NewOsFs(), logger)
}

// Afero exposes the underlying filesystem for packages that read through it.
func (f *FS) Afero() afero.Fs {
	return f.fs
}

// Exists reports whether path names a file or directory.
func (f *FS) Exists(path string) (bool, error) {
	ok, err := afero.Exists(f.fs, path)
	if err != nil {
		return false, errors.NewIOError(fmt.Sprintf("failed to check %q", path), err)
	}
	return ok, nil
}

// Read returns the contents of a file. Directories are reported as not found.
func (f *FS) Read(path string) (string, error) {
	if err := f.mustExist(path); err != nil {
		return "", err
	}
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", errors.NewIOError(fmt.Sprintf("failed to read %q", path), err)
	}
	f.logger.Debug("read file", zap.String("path", path), zap.Int("bytes", len(data)))
	return string(data), nil
}

// Write replaces the contents of a file, creating it and any missing parent
// directories.
func (f *FS) Write(path, content string) error {
	return f.writeBytes(path, []byte(content))
}

func (f *FS) writeBytes(path string, data []byte) error {
	if err := f.ensureParent(path); err != nil {
		return err
	}
	if err := afero.WriteFile(f.fs, path, data, filePerm); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write %q", path), err)
	}
	f.logger.Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// WriteBytes is Write for binary content.
func (f *FS) WriteBytes(path string, data []byte) error {
	return f.writeBytes(path, data)
}

// Append adds content to the end of a file, creating it if needed.
func (f *FS) Append(path, content string) error {
	if err := f.ensureParent(path); err != nil {
		return err
	}
	file, err := f.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to open %q", path), err)
	}
	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return errors.NewIOError(fmt.Sprintf("failed to append to %q", path), err)
	}
	if err := file.Close(); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to close %q", path), err)
	}
	f.logger.Debug("appended to file", zap.String("path", path), zap.Int("bytes", len(content)))
	return nil
}

// Copy duplicates a file's contents at dst.
func (f *FS) Copy(src, dst string) error {
	if err := f.mustExist(src); err != nil {
		return err
	}
	data, err := afero.ReadFile(f.fs, src)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to read %q", src), err)
	}
	return f.writeBytes(dst, data)
}

// Move copies src to dst and then removes src. It is not atomic: if the
// removal fails both paths exist. Moving a file onto itself leaves it alone.
func (f *FS) Move(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		if err := f.mustExist(src); err != nil {
			return err
		}
		f.logger.Debug("move source and destination are the same file", zap.String("path", src))
		return nil
	}
	if err := f.Copy(src, dst); err != nil {
		return err
	}
	if err := f.fs.RemoveAll(src); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to remove %q after copying", src), err)
	}
	f.logger.Debug("moved file", zap.String("from", src), zap.String("to", dst))
	return nil
}

// Delete removes a file or directory tree. A missing path is not an error.
func (f *FS) Delete(path string) error {
	if err := f.fs.RemoveAll(path); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to delete %q", path), err)
	}
	f.logger.Debug("deleted", zap.String("path", path))
	return nil
}

// Mkdir creates a directory and any missing parents.
func (f *FS) Mkdir(path string) error {
	if err := f.fs.MkdirAll(path, dirPerm); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create directory %q", path), err)
	}
	return nil
}

// Rmdir removes a directory and everything under it.
func (f *FS) Rmdir(path string) error {
	return f.Delete(path)
}

// Size returns the size of a file in bytes.
func (f *FS) Size(path string) (int64, error) {
	if err := f.mustExist(path); err != nil {
		return 0, err
	}
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0, errors.NewIOError(fmt.Sprintf("failed to stat %q", path), err)
	}
	return info.Size(), nil
}

// List returns the non-hidden entries directly under dir, sorted by name.
// A missing directory, or a path that is not a directory, lists as empty.
func (f *FS) List(dir string) ([]Entry, error) {
	isDir, err := afero.IsDir(f.fs, dir)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, errors.NewIOError(fmt.Sprintf("failed to list %q", dir), err)
	}
	if !isDir {
		return []Entry{}, nil
	}

	infos, err := afero.ReadDir(f.fs, dir)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("failed to list %q", dir), err)
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), ".") {
			continue
		}
		entry := Entry{Path: filepath.Join(dir, info.Name()), IsDir: info.IsDir()}
		if !entry.IsDir {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// mustExist succeeds only for regular files; directories count as missing.
func (f *FS) mustExist(path string) error {
	isDir, err := afero.IsDir(f.fs, path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return errors.NewNotFoundError(fmt.Sprintf("file %q does not exist", path), errors.ErrFileNotFound)
		}
		return errors.NewIOError(fmt.Sprintf("failed to check %q", path), err)
	}
	if isDir {
		return errors.NewNotFoundError(fmt.Sprintf("%q is a directory, not a file", path), errors.ErrFileNotFound)
	}
	return nil
}

func (f *FS) ensureParent(path string) error {
	parent := filepath.Dir(path)
	if parent == "." || parent == string(filepath.Separator) {
		return nil
	}
	if err := f.fs.MkdirAll(parent, dirPerm); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create directory %q", parent), err)
	}
	return nil
}
