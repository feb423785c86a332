package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/composer-merge/pkg/errors"
)

// FS is the file access the merge driver needs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	// WriteFileAtomic replaces name so that readers see either the old or
	// the new content, never a partial write
	WriteFileAtomic(name string, data []byte) error
}

// aferoFS implements FS using afero
type aferoFS struct {
	fs afero.Fs
}

// NewAferoFS wraps an afero filesystem
func NewAferoFS(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// NewOS returns the OS filesystem
func NewOS() FS {
	return NewAferoFS(afero.NewOsFs())
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() FS {
	return NewAferoFS(afero.NewMemMapFs())
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	info, err := a.fs.Stat(name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", name).
			WithDetail("path", name)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrFileRead, "cannot read %s: is a directory", name).
			WithDetail("path", name)
	}
	data, err := afero.ReadFile(a.fs, name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", name).
			WithDetail("path", name)
	}
	return data, nil
}

func (a *aferoFS) WriteFileAtomic(name string, data []byte) error {
	perm := fs.FileMode(0644)
	if info, err := a.fs.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := afero.TempFile(a.fs, filepath.Dir(name), "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return writeError(err, name)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = a.fs.Remove(tmpName)
		return writeError(err, name)
	}
	if err := tmp.Close(); err != nil {
		_ = a.fs.Remove(tmpName)
		return writeError(err, name)
	}
	if err := a.fs.Chmod(tmpName, perm); err != nil {
		_ = a.fs.Remove(tmpName)
		return writeError(err, name)
	}
	if err := a.fs.Rename(tmpName, name); err != nil {
		_ = a.fs.Remove(tmpName)
		return writeError(err, name)
	}
	return nil
}

func writeError(err error, name string) error {
	return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", name).
		WithDetail("path", name)
}
