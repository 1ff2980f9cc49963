// FILE: lixenwraith/confmgr/provider_file.go
package confmgr

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// fileProvider serves file:// locations from an afero filesystem,
// the operating system by default.
type fileProvider struct {
	fs afero.Fs
}

func newFileProvider(fsys afero.Fs) *fileProvider {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &fileProvider{fs: fsys}
}

func (p *fileProvider) Scheme() string {
	return SchemeFile
}

func (p *fileProvider) osPath(loc Location) string {
	return filepath.FromSlash(loc.HostAndPath())
}

// OpenRead opens an existing regular file. Missing files and directories are unreadable.
func (p *fileProvider) OpenRead(loc Location) (io.ReadCloser, error) {
	path := p.osPath(loc)
	if path == "" {
		return nil, unreadable(loc, errors.New("empty file path"))
	}

	info, err := p.fs.Stat(path)
	if err != nil {
		return nil, unreadable(loc, fmt.Errorf("failed to stat config file '%s': %w", path, err))
	}
	if info.IsDir() {
		return nil, unreadable(loc, fmt.Errorf("config file '%s' is an existing directory", path))
	}

	file, err := p.fs.Open(path)
	if err != nil {
		return nil, unreadable(loc, fmt.Errorf("failed to open config file '%s': %w", path, err))
	}
	return file, nil
}

// OpenWrite creates missing parent directories and opens a sink that
// atomically replaces the file's content on Close.
func (p *fileProvider) OpenWrite(loc Location) (io.WriteCloser, error) {
	path := p.osPath(loc)
	if path == "" {
		return nil, unwritable(loc, errors.New("empty file path"))
	}

	if info, err := p.fs.Stat(path); err == nil && info.IsDir() {
		return nil, unwritable(loc, fmt.Errorf("config file '%s' is an existing directory", path))
	}

	dir := filepath.Dir(path)
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		return nil, unwritable(loc, fmt.Errorf("failed to create config directory '%s': %w", dir, err))
	}
	// MkdirAll on some filesystems accepts an existing file as a directory segment
	if info, err := p.fs.Stat(dir); err == nil && !info.IsDir() {
		return nil, unwritable(loc, fmt.Errorf("config directory '%s' is an existing file: %w", dir, fs.ErrExist))
	}

	// Create a temporary file in the same directory, renamed over the target on close
	tmp, err := afero.TempFile(p.fs, dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, unwritable(loc, fmt.Errorf("failed to create temporary config file in '%s': %w", dir, err))
	}
	return &atomicFile{File: tmp, fs: p.fs, target: path}, nil
}

// atomicFile replaces its target only when every write succeeded and the
// data reached the filesystem; otherwise the temporary file is removed.
type atomicFile struct {
	afero.File
	fs     afero.Fs
	target string
	failed bool
}

func (f *atomicFile) Write(b []byte) (int, error) {
	n, err := f.File.Write(b)
	if err != nil {
		f.failed = true
	}
	return n, err
}

func (f *atomicFile) Close() error {
	tempPath := f.File.Name()
	renamed := false
	defer func() {
		if !renamed {
			f.fs.Remove(tempPath)
		}
	}()

	if f.failed {
		f.File.Close()
		return fmt.Errorf("discarded temp config file '%s' after failed write", tempPath)
	}

	if err := f.File.Sync(); err != nil {
		f.File.Close()
		return fmt.Errorf("failed to sync temp config file '%s': %w", tempPath, err)
	}
	if err := f.File.Close(); err != nil {
		return fmt.Errorf("failed to close temp config file '%s': %w", tempPath, err)
	}
	if err := f.fs.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on temporary config file '%s': %w", tempPath, err)
	}
	if err := f.fs.Rename(tempPath, f.target); err != nil {
		return fmt.Errorf("failed to rename temp file '%s' to '%s': %w", tempPath, f.target, err)
	}
	renamed = true
	return nil
}
