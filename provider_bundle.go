// FILE: lixenwraith/confmgr/provider_bundle.go
package confmgr

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// bundleProvider serves classpath:// locations from resources bundled with
// the application, typically an embed.FS. Missing resources are not errors.
type bundleProvider struct {
	fsys fs.FS
}

func newBundleProvider(fsys fs.FS) *bundleProvider {
	return &bundleProvider{fsys: fsys}
}

func (p *bundleProvider) Scheme() string {
	return SchemeClasspath
}

// resourceName maps host+path onto an fs.FS name
func resourceName(loc Location) string {
	name := strings.TrimPrefix(loc.HostAndPath(), "/")
	if name == "" {
		return "."
	}
	return path.Clean(name)
}

func (p *bundleProvider) OpenRead(loc Location) (io.ReadCloser, error) {
	if p.fsys == nil {
		return nil, ErrLocationNotFound
	}

	name := resourceName(loc)
	if !fs.ValidPath(name) {
		return nil, unreadable(loc, fmt.Errorf("invalid resource name '%s': %w", name, fs.ErrInvalid))
	}

	file, err := p.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrLocationNotFound
		}
		return nil, unreadable(loc, fmt.Errorf("failed to open resource '%s': %w", name, err))
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, unreadable(loc, fmt.Errorf("failed to stat resource '%s': %w", name, err))
	}
	if info.IsDir() {
		file.Close()
		return nil, unreadable(loc, fmt.Errorf("resource '%s' is a directory", name))
	}
	return file, nil
}

func (p *bundleProvider) OpenWrite(loc Location) (io.WriteCloser, error) {
	return nil, fmt.Errorf("write to %s: %w", loc, ErrUnsupportedOperation)
}
