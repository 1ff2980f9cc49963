// FILE: lixenwraith/confmgr/location.go
package confmgr

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const (
	// SchemeFile addresses the local filesystem
	SchemeFile = "file"
	// SchemeClasspath addresses resources bundled with the application
	SchemeClasspath = "classpath"
)

// Location identifies a configuration source as <scheme>://<host><path>.
// The scheme selects the provider, the path suffix selects the codec.
// Host and path are joined by providers into a single lookup key, so
// "file://conf/app.yaml" and "file:///etc/app.yaml" both address files.
type Location struct {
	raw    string
	scheme string
	host   string
	path   string
}

// ParseLocation parses a location identifier
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w %q: %w", ErrInvalidLocation, raw, err)
	}
	if u.Scheme == "" {
		return Location{}, fmt.Errorf("%w %q: missing scheme", ErrInvalidLocation, raw)
	}

	path := u.Path
	if u.Opaque != "" {
		// scheme:relative/path without authority
		path = u.Opaque
	}

	return Location{
		raw:    raw,
		scheme: u.Scheme,
		host:   u.Host,
		path:   path,
	}, nil
}

// MustParseLocation is like ParseLocation but panics on error
func MustParseLocation(raw string) Location {
	loc, err := ParseLocation(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// ParseLocations parses every identifier, stopping at the first failure
func ParseLocations(raws ...string) ([]Location, error) {
	locs := make([]Location, 0, len(raws))
	for _, raw := range raws {
		loc, err := ParseLocation(raw)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// FileLocation builds a file location from an operating system path.
func FileLocation(osPath string) Location {
	return newLocation(SchemeFile, filepath.ToSlash(osPath))
}

// BundleLocation builds a classpath location for a bundled resource name.
func BundleLocation(name string) Location {
	return newLocation(SchemeClasspath, strings.TrimPrefix(name, "/"))
}

func newLocation(scheme, path string) Location {
	u := url.URL{Scheme: scheme, Path: path}
	return Location{
		raw:    u.String(),
		scheme: scheme,
		path:   path,
	}
}

// Scheme returns the location scheme as written
func (l Location) Scheme() string { return l.scheme }

// Host returns the authority part
func (l Location) Host() string { return l.host }

// Path returns the path part
func (l Location) Path() string { return l.path }

// HostAndPath returns host and path concatenated, the key providers resolve
// and codecs match suffixes against.
func (l Location) HostAndPath() string {
	return l.host + l.path
}

// IsZero reports whether the location was never set
func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	return l.raw
}
