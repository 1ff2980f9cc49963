// FILE: lixenwraith/confmgr/provider.go
package confmgr

import (
	"errors"
	"io"
	"slices"
	"strings"
)

// Provider opens byte streams for the locations of one scheme.
//
// OpenRead returns ErrLocationNotFound when a missing location should be
// treated as empty rather than as a failure. OpenWrite returns
// ErrUnsupportedOperation for read-only providers.
type Provider interface {
	Scheme() string
	OpenRead(loc Location) (io.ReadCloser, error)
	OpenWrite(loc Location) (io.WriteCloser, error)
}

// providerSet is the closed set of providers a Manager resolves against.
type providerSet []Provider

// resolve selects the provider whose scheme equals the location scheme, ignoring case.
func (ps providerSet) resolve(loc Location) (Provider, error) {
	for _, p := range ps {
		if strings.EqualFold(p.Scheme(), loc.Scheme()) {
			return p, nil
		}
	}
	return nil, &UnsupportedSchemeError{Location: loc, Valid: ps.schemes()}
}

// schemes returns lowercased provider schemes, sorted
func (ps providerSet) schemes() []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, strings.ToLower(p.Scheme()))
	}
	slices.Sort(names)
	return names
}

// closeInto closes c and joins any close failure into err.
func closeInto(err *error, c io.Closer) {
	if c == nil {
		return
	}
	if cerr := c.Close(); cerr != nil {
		*err = errors.Join(*err, cerr)
	}
}
