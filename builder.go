// File: lixenwraith/confmgr/builder.go
package confmgr

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
)

// DefaultTagName is the struct tag Unmarshal matches keys against
const DefaultTagName = "config"

// Builder provides a fluent interface for building a Manager
type Builder struct {
	locations  []Location
	charset    Charset
	bundle     fs.FS
	fs         afero.Fs
	logger     *slog.Logger
	registerer prometheus.Registerer
	tagName    string
	defaults   any
	prefix     string
	discovery  []FileDiscoveryOptions
	err        error
}

// NewBuilder creates a new manager builder with UTF-8, the OS filesystem
// and no bundled resources
func NewBuilder() *Builder {
	return &Builder{
		charset: DefaultCharset(),
		tagName: DefaultTagName,
	}
}

// WithLocations appends location identifiers such as "classpath://app.yaml"
// or "file:///etc/app/app.properties". Later locations take precedence.
func (b *Builder) WithLocations(raws ...string) *Builder {
	locs, err := ParseLocations(raws...)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.locations = append(b.locations, locs...)
	return b
}

// WithLocation appends already parsed locations
func (b *Builder) WithLocation(locs ...Location) *Builder {
	for _, loc := range locs {
		if loc.IsZero() {
			b.setErr(fmt.Errorf("%w: zero location", ErrInvalidLocation))
			return b
		}
	}
	b.locations = append(b.locations, locs...)
	return b
}

// WithCharset sets the charset by IANA name, e.g. "ISO-8859-1"
func (b *Builder) WithCharset(name string) *Builder {
	cs, err := LookupCharset(name)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.charset = cs
	return b
}

// WithEncoding sets the charset from an x/text encoding
func (b *Builder) WithEncoding(enc encoding.Encoding) *Builder {
	if enc == nil {
		b.setErr(errors.New("nil encoding"))
		return b
	}
	b.charset = CharsetOf(enc)
	return b
}

// WithBundle sets the filesystem classpath:// locations resolve against,
// typically an embed.FS
func (b *Builder) WithBundle(fsys fs.FS) *Builder {
	b.bundle = fsys
	return b
}

// WithFs sets the filesystem file:// locations resolve against
func (b *Builder) WithFs(fsys afero.Fs) *Builder {
	b.fs = fsys
	return b
}

// WithLogger sets the logger; nothing is logged by default
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithRegisterer enables Prometheus counters for reads, writes and decoded entries
func (b *Builder) WithRegisterer(reg prometheus.Registerer) *Builder {
	b.registerer = reg
	return b
}

// WithTagName sets the struct tag used by Unmarshal
func (b *Builder) WithTagName(name string) *Builder {
	b.tagName = name
	return b
}

// WithDefaults sets a struct of default values. Its fields form the lowest
// precedence layer of Stream, below every location.
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithPrefix sets the key prefix for the defaults struct, e.g. "server"
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithDiscovery searches for a configuration file at Build time and, if one
// is found, appends it after all other locations
func (b *Builder) WithDiscovery(opts FileDiscoveryOptions) *Builder {
	b.discovery = append(b.discovery, opts)
	return b
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build creates the Manager with all specified options
func (b *Builder) Build() (*Manager, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fileFs := b.fs
	if fileFs == nil {
		fileFs = afero.NewOsFs()
	}

	locations := append([]Location(nil), b.locations...)
	for _, opts := range b.discovery {
		if loc, found := discoverFile(fileFs, opts); found {
			logger.Debug("discovered config file", "location", loc.String())
			locations = append(locations, loc)
		}
	}

	var defaults []Entry
	if b.defaults != nil {
		entries, err := FlattenStruct(b.prefix, b.defaults, b.tagName)
		if err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
		defaults = entries
	}

	counters, err := newMetrics(b.registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return &Manager{
		locations: locations,
		defaults:  defaults,
		charset:   b.charset,
		providers: providerSet{
			newBundleProvider(b.bundle),
			newFileProvider(fileFs),
		},
		tagName: b.tagName,
		logger:  logger,
		metrics: counters,
	}, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Manager {
	m, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config manager build failed: %v", err))
	}
	return m
}

// BuildAndUnmarshal builds the Manager and decodes the merged configuration into target
func (b *Builder) BuildAndUnmarshal(target any) (*Manager, error) {
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := m.Unmarshal(target); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into target: %w", err)
	}
	return m, nil
}
