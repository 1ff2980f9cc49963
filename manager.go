// FILE: lixenwraith/confmgr/manager.go
package confmgr

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// Manager reads configuration from an ordered list of locations and merges
// it into one entry stream. Later locations override earlier ones.
// A Manager is immutable after Build and safe for concurrent use.
type Manager struct {
	locations []Location
	defaults  []Entry
	charset   Charset
	providers providerSet
	tagName   string
	logger    *slog.Logger
	metrics   *metrics
}

// New creates a Manager for the given location identifiers with default settings
func New(locations ...string) (*Manager, error) {
	return NewBuilder().WithLocations(locations...).Build()
}

// Locations returns the configured locations in precedence order (last wins)
func (m *Manager) Locations() []Location {
	return slices.Clone(m.locations)
}

// Charset returns the charset applied to every stream
func (m *Manager) Charset() Charset {
	return m.charset
}

// Schemes returns the location schemes this Manager can resolve
func (m *Manager) Schemes() []string {
	return m.providers.schemes()
}

// Read decodes a single location. Provider and codec are both resolved
// before any I/O, so unsupported locations fail without side effects.
// A missing bundled resource yields no entries and no error.
func (m *Manager) Read(loc Location) (entries Entries, err error) {
	log := m.logger.With("op", "read", "location", loc.String())

	var codec Codec
	notFound := false
	defer func() {
		switch {
		case err != nil:
			log.Debug("read failed", "error", err)
			m.metrics.read(loc, codec, resultError)
		case notFound:
			m.metrics.read(loc, codec, resultNotFound)
		default:
			m.metrics.read(loc, codec, resultOK)
		}
	}()

	log.Debug("resolving provider")
	provider, err := m.providers.resolve(loc)
	if err != nil {
		return nil, err
	}

	log.Debug("resolving codec", "provider", provider.Scheme())
	codec, err = CodecFor(loc)
	if err != nil {
		return nil, err
	}

	stream, err := provider.OpenRead(loc)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			log.Debug("location not found, contributing no entries")
			notFound = true
			return Entries{}, nil
		}
		return nil, err
	}
	defer closeInto(&err, stream)

	log.Debug("decoding", "format", codec.Name(), "charset", m.charset.Name())
	decoded, err := codec.Decode(m.charset.decodeReader(stream))
	if err != nil {
		return nil, unreadable(loc, err)
	}

	m.metrics.entries(codec, len(decoded))
	log.Debug("decoded location", "entries", len(decoded))
	if decoded == nil {
		decoded = []Entry{}
	}
	return Entries(decoded), nil
}

// Write encodes entries in the location's format and replaces its content.
// Encoding happens in memory first; an encode failure leaves the target untouched.
func (m *Manager) Write(loc Location, entries []Entry) (err error) {
	log := m.logger.With("op", "write", "location", loc.String())

	var codec Codec
	defer func() {
		if err != nil {
			log.Debug("write failed", "error", err)
			m.metrics.write(loc, codec, resultError)
			return
		}
		m.metrics.write(loc, codec, resultOK)
	}()

	log.Debug("resolving provider")
	provider, err := m.providers.resolve(loc)
	if err != nil {
		return err
	}

	log.Debug("resolving codec", "provider", provider.Scheme())
	codec, err = CodecFor(loc)
	if err != nil {
		return err
	}

	log.Debug("encoding", "format", codec.Name(), "charset", m.charset.Name(), "entries", len(entries))
	var buf bytes.Buffer
	if err := codec.Encode(&buf, entries); err != nil {
		return unwritable(loc, err)
	}
	data, err := m.charset.encode(buf.Bytes())
	if err != nil {
		return unwritable(loc, err)
	}

	sink, err := provider.OpenWrite(loc)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = unwritable(loc, fmt.Errorf("failed to close: %w", cerr))
		}
	}()

	if _, err := io.Copy(sink, bytes.NewReader(data)); err != nil {
		return unwritable(loc, err)
	}
	log.Debug("wrote location", "bytes", len(data))
	return nil
}

// Stream reads every configured location in order and merges the results
// over the defaults: the last value seen for a key wins and keys keep their
// first-seen position. The first failing location aborts the stream.
//
// Merging is per key. A list overridden by a shorter list keeps stale
// trailing elements; its length helper reflects the later list.
func (m *Manager) Stream() (Entries, error) {
	all := slices.Clone(m.defaults)
	for _, loc := range m.locations {
		entries, err := m.Read(loc)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}

	merged := MergeEntries(all)
	m.logger.Debug("merged locations", "locations", len(m.locations), "defaults", len(m.defaults), "entries", len(merged))
	return merged, nil
}

// Load publishes the merged stream into sink. Null values are skipped.
func (m *Manager) Load(sink Sink) error {
	entries, err := m.Stream()
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Null {
			m.logger.Debug("skipping null config value", "key", e.Key)
			continue
		}
		if err := sink.Set(e.Key, e.Value); err != nil {
			return fmt.Errorf("failed to publish config key '%s': %w", e.Key, err)
		}
	}
	return nil
}
