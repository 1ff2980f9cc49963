// File: lixenwraith/confmgr/convenience.go
package confmgr

import (
	"fmt"
	"io"
	"strings"
)

// Quick merges the given locations with default settings and decodes the
// result into target. Bundled resources are not available; use a Builder
// with WithBundle for classpath:// locations.
func Quick(target any, locations ...string) (*Manager, error) {
	return NewBuilder().WithLocations(locations...).BuildAndUnmarshal(target)
}

// MustQuick is like Quick but panics on error
func MustQuick(target any, locations ...string) *Manager {
	m, err := Quick(target, locations...)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return m
}

// ReadLocation decodes a single location identifier with default settings
func ReadLocation(raw string) (Entries, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}
	m, err := NewBuilder().Build()
	if err != nil {
		return nil, err
	}
	return m.Read(loc)
}

// Dump writes the merged configuration to w in the given format
func (m *Manager) Dump(w io.Writer, codec Codec) error {
	entries, err := m.Stream()
	if err != nil {
		return err
	}
	if err := codec.Encode(w, entries); err != nil {
		return fmt.Errorf("failed to dump config as %s: %w", codec.Name(), err)
	}
	return nil
}

// Debug returns a formatted listing of the merged configuration
func (m *Manager) Debug() (string, error) {
	entries, err := m.Stream()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString(fmt.Sprintf("Charset: %s\n", m.charset.Name()))
	b.WriteString("Locations (last wins):\n")
	for i, loc := range m.locations {
		b.WriteString(fmt.Sprintf("  %d: %s\n", i, loc))
	}
	b.WriteString("Current values:\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("  %s\n", e))
	}
	return b.String(), nil
}

// CodecByName returns the registered codec with the given name, ignoring case
func CodecByName(name string) (Codec, error) {
	for _, c := range codecs {
		if strings.EqualFold(c.Name(), name) {
			return c, nil
		}
	}
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.Name()
	}
	return nil, fmt.Errorf("%w: unknown format %q, valid formats are [%s]",
		ErrUnsupportedFormat, name, strings.Join(names, ", "))
}
