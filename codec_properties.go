// FILE: lixenwraith/confmgr/codec_properties.go
package confmgr

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/magiconair/properties"
)

// propertiesCodec reads and writes Java-style .properties text.
// Streams reaching the codec are already UTF-8; the Manager's charset does
// any transcoding, so \uXXXX escapes are only needed for readability.
type propertiesCodec struct{}

func (propertiesCodec) Name() string { return "properties" }

func (propertiesCodec) Suffixes() []string { return []string{".properties"} }

func (propertiesCodec) Decode(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, &InvalidDocumentError{Format: "properties", Cause: err}
	}

	keys := p.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		value, _ := p.Get(key)
		entries = append(entries, NewEntry(key, value))
	}
	return entries, nil
}

// Encode writes one "key = value" line per key. Duplicate keys collapse
// last-wins at the position of their first occurrence; null values are
// written empty.
func (propertiesCodec) Encode(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range MergeEntries(entries) {
		if _, err := fmt.Fprintf(bw, "%s = %s\n", escapePropertyKey(e.Key), escapePropertyValue(e.Value)); err != nil {
			return fmt.Errorf("failed to write property '%s': %w", e.Key, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write properties: %w", err)
	}
	return nil
}

// escapePropertyKey escapes every separator, comment marker and whitespace
// rune so the key reads back whole.
func escapePropertyKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case ' ', '=', ':', '#', '!':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			writeEscapedRune(&b, r)
		}
	}
	return b.String()
}

// escapePropertyValue escapes leading spaces, which a reader would skip
// as separator whitespace.
func escapePropertyValue(value string) string {
	var b strings.Builder
	leading := true
	for _, r := range value {
		if r == ' ' && leading {
			b.WriteString(`\ `)
			continue
		}
		leading = false
		writeEscapedRune(&b, r)
	}
	return b.String()
}

func writeEscapedRune(b *strings.Builder, r rune) {
	switch r {
	case '\\':
		b.WriteString(`\\`)
	case '\t':
		b.WriteString(`\t`)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\f':
		b.WriteString(`\f`)
	default:
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(b, `\u%04x`, r)
			return
		}
		b.WriteRune(r)
	}
}
