// FILE: lixenwraith/confmgr/codec.go
package confmgr

import (
	"io"
	"slices"
	"strings"
)

// Codec converts between a document format and flat entries.
// Codecs are stateless and safe for concurrent use.
type Codec interface {
	// Name is a short format name, e.g. "yaml"
	Name() string
	// Suffixes lists the lowercase path suffixes the codec claims
	Suffixes() []string
	Decode(r io.Reader) ([]Entry, error)
	Encode(w io.Writer, entries []Entry) error
}

var (
	PropertiesCodec Codec = propertiesCodec{}
	YAMLCodec       Codec = yamlCodec{}
	TOMLCodec       Codec = tomlCodec{}
	JSONCodec       Codec = jsonCodec{}
)

// codecs is the closed set of supported formats. Suffixes must not overlap.
var codecs = []Codec{
	PropertiesCodec,
	YAMLCodec,
	TOMLCodec,
	JSONCodec,
}

// Codecs returns the registered codecs
func Codecs() []Codec {
	return slices.Clone(codecs)
}

// Suffixes returns every registered suffix, sorted
func Suffixes() []string {
	var all []string
	for _, c := range codecs {
		all = append(all, c.Suffixes()...)
	}
	slices.Sort(all)
	return all
}

// CodecFor selects the codec whose suffixes match the end of the
// location's host+path, ignoring case.
func CodecFor(loc Location) (Codec, error) {
	path := loc.HostAndPath()
	lower := strings.ToLower(path)
	for _, c := range codecs {
		for _, suffix := range c.Suffixes() {
			if strings.HasSuffix(lower, suffix) {
				return c, nil
			}
		}
	}
	return nil, &UnsupportedFormatError{Location: loc, Path: path, Valid: Suffixes()}
}
