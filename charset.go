// FILE: lixenwraith/confmgr/charset.go
package confmgr

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultCharsetName is used when no charset is configured
const DefaultCharsetName = "UTF-8"

// Charset is the text encoding applied to every byte stream a Manager opens.
// Codecs always see UTF-8; the charset transcodes at the stream boundary.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// DefaultCharset returns UTF-8
func DefaultCharset() Charset {
	return Charset{name: DefaultCharsetName, enc: unicode.UTF8}
}

// LookupCharset resolves an IANA charset name such as "UTF-8" or "ISO-8859-1".
func LookupCharset(name string) (Charset, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return Charset{}, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return Charset{}, fmt.Errorf("charset %q is not supported", name)
	}
	return CharsetOf(enc), nil
}

// CharsetOf wraps an existing x/text encoding
func CharsetOf(enc encoding.Encoding) Charset {
	name, err := ianaindex.IANA.Name(enc)
	if err != nil {
		name = fmt.Sprintf("%v", enc)
	}
	return Charset{name: name, enc: enc}
}

// Name returns the canonical IANA name
func (c Charset) Name() string {
	return c.name
}

// Encoding returns the underlying x/text encoding
func (c Charset) Encoding() encoding.Encoding {
	return c.enc
}

// decodeReader transcodes a stream to UTF-8. UTF-8 input is validated
// instead, so malformed bytes fail rather than become U+FFFD.
func (c Charset) decodeReader(r io.Reader) io.Reader {
	if c.enc == unicode.UTF8 {
		return transform.NewReader(r, encoding.UTF8Validator)
	}
	return transform.NewReader(r, c.enc.NewDecoder())
}

// encode transcodes UTF-8 text into the charset. Runes the charset
// cannot represent fail the whole conversion.
func (c Charset) encode(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(c.enc.NewEncoder(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode as %s: %w", c.name, err)
	}
	return out, nil
}
