// FILE: lixenwraith/confmgr/codec_test.go
package confmgr

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecFor(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"classpath://app.properties", "properties"},
		{"file:///etc/app.yaml", "yaml"},
		{"file:///etc/app.yml", "yaml"},
		{"file:///etc/APP.YML", "yaml"},
		{"http://x.properties", "properties"},
		{"classpath://conf/app.toml", "toml"},
		{"file:///srv/app.tml", "toml"},
		{"file:///srv/app.json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, err := CodecFor(MustParseLocation(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}

	t.Run("UnsupportedFormat", func(t *testing.T) {
		_, err := CodecFor(MustParseLocation("file:///etc/app.ini"))
		require.ErrorIs(t, err, ErrUnsupportedFormat)

		var formatErr *UnsupportedFormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, "/etc/app.ini", formatErr.Path)
		assert.Equal(t, Suffixes(), formatErr.Valid)
		assert.Contains(t, err.Error(), ".properties")
		assert.Contains(t, err.Error(), ".yaml")
	})

	t.Run("SuffixesSorted", func(t *testing.T) {
		assert.Equal(t, []string{".json", ".properties", ".tml", ".toml", ".yaml", ".yml"}, Suffixes())
		assert.Len(t, Codecs(), 4)
	})
}

func decodeString(t *testing.T, c Codec, doc string) []Entry {
	t.Helper()
	entries, err := c.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return entries
}

func encodeString(t *testing.T, c Codec, entries []Entry) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, entries))
	return buf.String()
}

func TestPropertiesCodec(t *testing.T) {
	t.Run("Decode", func(t *testing.T) {
		doc := "# comment\n" +
			"! bang comment\n" +
			"a=1\n" +
			"b : 2\n" +
			"c 3\n" +
			"path=C:\\\\dir\n" +
			"escaped=tab\\there\n" +
			"unicode=\\u00e9t\\u00e9\n" +
			"multi=first \\\n    second\n" +
			"empty=\n"

		assert.Equal(t, []Entry{
			NewEntry("a", "1"),
			NewEntry("b", "2"),
			NewEntry("c", "3"),
			NewEntry("path", `C:\dir`),
			NewEntry("escaped", "tab\there"),
			NewEntry("unicode", "été"),
			NewEntry("multi", "first second"),
			NewEntry("empty", ""),
		}, decodeString(t, PropertiesCodec, doc))
	})

	t.Run("NoExpansion", func(t *testing.T) {
		entries := decodeString(t, PropertiesCodec, "a=${b}\nb=x\n")
		assert.Equal(t, NewEntry("a", "${b}"), entries[0])
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, decodeString(t, PropertiesCodec, ""))
	})

	t.Run("EncodeCollapsesDuplicates", func(t *testing.T) {
		out := encodeString(t, PropertiesCodec, []Entry{
			NewEntry("a", "1"),
			NewEntry("b", "2"),
			NewEntry("a", "3"),
			NullEntry("n"),
		})
		assert.Equal(t, "a = 3\nb = 2\nn = \n", out)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		entries := []Entry{
			NewEntry("server.host", "localhost"),
			NewEntry("key with spaces", "value: with colon"),
			NewEntry("path", `C:\dir`),
			NewEntry("multi", "line1\nline2"),
			NewEntry("unicode", "café"),
			NewEntry("a=b", "v"),
			NewEntry("#hash", "v"),
			NewEntry("!bang", "v"),
			NewEntry("colon:key", "v"),
			NewEntry("tab\tkey", "v"),
			NewEntry("lead", "  padded"),
			NewEntry("inner", "a  b"),
			NewEntry("control", "bell\x07"),
			NewEntry("value", "=x #y !z"),
		}
		out := encodeString(t, PropertiesCodec, entries)
		assert.Equal(t, entries, decodeString(t, PropertiesCodec, out))
	})

	t.Run("EncodeEscaping", func(t *testing.T) {
		out := encodeString(t, PropertiesCodec, []Entry{
			NewEntry("a=b", "v"),
			NewEntry("#c", "  d"),
		})
		assert.Equal(t, "a\\=b = v\n\\#c = \\ \\ d\n", out)
	})
}

func TestYAMLCodecDecode(t *testing.T) {
	t.Run("Flattening", func(t *testing.T) {
		doc := `
server:
  host: localhost
  port: 8080
list:
  - a
  - b
empty: []
nothing: ~
quoted: "null"
nested:
  - [1, 2]
  - name: x
`
		assert.Equal(t, []Entry{
			NewEntry("server.host", "localhost"),
			NewEntry("server.port", "8080"),
			NewEntry("list[0]", "a"),
			NewEntry("list[1]", "b"),
			NewEntry("list.length", "2"),
			NewEntry("empty.length", "0"),
			NullEntry("nothing"),
			NewEntry("quoted", "null"),
			NewEntry("nested[0][0]", "1"),
			NewEntry("nested[0][1]", "2"),
			NewEntry("nested[0].length", "2"),
			NewEntry("nested[1].name", "x"),
			NewEntry("nested.length", "2"),
		}, decodeString(t, YAMLCodec, doc))
	})

	t.Run("ScalarsKeepSourceText", func(t *testing.T) {
		entries := Entries(decodeString(t, YAMLCodec, "a: 0x1F\nb: 1.50\nc: yes\nd: 2024-01-02\n"))
		assert.Equal(t, "0x1F", entries.Map()["a"])
		assert.Equal(t, "1.50", entries.Map()["b"])
		assert.Equal(t, "yes", entries.Map()["c"])
		assert.Equal(t, "2024-01-02", entries.Map()["d"])
	})

	t.Run("MergeKeys", func(t *testing.T) {
		doc := `
base: &base
  host: h
  port: 1
svc:
  <<: *base
  port: 2
`
		assert.Equal(t, []Entry{
			NewEntry("base.host", "h"),
			NewEntry("base.port", "1"),
			NewEntry("svc.host", "h"),
			NewEntry("svc.port", "2"),
		}, decodeString(t, YAMLCodec, doc))
	})

	t.Run("MultipleMergeSources", func(t *testing.T) {
		doc := `
a: &a {x: 1, y: 1}
b: &b {y: 2, z: 2}
c:
  <<: [*a, *b]
`
		m := Entries(decodeString(t, YAMLCodec, doc)).Map()
		assert.Equal(t, "1", m["c.x"])
		assert.Equal(t, "1", m["c.y"], "earlier merge source wins")
		assert.Equal(t, "2", m["c.z"])
	})

	t.Run("Aliases", func(t *testing.T) {
		doc := "hosts: &h [a, b]\ncopy: *h\n"
		m := Entries(decodeString(t, YAMLCodec, doc)).Map()
		assert.Equal(t, "b", m["copy[1]"])
		assert.Equal(t, "2", m["copy.length"])
	})

	t.Run("ExcessiveAliasing", func(t *testing.T) {
		// Seven levels of ten aliases each expand to ten million scalars
		var b strings.Builder
		b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
		for i := 1; i <= 7; i++ {
			fmt.Fprintf(&b, "l%d: &l%d [", i, i)
			for j := 0; j < 10; j++ {
				if j > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "*l%d", i-1)
			}
			b.WriteString("]\n")
		}

		_, err := YAMLCodec.Decode(strings.NewReader(b.String()))
		var docErr *InvalidDocumentError
		require.True(t, errors.As(err, &docErr))
		assert.ErrorContains(t, err, "excessive aliasing")
	})

	t.Run("EmptyMappingsContributeNothing", func(t *testing.T) {
		doc := "a: {}\nb:\n  c: {}\n  d: 1\n"
		assert.Equal(t, []Entry{NewEntry("b.d", "1")}, decodeString(t, YAMLCodec, doc))
	})

	t.Run("MultiDocument", func(t *testing.T) {
		doc := "a: 1\nb: 2\n---\nb: 3\n"
		assert.Equal(t, []Entry{
			NewEntry("a", "1"),
			NewEntry("b", "3"),
		}, decodeString(t, YAMLCodec, doc))
	})

	t.Run("EmptyDocument", func(t *testing.T) {
		assert.Empty(t, decodeString(t, YAMLCodec, ""))
		assert.Empty(t, decodeString(t, YAMLCodec, "# only a comment\n"))
		assert.Empty(t, decodeString(t, YAMLCodec, "~\n"))
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, doc := range []string{"just a string\n", "- a\n- b\n", "a: [1, 2\n"} {
			_, err := YAMLCodec.Decode(strings.NewReader(doc))
			var docErr *InvalidDocumentError
			assert.True(t, errors.As(err, &docErr), doc)
		}
	})
}

func TestYAMLCodecEncode(t *testing.T) {
	t.Run("NestsKeys", func(t *testing.T) {
		out := encodeString(t, YAMLCodec, []Entry{
			NewEntry("server.port", "8080"),
			NewEntry("server.host", "localhost"),
			NewEntry("name", "app"),
		})
		assert.Equal(t, "name: app\nserver:\n  host: localhost\n  port: 8080\n", out)
	})

	t.Run("NullAndNullLikeStrings", func(t *testing.T) {
		out := encodeString(t, YAMLCodec, []Entry{
			NullEntry("a"),
			NewEntry("b", ""),
			NewEntry("c", "null"),
			NewEntry("d", "~"),
		})
		assert.Contains(t, out, "a: null\n")
		assert.Contains(t, out, "b: \"\"\n")
		assert.Contains(t, out, "c: \"null\"\n")
		assert.Contains(t, out, "d: \"~\"\n")

		assert.Equal(t, []Entry{
			NullEntry("a"),
			NewEntry("b", ""),
			NewEntry("c", "null"),
			NewEntry("d", "~"),
		}, decodeString(t, YAMLCodec, out))
	})

	t.Run("LengthHelperIsAuthoritative", func(t *testing.T) {
		out := encodeString(t, YAMLCodec, []Entry{
			NewEntry("list[0]", "a"),
			NewEntry("list[1]", "b"),
			NewEntry("list[2]", "stale"),
			NewEntry("list.length", "2"),
		})
		assert.Equal(t, []Entry{
			NewEntry("list[0]", "a"),
			NewEntry("list[1]", "b"),
			NewEntry("list.length", "2"),
		}, decodeString(t, YAMLCodec, out))
	})

	t.Run("GapsBecomeNull", func(t *testing.T) {
		out := encodeString(t, YAMLCodec, []Entry{
			NewEntry("list[2]", "c"),
		})
		assert.Equal(t, []Entry{
			NullEntry("list[0]"),
			NullEntry("list[1]"),
			NewEntry("list[2]", "c"),
			NewEntry("list.length", "3"),
		}, decodeString(t, YAMLCodec, out))
	})

	t.Run("OversizedLists", func(t *testing.T) {
		for name, entries := range map[string][]Entry{
			"index":  {NewEntry("x[100000000]", "1")},
			"length": {NewEntry("x.length", "100000000")},
			"nested": {NewEntry("a.b[0].c[5000]", "1")},
		} {
			for _, codec := range []Codec{YAMLCodec, TOMLCodec, JSONCodec} {
				var buf bytes.Buffer
				err := codec.Encode(&buf, entries)
				assert.ErrorIs(t, err, ErrListTooLong, "%s/%s", codec.Name(), name)
				assert.Zero(t, buf.Len())
			}
		}

		// Sparse lists within the slack still encode
		out := encodeString(t, YAMLCodec, []Entry{NewEntry("x[1000]", "1")})
		assert.Len(t, decodeString(t, YAMLCodec, out), 1002)
	})

	t.Run("EmptyList", func(t *testing.T) {
		out := encodeString(t, YAMLCodec, []Entry{NewEntry("list.length", "0")})
		assert.Equal(t, "list: []\n", out)
	})

	t.Run("LengthKeyInMap", func(t *testing.T) {
		out := encodeString(t, YAMLCodec, []Entry{
			NewEntry("rope.length", "12"),
			NewEntry("rope.color", "red"),
		})
		assert.Equal(t, []Entry{
			NewEntry("rope.color", "red"),
			NewEntry("rope.length", "12"),
		}, decodeString(t, YAMLCodec, out))
	})

	t.Run("Conflicts", func(t *testing.T) {
		for name, entries := range map[string][]Entry{
			"leaf and parent": {NewEntry("a", "1"), NewEntry("a.b", "2")},
			"list and map":    {NewEntry("a[0]", "1"), NewEntry("a.b", "2")},
		} {
			err := YAMLCodec.Encode(&bytes.Buffer{}, entries)
			assert.ErrorIs(t, err, ErrKeyConflict, name)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", encodeString(t, YAMLCodec, nil))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		doc := `
server:
  host: localhost
  port: 8080
  tags:
    - a
    - b: c
      d:
        - 1
  note: "multi word: value"
matrix:
  - - 1
    - 2
  - []
nothing: null
`
		entries := decodeString(t, YAMLCodec, doc)
		out := encodeString(t, YAMLCodec, entries)
		assert.ElementsMatch(t, entries, decodeString(t, YAMLCodec, out))
	})
}

func TestTOMLCodec(t *testing.T) {
	t.Run("Decode", func(t *testing.T) {
		doc := `
title = "x"
port = 8080
ratio = 0.5
enabled = true

[server]
hosts = ["a", "b"]

[[backend]]
name = "b1"

[[backend]]
name = "b2"
`
		assert.Equal(t, []Entry{
			NewEntry("backend[0].name", "b1"),
			NewEntry("backend[1].name", "b2"),
			NewEntry("backend.length", "2"),
			NewEntry("enabled", "true"),
			NewEntry("port", "8080"),
			NewEntry("ratio", "0.5"),
			NewEntry("server.hosts[0]", "a"),
			NewEntry("server.hosts[1]", "b"),
			NewEntry("server.hosts.length", "2"),
			NewEntry("title", "x"),
		}, decodeString(t, TOMLCodec, doc))
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := TOMLCodec.Decode(strings.NewReader("a = \n"))
		var docErr *InvalidDocumentError
		assert.True(t, errors.As(err, &docErr))
	})

	t.Run("RoundTripDropsNull", func(t *testing.T) {
		entries := []Entry{
			NewEntry("a", "1"),
			NewEntry("server.hosts[0]", "x"),
			NullEntry("server.hosts[1]"),
			NewEntry("server.hosts.length", "2"),
			NullEntry("gone"),
		}
		out := encodeString(t, TOMLCodec, entries)
		assert.NotContains(t, out, "gone")

		assert.ElementsMatch(t, []Entry{
			NewEntry("a", "1"),
			NewEntry("server.hosts[0]", "x"),
			NewEntry("server.hosts[1]", ""),
			NewEntry("server.hosts.length", "2"),
		}, decodeString(t, TOMLCodec, out))
	})
}

func TestJSONCodec(t *testing.T) {
	t.Run("Decode", func(t *testing.T) {
		doc := `{"a": {"b": [1, null, "x"]}, "n": null, "f": 1.50, "t": true}`
		assert.Equal(t, []Entry{
			NewEntry("a.b[0]", "1"),
			NullEntry("a.b[1]"),
			NewEntry("a.b[2]", "x"),
			NewEntry("a.b.length", "3"),
			NewEntry("f", "1.50"),
			NullEntry("n"),
			NewEntry("t", "true"),
		}, decodeString(t, JSONCodec, doc))
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, doc := range []string{`[1, 2]`, `{"a": 1} {"b": 2}`, `{"a":`} {
			_, err := JSONCodec.Decode(strings.NewReader(doc))
			var docErr *InvalidDocumentError
			assert.True(t, errors.As(err, &docErr), doc)
		}
		assert.Empty(t, decodeString(t, JSONCodec, ""))
		assert.Empty(t, decodeString(t, JSONCodec, "null"))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		entries := []Entry{
			NewEntry("a.b[0]", "1"),
			NullEntry("a.b[1]"),
			NewEntry("a.b.length", "2"),
			NewEntry("html", "<b>&</b>"),
			NullEntry("n"),
		}
		out := encodeString(t, JSONCodec, entries)
		assert.Contains(t, out, `"<b>&</b>"`)
		assert.ElementsMatch(t, entries, decodeString(t, JSONCodec, out))
	})
}
