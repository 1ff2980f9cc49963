// FILE: lixenwraith/confmgr/location_test.go
package confmgr

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw         string
		scheme      string
		host        string
		path        string
		hostAndPath string
	}{
		{"classpath://app.yaml", "classpath", "app.yaml", "", "app.yaml"},
		{"classpath:///config/app.yaml", "classpath", "", "/config/app.yaml", "/config/app.yaml"},
		{"file:///etc/app/app.properties", "file", "", "/etc/app/app.properties", "/etc/app/app.properties"},
		{"file://conf/app.yml", "file", "conf", "/app.yml", "conf/app.yml"},
		{"FILE:///tmp/x.yaml", "file", "", "/tmp/x.yaml", "/tmp/x.yaml"},
		{"file:relative/app.yaml", "file", "", "relative/app.yaml", "relative/app.yaml"},
		{"http://example.com/x.properties", "http", "example.com", "/x.properties", "example.com/x.properties"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseLocation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, loc.Scheme())
			assert.Equal(t, tt.host, loc.Host())
			assert.Equal(t, tt.path, loc.Path())
			assert.Equal(t, tt.hostAndPath, loc.HostAndPath())
			assert.Equal(t, tt.raw, loc.String())
			assert.False(t, loc.IsZero())
		})
	}
}

func TestParseLocationErrors(t *testing.T) {
	for _, raw := range []string{"", "app.yaml", "/etc/app.yaml", "://missing", "file://%zz/x.yaml"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseLocation(raw)
			assert.ErrorIs(t, err, ErrInvalidLocation)
		})
	}

	assert.Panics(t, func() { MustParseLocation("no-scheme") })

	_, err := ParseLocations("classpath://a.yaml", "bad")
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestLocationConstructors(t *testing.T) {
	t.Run("FileLocation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "app.yaml")
		loc := FileLocation(path)
		assert.Equal(t, SchemeFile, loc.Scheme())
		assert.Equal(t, filepath.ToSlash(path), loc.HostAndPath())

		// The rendered form parses back to the same lookup key
		reparsed, err := ParseLocation(loc.String())
		require.NoError(t, err)
		assert.Equal(t, loc.HostAndPath(), reparsed.HostAndPath())
	})

	t.Run("RelativeFileLocation", func(t *testing.T) {
		loc := FileLocation("conf/app.yaml")
		reparsed, err := ParseLocation(loc.String())
		require.NoError(t, err)
		assert.Equal(t, "conf/app.yaml", reparsed.HostAndPath())
	})

	t.Run("BundleLocation", func(t *testing.T) {
		loc := BundleLocation("/nested/extra.yml")
		assert.Equal(t, SchemeClasspath, loc.Scheme())
		assert.Equal(t, "nested/extra.yml", loc.HostAndPath())
		assert.Equal(t, "classpath://nested/extra.yml", loc.String())
	})

	assert.True(t, Location{}.IsZero())
}
