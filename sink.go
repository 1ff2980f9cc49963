// FILE: lixenwraith/confmgr/sink.go
package confmgr

import (
	"maps"
	"os"
	"strings"
	"sync"
)

// Sink receives merged configuration pairs from Manager.Load
type Sink interface {
	Set(key, value string) error
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(key, value string) error

func (f SinkFunc) Set(key, value string) error {
	return f(key, value)
}

// EnvTransformFunc converts a configuration key to an environment variable name
type EnvTransformFunc func(key string) string

var envKeyReplacer = strings.NewReplacer(".", "_", "[", "_", "]", "", "-", "_")

// DefaultEnvTransform returns the transform used by EnvSink:
// "db.hosts[0]" with prefix "APP_" becomes "APP_DB_HOSTS_0".
func DefaultEnvTransform(prefix string) EnvTransformFunc {
	return func(key string) string {
		env := strings.ToUpper(envKeyReplacer.Replace(key))
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// EnvSink publishes entries as process environment variables
func EnvSink(prefix string) Sink {
	return EnvSinkWithTransform(DefaultEnvTransform(prefix))
}

// EnvSinkWithTransform publishes entries as environment variables named by transform
func EnvSinkWithTransform(transform EnvTransformFunc) Sink {
	return SinkFunc(func(key, value string) error {
		return os.Setenv(transform(key), value)
	})
}

// MapSink collects entries in memory. It is safe for concurrent use.
type MapSink struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMapSink creates an empty MapSink
func NewMapSink() *MapSink {
	return &MapSink{values: make(map[string]string)}
}

func (s *MapSink) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Get returns the value stored for key
func (s *MapSink) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Values returns a copy of every stored pair
func (s *MapSink) Values() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}
