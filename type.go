// File: lixenwraith/confmgr/type.go
package confmgr

import (
	"fmt"
	"strconv"
	"time"
)

// Entries is an ordered sequence of configuration entries as produced by
// Manager.Read and Manager.Stream.
type Entries []Entry

// Lookup returns the last entry with the given key.
func (es Entries) Lookup(key string) (Entry, bool) {
	for i := len(es) - 1; i >= 0; i-- {
		if es[i].Key == key {
			return es[i], true
		}
	}
	return Entry{}, false
}

// Keys returns entry keys in sequence order, duplicates included
func (es Entries) Keys() []string {
	keys := make([]string, len(es))
	for i, e := range es {
		keys[i] = e.Key
	}
	return keys
}

// Map returns a key to value map, last entry wins. Null values map to "".
func (es Entries) Map() map[string]string {
	m := make(map[string]string, len(es))
	for _, e := range es {
		m[e.Key] = e.Value
	}
	return m
}

// Sorted returns a sorted copy
func (es Entries) Sorted() Entries {
	out := make(Entries, len(es))
	copy(out, es)
	SortEntries(out)
	return out
}

// String retrieves a string value for the key.
// A null value is returned as an empty string.
func (es Entries) String(key string) (string, error) {
	e, found := es.Lookup(key)
	if !found {
		return "", fmt.Errorf("key not found: %s", key)
	}
	return e.Value, nil
}

// Int64 retrieves an int64 value for the key.
// Accepts base prefixes (0x, 0o, 0b) and truncates float strings.
func (es Entries) Int64(key string) (int64, error) {
	s, err := es.nonNull(key, "int64")
	if err != nil {
		return 0, err
	}

	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, nil
	} else {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("cannot convert %q to int64 for key %s: %w", s, key, err)
	}
}

// Bool retrieves a boolean value for the key
func (es Entries) Bool(key string) (bool, error) {
	s, err := es.nonNull(key, "bool")
	if err != nil {
		return false, err
	}

	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("cannot convert %q to bool for key %s: %w", s, key, err)
	}
	return b, nil
}

// Float64 retrieves a float64 value for the key
func (es Entries) Float64(key string) (float64, error) {
	s, err := es.nonNull(key, "float64")
	if err != nil {
		return 0, err
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to float64 for key %s: %w", s, key, err)
	}
	return f, nil
}

// Duration retrieves a time.Duration value for the key (e.g. "1m30s")
func (es Entries) Duration(key string) (time.Duration, error) {
	s, err := es.nonNull(key, "duration")
	if err != nil {
		return 0, err
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to duration for key %s: %w", s, key, err)
	}
	return d, nil
}

func (es Entries) nonNull(key, kind string) (string, error) {
	e, found := es.Lookup(key)
	if !found {
		return "", fmt.Errorf("key not found: %s", key)
	}
	if e.Null {
		return "", fmt.Errorf("value for key %s is nil, cannot convert to %s", key, kind)
	}
	return e.Value, nil
}
