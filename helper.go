// FILE: lixenwraith/confmgr/helper.go
package confmgr

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// LengthKey is the key segment holding a flattened list's element count:
// a list at "db.hosts" flattens to "db.hosts[0]", "db.hosts[1]" and
// "db.hosts.length". The helper is not kept in sync when a later source
// overrides some elements only; see Manager.Stream.
const LengthKey = "length"

// joinKey appends a map key segment to a flattened path
func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// indexKey appends a list index to a flattened path
func indexKey(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

// lengthKey returns the length helper key of a list path
func lengthKey(prefix string) string {
	return joinKey(prefix, LengthKey)
}

// flattener accumulates entries of one document. A key written twice keeps
// its first position and its last value.
type flattener struct {
	entries []Entry
	index   map[string]int
}

func newFlattener() *flattener {
	return &flattener{index: make(map[string]int)}
}

func (f *flattener) put(e Entry) {
	if i, exists := f.index[e.Key]; exists {
		f.entries[i] = e
		return
	}
	f.index[e.Key] = len(f.entries)
	f.entries = append(f.entries, e)
}

// flattenValue converts a generic decoded tree (maps, slices, scalars) to entries.
func (f *flattener) flattenValue(prefix string, value any) error {
	switch v := value.(type) {
	case nil:
		f.put(NullEntry(prefix))

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := f.flattenValue(joinKey(prefix, k), v[k]); err != nil {
				return err
			}
		}

	case []any:
		for i, item := range v {
			if err := f.flattenValue(indexKey(prefix, i), item); err != nil {
				return err
			}
		}
		f.put(NewEntry(lengthKey(prefix), strconv.Itoa(len(v))))

	case []map[string]any:
		for i, item := range v {
			if err := f.flattenValue(indexKey(prefix, i), item); err != nil {
				return err
			}
		}
		f.put(NewEntry(lengthKey(prefix), strconv.Itoa(len(v))))

	default:
		s, err := formatScalar(v)
		if err != nil {
			return fmt.Errorf("key '%s': %w", prefix, err)
		}
		f.put(NewEntry(prefix, s))
	}
	return nil
}

// formatScalar renders a decoded scalar as its configuration string
func formatScalar(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// keySegment is one step of a flattened key: a map field or a list index
type keySegment struct {
	name    string
	index   int
	isIndex bool
}

// parseKey splits "a.b[0][1].c" into segments. A dot-part whose brackets are
// not a well-formed index suffix is taken literally as a field name.
func parseKey(key string) []keySegment {
	var segments []keySegment
	for _, part := range strings.Split(key, ".") {
		name, indices, ok := splitIndices(part)
		if !ok {
			segments = append(segments, keySegment{name: part})
			continue
		}
		segments = append(segments, keySegment{name: name})
		for _, i := range indices {
			segments = append(segments, keySegment{index: i, isIndex: true})
		}
	}
	return segments
}

// splitIndices parses "name[1][2]" into ("name", [1 2]).
func splitIndices(part string) (string, []int, bool) {
	open := strings.IndexByte(part, '[')
	if open <= 0 || !strings.HasSuffix(part, "]") {
		return "", nil, false
	}

	name := part[:open]
	rest := part[open:]
	var indices []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 2 {
			return "", nil, false
		}
		digits := rest[1:end]
		for _, r := range digits {
			if r < '0' || r > '9' {
				return "", nil, false
			}
		}
		i, err := strconv.Atoi(digits)
		if err != nil {
			return "", nil, false
		}
		indices = append(indices, i)
		rest = rest[end+1:]
	}
	return name, indices, true
}
