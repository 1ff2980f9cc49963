// FILE: lixenwraith/confmgr/entry.go
package confmgr

import (
	"cmp"
	"slices"
	"strings"
)

// Entry is a single flattened configuration pair.
// A null value (YAML/JSON null) is represented by Null=true and an empty Value.
type Entry struct {
	Key   string
	Value string
	Null  bool
}

// NewEntry creates an entry with a non-null value
func NewEntry(key, value string) Entry {
	return Entry{Key: key, Value: value}
}

// NullEntry creates an entry whose value is null
func NullEntry(key string) Entry {
	return Entry{Key: key, Null: true}
}

// String renders the entry as key=value, with null shown as <nil>
func (e Entry) String() string {
	if e.Null {
		return e.Key + "=<nil>"
	}
	return e.Key + "=" + e.Value
}

// CompareEntries orders entries by key, then by value with null sorting lowest.
func CompareEntries(a, b Entry) int {
	if c := strings.Compare(a.Key, b.Key); c != 0 {
		return c
	}
	switch {
	case a.Null && b.Null:
		return 0
	case a.Null:
		return -1
	case b.Null:
		return 1
	}
	return cmp.Compare(a.Value, b.Value)
}

// SortEntries sorts entries in place using CompareEntries
func SortEntries(entries []Entry) {
	slices.SortStableFunc(entries, CompareEntries)
}

// MergeEntries keeps the last value seen for each key while preserving the
// position where each key was first seen.
func MergeEntries(entries []Entry) Entries {
	index := make(map[string]int, len(entries))
	merged := make(Entries, 0, len(entries))
	for _, e := range entries {
		if i, exists := index[e.Key]; exists {
			merged[i] = e
			continue
		}
		index[e.Key] = len(merged)
		merged = append(merged, e)
	}
	return merged
}
