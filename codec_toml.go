// FILE: lixenwraith/confmgr/codec_toml.go
package confmgr

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// tomlCodec maps TOML tables onto dotted keys. TOML has no null: null map
// values are omitted on write and null list items are written empty.
type tomlCodec struct{}

func (tomlCodec) Name() string { return "toml" }

func (tomlCodec) Suffixes() []string { return []string{".toml", ".tml"} }

func (tomlCodec) Decode(r io.Reader) ([]Entry, error) {
	doc := make(map[string]any)
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &InvalidDocumentError{Format: "toml", Cause: err}
	}

	flat := newFlattener()
	if err := flat.flattenValue("", doc); err != nil {
		return nil, &InvalidDocumentError{Format: "toml", Cause: err}
	}
	return flat.entries, nil
}

func (tomlCodec) Encode(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	doc, err := buildTree(entries).plainValue("", nullPolicy{dropInMap: true, listValue: ""})
	if err != nil {
		return err
	}

	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode toml: %w", err)
	}
	return nil
}
