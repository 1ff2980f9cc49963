// FILE: lixenwraith/confmgr/codec_json.go
package confmgr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// jsonCodec maps a JSON object onto dotted keys. Numbers keep their
// literal text.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Suffixes() []string { return []string{".json"} }

func (jsonCodec) Decode(r io.Reader) ([]Entry, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve number precision

	var doc any
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &InvalidDocumentError{Format: "json", Cause: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, &InvalidDocumentError{Format: "json", Cause: errors.New("unexpected data after top-level object")}
	}

	switch doc.(type) {
	case map[string]any:
	case nil:
		return nil, nil
	default:
		return nil, &InvalidDocumentError{Format: "json", Cause: fmt.Errorf("top-level value must be an object, got %T", doc)}
	}

	flat := newFlattener()
	if err := flat.flattenValue("", doc); err != nil {
		return nil, &InvalidDocumentError{Format: "json", Cause: err}
	}
	return flat.entries, nil
}

func (jsonCodec) Encode(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	doc, err := buildTree(entries).plainValue("", nullPolicy{})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
