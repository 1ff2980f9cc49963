// FILE: lixenwraith/confmgr/codec_yaml.go
package confmgr

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

const yamlMergeTag = "!!merge"

// yamlCodec flattens YAML documents to dotted keys. Lists become indexed
// keys plus a length helper; explicit nulls become null entries.
type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }

func (yamlCodec) Suffixes() []string { return []string{".yaml", ".yml"} }

// Decode reads every document of the stream; later documents override
// earlier keys.
func (yamlCodec) Decode(r io.Reader) ([]Entry, error) {
	dec := yaml.NewDecoder(r)
	walker := &yamlWalker{
		flat:   newFlattener(),
		active: make(map[*yaml.Node]bool),
	}

	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &InvalidDocumentError{Format: "yaml", Cause: err}
		}
		if len(doc.Content) == 0 {
			continue
		}

		root := deref(doc.Content[0])
		switch {
		case root.Kind == yaml.MappingNode:
		case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
			continue
		default:
			return nil, &InvalidDocumentError{
				Format: "yaml",
				Cause:  fmt.Errorf("document root must be a mapping, got %s", nodeKindName(root)),
			}
		}

		if err := walker.mapping("", root); err != nil {
			return nil, &InvalidDocumentError{Format: "yaml", Cause: err}
		}
	}
	return walker.flat.entries, nil
}

// Encode rebuilds the nested document from the entries, sorted by key.
// Keys that cannot coexist in one document fail with ErrKeyConflict.
func (yamlCodec) Encode(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	root, err := buildTree(entries).yamlNode("")
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

type yamlWalker struct {
	flat *flattener
	// nodes on the current path, to stop recursive aliases
	active map[*yaml.Node]bool

	// visited counts every node walked, expanded those reached through an alias
	visited    int
	expanded   int
	aliasDepth int
}

// allowedAliasRatio bounds the share of nodes reached through aliases. It
// follows yaml.v3's own decoder: small documents may alias freely, large
// expansions must be mostly literal content.
func allowedAliasRatio(visited int) float64 {
	switch {
	case visited <= 400_000:
		return 0.99
	case visited >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(visited-400_000)/3_600_000)
	}
}

// count records one walked node and fails once aliases expand the document
// far beyond its literal size.
func (w *yamlWalker) count(node *yaml.Node) error {
	w.visited++
	if w.aliasDepth > 0 {
		w.expanded++
	}
	if w.expanded > 100 && w.visited > 1000 &&
		float64(w.expanded)/float64(w.visited) > allowedAliasRatio(w.visited) {
		return fmt.Errorf("document contains excessive aliasing near line %d", node.Line)
	}
	return nil
}

// follow dereferences an alias and marks the nodes below it as expansions
// until the returned func is called.
func (w *yamlWalker) follow(node *yaml.Node) (*yaml.Node, func()) {
	if node.Kind != yaml.AliasNode {
		return node, func() {}
	}
	w.aliasDepth++
	return deref(node), func() { w.aliasDepth-- }
}

func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func (w *yamlWalker) enter(node *yaml.Node) error {
	if w.active[node] {
		return fmt.Errorf("recursive alias at line %d", node.Line)
	}
	w.active[node] = true
	return nil
}

func (w *yamlWalker) leave(node *yaml.Node) {
	delete(w.active, node)
}

func (w *yamlWalker) node(prefix string, node *yaml.Node) error {
	node, done := w.follow(node)
	defer done()
	if err := w.count(node); err != nil {
		return err
	}

	switch node.Kind {
	case yaml.MappingNode:
		return w.mapping(prefix, node)

	case yaml.SequenceNode:
		if err := w.enter(node); err != nil {
			return err
		}
		defer w.leave(node)

		for i, item := range node.Content {
			if err := w.node(indexKey(prefix, i), item); err != nil {
				return err
			}
		}
		w.flat.put(NewEntry(lengthKey(prefix), strconv.Itoa(len(node.Content))))
		return nil

	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			w.flat.put(NullEntry(prefix))
		} else {
			w.flat.put(NewEntry(prefix, node.Value))
		}
		return nil

	default:
		return fmt.Errorf("key '%s': unsupported node %s at line %d", prefix, nodeKindName(node), node.Line)
	}
}

// mapping flattens a mapping. Merge keys ("<<") are applied first so the
// mapping's own keys override merged ones.
func (w *yamlWalker) mapping(prefix string, node *yaml.Node) error {
	if err := w.enter(node); err != nil {
		return err
	}
	defer w.leave(node)

	var merges, own [][2]*yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		pair := [2]*yaml.Node{deref(node.Content[i]), node.Content[i+1]}
		if pair[0].Kind == yaml.ScalarNode && pair[0].ShortTag() == yamlMergeTag {
			merges = append(merges, pair)
		} else {
			own = append(own, pair)
		}
	}

	for _, pair := range merges {
		if err := w.merge(prefix, pair[1]); err != nil {
			return err
		}
	}

	for _, pair := range own {
		key := pair[0]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("key under '%s' at line %d: mapping keys must be scalars, got %s",
				prefix, key.Line, nodeKindName(key))
		}
		if err := w.node(joinKey(prefix, key.Value), pair[1]); err != nil {
			return err
		}
	}
	return nil
}

// merge applies a "<<" value: one mapping, or a sequence of mappings where
// earlier mappings take precedence over later ones.
func (w *yamlWalker) merge(prefix string, value *yaml.Node) error {
	value, done := w.follow(value)
	defer done()
	if err := w.count(value); err != nil {
		return err
	}

	switch value.Kind {
	case yaml.MappingNode:
		return w.mapping(prefix, value)

	case yaml.SequenceNode:
		sources := slices.Clone(value.Content)
		slices.Reverse(sources)
		for _, src := range sources {
			if err := w.mergeSource(prefix, src); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("merge under '%s' at line %d: expected mapping, got %s",
			prefix, value.Line, nodeKindName(value))
	}
}

func (w *yamlWalker) mergeSource(prefix string, src *yaml.Node) error {
	src, done := w.follow(src)
	defer done()
	if err := w.count(src); err != nil {
		return err
	}
	if src.Kind != yaml.MappingNode {
		return fmt.Errorf("merge under '%s' at line %d: expected mapping, got %s",
			prefix, src.Line, nodeKindName(src))
	}
	return w.mapping(prefix, src)
}

func nodeKindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", node.Kind)
	}
}
