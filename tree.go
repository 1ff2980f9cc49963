// FILE: lixenwraith/confmgr/tree.go
package confmgr

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// treeNode is the nested shape rebuilt from flattened entries before a
// structured codec writes it. A node may collect leaf, field and item data
// during insertion; kind rejects combinations a document cannot hold.
type treeNode struct {
	root   bool
	leaf   bool
	null   bool
	value  string
	keys   []string
	fields map[string]*treeNode
	items  map[int]*treeNode
	maxIdx int
	// limit bounds the list length a node may declare
	limit int
}

// listSlack is how far a list may extend past the number of entries
// that built the tree. Gaps below a declared length become null items.
const listSlack = 1024

func newTreeNode(limit int) *treeNode {
	return &treeNode{maxIdx: -1, limit: limit}
}

func (n *treeNode) field(name string) *treeNode {
	if n.fields == nil {
		n.fields = make(map[string]*treeNode)
	}
	child, ok := n.fields[name]
	if !ok {
		child = newTreeNode(n.limit)
		n.fields[name] = child
		n.keys = append(n.keys, name)
	}
	return child
}

func (n *treeNode) item(i int) *treeNode {
	if n.items == nil {
		n.items = make(map[int]*treeNode)
	}
	child, ok := n.items[i]
	if !ok {
		child = newTreeNode(n.limit)
		n.items[i] = child
		if i > n.maxIdx {
			n.maxIdx = i
		}
	}
	return child
}

// buildTree nests entries by key. Duplicate keys resolve last-wins and
// siblings keep the sorted key order.
func buildTree(entries []Entry) *treeNode {
	merged := MergeEntries(entries).Sorted()
	root := newTreeNode(len(merged) + listSlack)
	root.root = true
	for _, e := range merged {
		node := root
		for _, seg := range parseKey(e.Key) {
			if seg.isIndex {
				node = node.item(seg.index)
			} else {
				node = node.field(seg.name)
			}
		}
		node.leaf = true
		node.null = e.Null
		node.value = e.Value
	}
	return root
}

type nodeKind int

const (
	kindLeaf nodeKind = iota
	kindMap
	kindList
)

// kind classifies a node. A list carries indexed items and at most a
// length helper; a lone length helper of 0 is an empty list.
func (n *treeNode) kind(path string) (nodeKind, error) {
	hasChildren := len(n.fields) > 0 || len(n.items) > 0
	if n.leaf {
		if hasChildren {
			return 0, fmt.Errorf("%w: key '%s' is both a value and a parent", ErrKeyConflict, path)
		}
		return kindLeaf, nil
	}

	if len(n.items) > 0 {
		for _, k := range n.keys {
			if k != LengthKey || !n.fields[k].leaf {
				return 0, fmt.Errorf("%w: key '%s' is both a list and a map", ErrKeyConflict, path)
			}
		}
		return kindList, nil
	}

	if !n.root && len(n.keys) == 1 && n.keys[0] == LengthKey {
		if helper := n.fields[LengthKey]; helper.leaf && !helper.null && helper.value == "0" {
			return kindList, nil
		}
	}
	return kindMap, nil
}

// listLength reads the length helper. It wins over the indices seen:
// items past it are dropped and gaps below it are null. Lengths past the
// node limit fail rather than materialize mostly null lists.
func (n *treeNode) listLength(path string) (int, error) {
	size := n.maxIdx + 1
	if helper, ok := n.fields[LengthKey]; ok && helper.leaf && !helper.null {
		if declared, err := strconv.Atoi(helper.value); err == nil && declared >= 0 {
			size = declared
		}
	}
	if size > n.limit {
		return 0, fmt.Errorf("%w: list '%s' declares %d elements, limit is %d", ErrListTooLong, path, size, n.limit)
	}
	return size, nil
}

func listItemPath(path string, i int) string {
	if path == "" {
		return "[" + strconv.Itoa(i) + "]"
	}
	return indexKey(path, i)
}

// yamlNode converts the tree into a yaml.v3 node
func (n *treeNode) yamlNode(path string) (*yaml.Node, error) {
	kind, err := n.kind(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindLeaf:
		return scalarNode(n.value, n.null), nil

	case kindList:
		size, err := n.listLength(path)
		if err != nil {
			return nil, err
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < size; i++ {
			child, ok := n.items[i]
			if !ok {
				seq.Content = append(seq.Content, scalarNode("", true))
				continue
			}
			item, err := child.yamlNode(listItemPath(path, i))
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, item)
		}
		return seq, nil

	default:
		mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range n.keys {
			value, err := n.fields[k].yamlNode(joinKey(path, k))
			if err != nil {
				return nil, err
			}
			mapping.Content = append(mapping.Content, scalarNode(k, false), value)
		}
		return mapping, nil
	}
}

// scalarNode emits values plain where possible. Strings a YAML reader would
// resolve to null are tagged so the encoder quotes them.
func scalarNode(value string, null bool) *yaml.Node {
	if null {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if readsAsNull(value) {
		node.Tag = "!!str"
	}
	return node
}

func readsAsNull(value string) bool {
	switch value {
	case "", "~", "null", "Null", "NULL":
		return true
	}
	return false
}

// nullPolicy controls null leaves for formats without a null value
type nullPolicy struct {
	// dropInMap omits null map values
	dropInMap bool
	// listValue replaces null list items; nil keeps them
	listValue any
}

// plainValue converts the tree to maps, slices and strings for generic encoders
func (n *treeNode) plainValue(path string, policy nullPolicy) (any, error) {
	kind, err := n.kind(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindLeaf:
		if n.null {
			return nil, nil
		}
		return n.value, nil

	case kindList:
		size, err := n.listLength(path)
		if err != nil {
			return nil, err
		}
		list := make([]any, 0, size)
		for i := 0; i < size; i++ {
			child, ok := n.items[i]
			if !ok || (child.leaf && child.null) {
				list = append(list, policy.listValue)
				continue
			}
			item, err := child.plainValue(listItemPath(path, i), policy)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil

	default:
		m := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			child := n.fields[k]
			if policy.dropInMap && child.leaf && child.null {
				continue
			}
			value, err := child.plainValue(joinKey(path, k), policy)
			if err != nil {
				return nil, err
			}
			m[k] = value
		}
		return m, nil
	}
}
