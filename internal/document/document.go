// Package document implements the typed tree behind pathbridge's structured
// documents: a tagged union of scalar, mapping, and sequence nodes that
// round-trips through YAML without reordering mapping keys. Key-path
// traversal and skeleton construction live in keypath.go; JSON interop for
// HTTP payloads lives in json.go.
package document

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the three node shapes.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Pair is one mapping entry. Pairs keep document order; yaml.v3 would sort
// plain map keys on encode, which is exactly what output documents must not
// do.
type Pair struct {
	Key   string
	Value *Node
}

// Node is one value in a structured document. Exactly one payload field is
// meaningful, selected by Kind: Value for scalars (nil, bool, int64, float64,
// or string), Pairs for mappings, Items for sequences.
type Node struct {
	Kind  Kind
	Value any
	Pairs []Pair
	Items []*Node
}

// Scalar wraps a scalar value in a node.
func Scalar(v any) *Node {
	return &Node{Kind: KindScalar, Value: v}
}

// Mapping builds a mapping node from pairs, preserving their order.
func Mapping(pairs ...Pair) *Node {
	return &Node{Kind: KindMapping, Pairs: pairs}
}

// Sequence builds a sequence node from items.
func Sequence(items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items}
}

// Get returns the child under key. The second result is false when n is not
// a mapping or the key is absent.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	for _, p := range n.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new pair when the key is
// absent.
func (n *Node) Set(key string, value *Node) {
	for i, p := range n.Pairs {
		if p.Key == key {
			n.Pairs[i].Value = value
			return
		}
	}
	n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
}

// UnmarshalYAML decodes a YAML node into the tagged union, keeping mapping
// keys in document order.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	for value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	switch value.Kind {
	case yaml.ScalarNode:
		var v any
		if err := value.Decode(&v); err != nil {
			return err
		}
		n.Kind = KindScalar
		n.Value = normalizeScalar(v)
		n.Pairs = nil
		n.Items = nil
	case yaml.MappingNode:
		n.Kind = KindMapping
		n.Value = nil
		n.Items = nil
		n.Pairs = make([]Pair, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			child := new(Node)
			if err := child.UnmarshalYAML(value.Content[i+1]); err != nil {
				return err
			}
			n.Pairs = append(n.Pairs, Pair{Key: value.Content[i].Value, Value: child})
		}
	case yaml.SequenceNode:
		n.Kind = KindSequence
		n.Value = nil
		n.Pairs = nil
		n.Items = make([]*Node, 0, len(value.Content))
		for _, c := range value.Content {
			child := new(Node)
			if err := child.UnmarshalYAML(c); err != nil {
				return err
			}
			n.Items = append(n.Items, child)
		}
	default:
		return fmt.Errorf("document: unsupported yaml node kind %d", value.Kind)
	}
	return nil
}

// MarshalYAML encodes the node as a yaml.Node so mapping order survives
// serialization.
func (n *Node) MarshalYAML() (any, error) {
	return n.yamlNode()
}

func (n *Node) yamlNode() (*yaml.Node, error) {
	if n == nil {
		return nullYAMLNode(), nil
	}
	switch n.Kind {
	case KindScalar:
		if n.Value == nil {
			return nullYAMLNode(), nil
		}
		out := new(yaml.Node)
		if err := out.Encode(n.Value); err != nil {
			return nil, err
		}
		return out, nil
	case KindMapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range n.Pairs {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key}
			val, err := p.Value.yamlNode()
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, key, val)
		}
		return out, nil
	case KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			val, err := item.yamlNode()
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, val)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("document: unsupported node kind %v", n.Kind)
	}
}

func nullYAMLNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// normalizeScalar narrows machine-sized ints so scalars compare predictably
// regardless of whether they arrived via YAML or JSON.
func normalizeScalar(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// FromGo converts plain Go values (the shapes encoding/json and yaml produce
// for untyped data) into a node. Map key order is not recoverable from a Go
// map, so keys are emitted sorted; callers that care about order build Pairs
// directly or use ParseJSON.
func FromGo(v any) *Node {
	switch t := v.(type) {
	case nil:
		return Scalar(nil)
	case *Node:
		return t
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, Pair{Key: k, Value: FromGo(t[k])})
		}
		return Mapping(pairs...)
	case []any:
		items := make([]*Node, 0, len(t))
		for _, item := range t {
			items = append(items, FromGo(item))
		}
		return Sequence(items...)
	default:
		return Scalar(normalizeScalar(v))
	}
}

// Interface converts the node back into plain Go values: scalars unwrap,
// mappings become map[string]any, sequences become []any.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindScalar:
		return n.Value
	case KindMapping:
		out := make(map[string]any, len(n.Pairs))
		for _, p := range n.Pairs {
			out[p.Key] = p.Value.Interface()
		}
		return out
	case KindSequence:
		out := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			out = append(out, item.Interface())
		}
		return out
	default:
		return nil
	}
}

// Stringify renders the node for substitution into templates and query
// parameters: scalars print bare (nil as "null"), composites render as
// compact JSON.
func (n *Node) Stringify() string {
	if n == nil {
		return "null"
	}
	if n.Kind == KindScalar {
		if n.Value == nil {
			return "null"
		}
		if s, ok := n.Value.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", n.Value)
	}
	data, err := n.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", n.Interface())
	}
	return string(data)
}
