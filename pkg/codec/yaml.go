package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/langsync/pkg/tree"
)

// YAML reads and writes nested YAML mappings. Decoding walks the node tree
// instead of unmarshalling into maps so key order survives the round trip.
// Sequences become trees keyed "0", "1", ... like PHP lists.
type YAML struct{}

func (YAML) Extensions() []string { return []string{".yaml", ".yml"} }

func (YAML) Decode(data []byte) (*tree.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// Empty or comment-only document.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return tree.New(), nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return tree.New(), nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &SyntaxError{Msg: "document root must be a mapping", Line: root.Line, Column: root.Column}
	}
	return yamlMapping(root)
}

func yamlMapping(n *yaml.Node) (*tree.Tree, error) {
	t := tree.New()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := resolveAlias(n.Content[i])
		if k.Kind != yaml.ScalarNode {
			return nil, &SyntaxError{Msg: "mapping keys must be scalars", Line: k.Line, Column: k.Column}
		}
		if k.Value == "<<" && k.ShortTag() == "!!merge" {
			return nil, &SyntaxError{Msg: "merge keys are not supported", Line: k.Line, Column: k.Column}
		}
		v, err := yamlValue(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		t.Set(k.Value, v)
	}
	return t, nil
}

func yamlValue(n *yaml.Node) (tree.Value, error) {
	n = resolveAlias(n)

	switch n.Kind {
	case yaml.MappingNode:
		sub, err := yamlMapping(n)
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Nested(sub), nil

	case yaml.SequenceNode:
		sub := tree.New()
		for i, item := range n.Content {
			v, err := yamlValue(item)
			if err != nil {
				return tree.Value{}, err
			}
			sub.Set(strconv.Itoa(i), v)
		}
		return tree.Nested(sub), nil

	case yaml.ScalarNode:
		return yamlScalar(n)
	}

	return tree.Value{}, &SyntaxError{Msg: "unsupported YAML node", Line: n.Line, Column: n.Column}
}

func yamlScalar(n *yaml.Node) (tree.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return tree.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return tree.Value{}, &SyntaxError{Msg: err.Error(), Line: n.Line, Column: n.Column}
		}
		return tree.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return tree.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return tree.Value{}, &SyntaxError{Msg: err.Error(), Line: n.Line, Column: n.Column}
		}
		return tree.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return tree.Value{}, &SyntaxError{Msg: err.Error(), Line: n.Line, Column: n.Column}
		}
		return tree.Float(f), nil
	}
	// Strings and every other scalar tag (timestamps, binary) stay text.
	return tree.String(n.Value), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func (YAML) Encode(t *tree.Tree) ([]byte, error) {
	root, err := yamlNode(t)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func yamlNode(t *tree.Tree) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for key, v := range t.All() {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}

		var vn *yaml.Node
		if v.IsTree() {
			sub, err := yamlNode(v.Tree())
			if err != nil {
				return nil, err
			}
			vn = sub
		} else {
			leaf, err := yamlLeaf(v)
			if err != nil {
				return nil, fmt.Errorf("%w: key %q: %v", ErrEncode, key, err)
			}
			vn = leaf
		}
		m.Content = append(m.Content, k, vn)
	}
	return m, nil
}

func yamlLeaf(v tree.Value) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.ScalarNode}
	switch v.Kind() {
	case tree.KindString:
		n.Tag = "!!str"
		n.Value, _ = v.Str()
	case tree.KindBool:
		b, _ := v.BoolValue()
		n.Tag, n.Value = "!!bool", strconv.FormatBool(b)
	case tree.KindInt:
		i, _ := v.IntValue()
		n.Tag, n.Value = "!!int", strconv.FormatInt(i, 10)
	case tree.KindFloat:
		f, _ := v.FloatValue()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite float %v", f)
		}
		n.Tag = "!!float"
		n.Value = strconv.FormatFloat(f, 'g', -1, 64)
		if _, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			n.Value += ".0"
		}
	case tree.KindNull:
		n.Tag, n.Value = "!!null", "null"
	default:
		return nil, fmt.Errorf("unsupported value kind %s", v.Kind())
	}
	return n, nil
}
