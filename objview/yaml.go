package objview

import (
	"fmt"

	"gopkg.in/yaml.v3"

	goaml "github.com/reoring/goaml"
)

// MarshalYAML renders o as a YAML record with the same shape as MarshalJSON.
// Every scalar is tagged !!str so values such as "1000" or "true" keep their
// string form.
func MarshalYAML(o *goaml.Object) ([]byte, error) {
	if o == nil {
		return nil, &goaml.Error{Code: goaml.CodeInvalidParam, Message: "nil object"}
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(root, fieldDevice, strNode(o.DeviceID()))
	appendPair(root, fieldTimestamp, strNode(o.Timestamp()))
	appendPair(root, fieldID, strNode(o.ID()))

	groups := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range o.DataNames() {
		d, err := o.Data(name)
		if err != nil {
			return nil, err
		}
		appendPair(groups, name, dataNode(d))
	}
	appendPair(root, fieldData, groups)

	b, err := yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
	if err != nil {
		return nil, &goaml.Error{Code: goaml.CodeSerializationFailed, Cause: err}
	}
	return b, nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func appendPair(m *yaml.Node, key string, v *yaml.Node) {
	m.Content = append(m.Content, strNode(key), v)
}

func dataNode(d *goaml.Data) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range d.Keys() {
		v, _ := d.Value(k)
		switch t := v.(type) {
		case goaml.String:
			appendPair(n, k, strNode(string(t)))
		case goaml.StringArray:
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, s := range t {
				seq.Content = append(seq.Content, strNode(s))
			}
			appendPair(n, k, seq)
		case *goaml.Data:
			appendPair(n, k, dataNode(t))
		}
	}
	return n
}

// UnmarshalYAML reads one YAML record. The error codes follow UnmarshalJSON.
func UnmarshalYAML(b []byte) (*goaml.Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, syntaxError(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, shapeError("empty document")
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, shapeError("record must be a mapping")
	}

	var ident identity
	seen := map[string]bool{}
	groups := goaml.NewData()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, resolve(root.Content[i+1])
		if seen[key] {
			return nil, &goaml.Error{Code: goaml.CodeDuplicateKey, Message: fmt.Sprintf("%q", key)}
		}
		seen[key] = true

		switch key {
		case fieldDevice, fieldTimestamp, fieldID:
			if !isScalar(val) {
				return nil, shapeError("%q must be a scalar", key)
			}
			ident.set(key, val.Value)
		case fieldData:
			if val.Kind != yaml.MappingNode {
				return nil, shapeError("%q must be a mapping", fieldData)
			}
			for g := 0; g+1 < len(val.Content); g += 2 {
				name, body := val.Content[g].Value, resolve(val.Content[g+1])
				if body.Kind != yaml.MappingNode {
					return nil, shapeError("group %q must be a mapping", name)
				}
				d, err := yamlData(body, 2)
				if err != nil {
					return nil, withPath(err, name)
				}
				if err := groups.SetData(name, d); err != nil {
					return nil, err
				}
			}
		default:
			return nil, shapeError("unknown record field %q", key)
		}
	}
	return ident.object(groups)
}

func yamlData(n *yaml.Node, depth int) (*goaml.Data, error) {
	if depth > goaml.DefaultMaxDepth {
		return nil, shapeError("nesting exceeds %d levels", goaml.DefaultMaxDepth)
	}
	d := goaml.NewData()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, resolve(n.Content[i+1])
		v, err := yamlValue(key, val, depth)
		if err != nil {
			return nil, withPath(err, key)
		}
		if err := d.SetValue(key, v); err != nil {
			return nil, withPath(err, key)
		}
	}
	return d, nil
}

func yamlValue(key string, n *yaml.Node, depth int) (goaml.Value, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return yamlData(n, depth+1)
	case yaml.SequenceNode:
		out := make(goaml.StringArray, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if !isScalar(item) {
				return nil, shapeError("list %q may only hold scalars", key)
			}
			out = append(out, item.Value)
		}
		return out, nil
	}
	if !isScalar(n) {
		return nil, shapeError("%q is null", key)
	}
	return goaml.String(n.Value), nil
}

func isScalar(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() != "!!null"
}

// resolve follows alias nodes to their anchors.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
