package parser

import (
	"strconv"

	"github.com/wecisecode/datastructures/collection"
	"github.com/wecisecode/datastructures/merrs"
	"gopkg.in/yaml.v3"
)

// YamlParse keeps the order of mapping keys by walking the node tree.
func YamlParse(yaml_format_str ...string) (sm *Section, err error) {
	sm = collection.New[any]()
	for _, yaml_str := range yaml_format_str {
		var doc yaml.Node
		if err = yaml.Unmarshal([]byte(yaml_str), &doc); err != nil {
			return nil, merrs.ErrParser.NewCause(err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		v, err := yamlValue(doc.Content[0])
		if err != nil {
			return nil, err
		}
		ysm, ok := v.(*Section)
		if !ok {
			return nil, merrs.ErrParser.New("yaml configuration should be a mapping", merrs.SSMap{"line": yamlLine(doc.Content[0])})
		}
		DeepMerge(sm, ysm)
	}
	return sm, nil
}

func yamlLine(n *yaml.Node) string {
	return strconv.Itoa(n.Line)
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		c := collection.New[any]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			c.Set(collection.KeyOf(n.Content[i].Value), v)
		}
		return c, nil
	case yaml.SequenceNode:
		vs := []any{}
		for _, cn := range n.Content {
			v, err := yamlValue(cn)
			if err != nil {
				return nil, err
			}
			vs = append(vs, v)
		}
		return vs, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, merrs.ErrParser.NewCause(err)
	}
	return v, nil
}
