package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes the routing union (spec §6: "string | list of
// strings | expression") from whichever shape the document uses: a bare
// scalar is a single target name, a sequence is a list of target names,
// and a mapping with an `expr` key is a routing expression.
func (r *RoutingConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.One)
	case yaml.SequenceNode:
		return node.Decode(&r.Many)
	case yaml.MappingNode:
		var m map[string]string
		if err := node.Decode(&m); err != nil {
			return err
		}
		expr, ok := m["expr"]
		if !ok {
			return fmt.Errorf("routing mapping must have an %q key", "expr")
		}
		r.Expr = expr
		return nil
	default:
		return fmt.Errorf("unsupported routing node kind %v", node.Kind)
	}
}
