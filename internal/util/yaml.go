package util

import (
	"fmt"

	yamlv3 "gopkg.in/yaml.v3"
)

// ParseDocument parses data and returns the root content node, or nil for
// an empty document.
func ParseDocument(data []byte) (*yamlv3.Node, error) {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

// Lookup walks a chain of mapping keys from node. It returns nil as soon as
// a key is missing or a non-mapping node is reached.
func Lookup(node *yamlv3.Node, path ...string) *yamlv3.Node {
	for _, key := range path {
		if node == nil || node.Kind != yamlv3.MappingNode {
			return nil
		}
		var next *yamlv3.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}
		node = next
	}
	return node
}

// Keys returns the keys of a mapping node in declaration order.
func Keys(node *yamlv3.Node) []string {
	if node == nil || node.Kind != yamlv3.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}
