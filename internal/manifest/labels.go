package manifest

import (
	"strings"

	"github.com/ThomasCrouzet/homestack/internal/model"
	yamlv3 "gopkg.in/yaml.v3"
)

// Label is one key/value pair from a workload's labels, in declaration order.
type Label struct {
	Key   string
	Value string
}

// NormalizeLabels accepts the labels node of a workload in either of the
// compose encodings, a sequence of "key=value" strings or a mapping, and
// returns the pairs in declaration order. List entries are split on the
// first "=" only; entries without one are dropped. A repeated key keeps the
// position of its first occurrence and the value of its last.
func NormalizeLabels(node *yamlv3.Node) []Label {
	if node == nil {
		return nil
	}
	var labels []Label
	seen := map[string]int{}
	add := func(key, value string) {
		if i, ok := seen[key]; ok {
			labels[i].Value = value
			return
		}
		seen[key] = len(labels)
		labels = append(labels, Label{Key: key, Value: value})
	}
	switch node.Kind {
	case yamlv3.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yamlv3.ScalarNode {
				continue
			}
			key, value, ok := strings.Cut(item.Value, "=")
			if !ok {
				continue
			}
			add(key, value)
		}
	case yamlv3.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if v.Kind != yamlv3.ScalarNode {
				continue
			}
			add(k.Value, v.Value)
		}
	}
	return labels
}

// ParseLabels applies the labels under the vendor namespace to desc.
//
//	<vendor>.<field>=<value>               descriptor field, last write wins
//	<vendor>.install.prompt.<key>=<label>  install prompt, appended in order
//
// Anything else is ignored. The vendor may itself contain dots. A prompt
// key declared twice yields one prompt, the later label winning.
func ParseLabels(desc *model.ServiceDescriptor, vendor string, labels []Label) {
	prefix := vendor + "."
	prompts := map[string]int{}
	for _, l := range labels {
		rest, ok := strings.CutPrefix(l.Key, prefix)
		if !ok {
			continue
		}
		parts := strings.Split(rest, ".")

		switch {
		case len(parts) == 1:
			setField(desc, parts[0], l.Value)
		case len(parts) >= 3 && parts[0] == "install" && parts[1] == "prompt":
			key := strings.Join(parts[2:], ".")
			if i, ok := prompts[key]; ok {
				desc.InstallPrompts[i].Label = l.Value
				continue
			}
			prompts[key] = len(desc.InstallPrompts)
			desc.InstallPrompts = append(desc.InstallPrompts, model.InstallPrompt{
				Key:    key,
				Label:  l.Value,
				EnvVar: strings.ToUpper(key),
			})
		}
	}
}

func setField(desc *model.ServiceDescriptor, field, value string) {
	switch field {
	case "name":
		desc.Name = value
	case "description":
		desc.Description = value
	case "icon":
		desc.Icon = value
	case "category":
		desc.Category = value
	case "url":
		v := value
		desc.URL = &v
	}
}
