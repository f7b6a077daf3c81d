package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClassRule matches a window by its WM_CLASS.
type ClassRule struct {
	Class  string `yaml:"class"`
	Prefix bool   `yaml:"prefix,omitempty"`
}

// Matches reports whether class is covered by the rule. Comparison ignores
// case.
func (r ClassRule) Matches(class string) bool {
	want := strings.ToLower(r.Class)
	got := strings.ToLower(strings.TrimSpace(class))
	if r.Prefix {
		return strings.HasPrefix(got, want)
	}
	return got == want
}

// ClassList supports either:
//
//	ignore_classes:
//	  - "Plank"
//	  - "Conky"
//
// or:
//
//	ignore_classes:
//	  - class: Plank
//	  - class: xfce4-
//	    prefix: true
type ClassList []ClassRule

func (l *ClassList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.SequenceNode:
		out := make([]ClassRule, 0, len(value.Content))
		for _, item := range value.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				if item.Tag != "!!str" {
					return fmt.Errorf("ignore_classes entries must be strings or mappings")
				}
				class := strings.TrimSpace(item.Value)
				if class == "" {
					return fmt.Errorf("ignore_classes entries must not be empty")
				}
				out = append(out, ClassRule{Class: class})

			case yaml.MappingNode:
				rule, err := decodeClassRuleMapping(item)
				if err != nil {
					return err
				}
				out = append(out, rule)

			default:
				return fmt.Errorf("ignore_classes entries must be strings or mappings")
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("ignore_classes must be a list")
	}
}

func decodeClassRuleMapping(node *yaml.Node) (ClassRule, error) {
	if node == nil || node.Kind != yaml.MappingNode {
		return ClassRule{}, fmt.Errorf("ignore_classes entries must be strings or mappings")
	}

	var rule ClassRule
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			return ClassRule{}, fmt.Errorf("ignore_classes mapping keys must be strings")
		}
		switch key.Value {
		case "class":
			if val.Kind != yaml.ScalarNode || val.Tag != "!!str" {
				return ClassRule{}, fmt.Errorf("ignore_classes[].class must be a string")
			}
			rule.Class = strings.TrimSpace(val.Value)
			if rule.Class == "" {
				return ClassRule{}, fmt.Errorf("ignore_classes[].class must not be empty")
			}
		case "prefix":
			var b bool
			if err := val.Decode(&b); err != nil {
				return ClassRule{}, fmt.Errorf("ignore_classes[].prefix must be a boolean")
			}
			rule.Prefix = b
		default:
			return ClassRule{}, fmt.Errorf("unknown ignore_classes field %q", key.Value)
		}
	}

	if rule.Class == "" {
		return ClassRule{}, fmt.Errorf("ignore_classes[].class is required")
	}

	return rule, nil
}

func (l ClassList) MarshalYAML() (any, error) {
	hasPrefix := false
	for _, rule := range l {
		if rule.Prefix {
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		out := make([]string, 0, len(l))
		for _, rule := range l {
			out = append(out, rule.Class)
		}
		return out, nil
	}
	return []ClassRule(l), nil
}

// Ignored reports whether windows of the given WM_CLASS are left out of the
// overview.
func (c *Config) Ignored(class string) bool {
	if c == nil || class == "" {
		return false
	}
	for _, rule := range c.IgnoreClasses {
		if rule.Matches(class) {
			return true
		}
	}
	return false
}
