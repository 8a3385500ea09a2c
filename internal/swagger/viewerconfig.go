package swagger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ViewerConfig is the option mapping handed to the viewer's init call. Keys
// keep the order in which the author wrote them.
type ViewerConfig struct {
	keys   []string
	values map[string]*yaml.Node
}

// ParseViewerConfig decodes a YAML mapping. Empty input yields an empty config.
func ParseViewerConfig(src string) (ViewerConfig, error) {
	if strings.TrimSpace(src) == "" {
		return ViewerConfig{}, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return ViewerConfig{}, fmt.Errorf("parse viewer options: %w", err)
	}
	return ViewerConfigFromNode(&doc)
}

// ViewerConfigFromNode builds a config from a decoded mapping (or document) node.
func ViewerConfigFromNode(n *yaml.Node) (ViewerConfig, error) {
	if n == nil || n.IsZero() {
		return ViewerConfig{}, nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return ViewerConfig{}, nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return ViewerConfig{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return ViewerConfig{}, fmt.Errorf("viewer options must be a mapping, got %s", kindName(n.Kind))
	}
	var c ViewerConfig
	for i := 0; i+1 < len(n.Content); i += 2 {
		c = c.set(n.Content[i].Value, n.Content[i+1])
	}
	return c, nil
}

// Len is the number of keys.
func (c ViewerConfig) Len() int { return len(c.keys) }

// Keys returns the keys in order.
func (c ViewerConfig) Keys() []string {
	return append([]string(nil), c.keys...)
}

// String returns the scalar value of key.
func (c ViewerConfig) String(key string) (string, bool) {
	n, ok := c.values[key]
	if !ok || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// With returns a copy with key set to value. An existing key keeps its
// position; a new key is appended.
func (c ViewerConfig) With(key string, value any) (ViewerConfig, error) {
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return c, fmt.Errorf("encode viewer option %s: %w", key, err)
	}
	return c.clone().set(key, &n), nil
}

// WithURL returns a copy whose url points at the resolved specification.
func (c ViewerConfig) WithURL(url string) ViewerConfig {
	return c.clone().set("url", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: url})
}

func (c ViewerConfig) set(key string, value *yaml.Node) ViewerConfig {
	if c.values == nil {
		c.values = make(map[string]*yaml.Node)
	}
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
	return c
}

func (c ViewerConfig) clone() ViewerConfig {
	out := ViewerConfig{
		keys:   append([]string(nil), c.keys...),
		values: make(map[string]*yaml.Node, len(c.values)),
	}
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}

// MarshalJSON encodes the config as a JSON object in key order. Nested
// mappings keep their order too.
func (c ViewerConfig) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONNode(&buf, c.values[k]); err != nil {
			return nil, fmt.Errorf("viewer option %s: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON is MarshalJSON as a string, for templates.
func (c ViewerConfig) JSON() (string, error) {
	b, err := c.MarshalJSON()
	return string(b), err
}

func writeJSONNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.AliasNode:
		return writeJSONNode(buf, n.Alias)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSONNode(buf, n.Content[0])
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSONNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
