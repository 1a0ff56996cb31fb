package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// String renders the snapshot as YAML, keeping key order.
func (c *Container) String() string {
	tree, err := c.MarshalYAML()
	if err != nil {
		return fmt.Sprintf("<params: %v>", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return fmt.Sprintf("<params: %v>", err)
	}
	return strings.TrimRight(string(out), "\n")
}

// MarshalYAML returns an ordered yaml.MapSlice (or a sequence for list
// containers) so encoders keep insertion order. Int keys are rendered in
// decimal because goccy/go-yaml only encodes string MapSlice keys.
func (c *Container) MarshalYAML() (any, error) {
	if c == nil {
		return yaml.MapSlice{}, nil
	}
	if c.isSequence() {
		out := make([]any, 0, len(c.keys))
		for _, key := range c.keys {
			value, err := orderedValue(c.values[key])
			if err != nil {
				return nil, opError("snapshot", key, err)
			}
			out = append(out, value)
		}
		return out, nil
	}
	out := make(yaml.MapSlice, 0, len(c.keys))
	for _, key := range c.keys {
		value, err := orderedValue(c.values[key])
		if err != nil {
			return nil, opError("snapshot", key, err)
		}
		out = append(out, yaml.MapItem{Key: keyString(key), Value: value})
	}
	return out, nil
}

func orderedValue(value any) (any, error) {
	if child, ok := value.(*Container); ok {
		return child.MarshalYAML()
	}
	return snapshotLeaf(value)
}

// MarshalJSON encodes the snapshot as JSON, keeping key order.
func (c *Container) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Container) writeJSON(buf *bytes.Buffer) error {
	if c == nil {
		buf.WriteString("null")
		return nil
	}
	sequence := c.isSequence()
	if sequence {
		buf.WriteByte('[')
	} else {
		buf.WriteByte('{')
	}
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !sequence {
			name, _ := json.Marshal(keyString(key))
			buf.Write(name)
			buf.WriteByte(':')
		}
		if child, ok := c.values[key].(*Container); ok {
			if err := child.writeJSON(buf); err != nil {
				return err
			}
			continue
		}
		plain, err := snapshotLeaf(c.values[key])
		if err != nil {
			return opError("snapshot", key, err)
		}
		encoded, err := json.Marshal(plain)
		if err != nil {
			return opError("snapshot", key, err)
		}
		buf.Write(encoded)
	}
	if sequence {
		buf.WriteByte(']')
	} else {
		buf.WriteByte('}')
	}
	return nil
}
