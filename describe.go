package params

import "fmt"

// FieldDescriptor describes a leaf path and the Go type stored there.
type FieldDescriptor struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Describe lists the leaves of the container depth first in insertion order.
// Nested mappings are expanded; sequences are reported as one field typed by
// their first element.
func (c *Container) Describe() ([]FieldDescriptor, error) {
	out := []FieldDescriptor{}
	if c == nil {
		return out, nil
	}
	return c.describe("", out)
}

func (c *Container) describe(prefix string, out []FieldDescriptor) ([]FieldDescriptor, error) {
	for _, key := range c.keys {
		path := joinPath(prefix, keyString(key))
		child, ok := c.values[key].(*Container)
		if !ok {
			out = append(out, FieldDescriptor{Path: path, Type: typeName(c.values[key])})
			continue
		}
		switch {
		case child.isSequence():
			elementType := "any"
			if child.Len() > 0 {
				plain, err := snapshotValue(child.values[child.keys[0]])
				if err != nil {
					return nil, opError("describe", key, err)
				}
				elementType = typeName(plain)
			}
			out = append(out, FieldDescriptor{Path: path, Type: "[]" + elementType})
		case child.Len() == 0:
			out = append(out, FieldDescriptor{Path: path, Type: "map[string]any"})
		default:
			var err error
			if out, err = child.describe(path, out); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
