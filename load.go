package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-yaml"
)

// FromYAML builds a container from a YAML document, keeping the document's
// key order. Integers become int when they fit.
func FromYAML(data []byte, opts ...Option) (*Container, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(nil, opts...)
	}
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, opError("load", nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err))
	}
	return New(normalizeDocument(doc), opts...)
}

// FromJSON builds a container from a JSON document, keeping the document's
// key order.
func FromJSON(data []byte, opts ...Option) (*Container, error) {
	if !json.Valid(data) {
		return nil, opError("load", nil, fmt.Errorf("%w: malformed JSON document", ErrInvalidArgument))
	}
	return FromYAML(data, opts...)
}

// FromReader reads r fully and decodes it as JSON when it is valid JSON and
// as YAML otherwise.
func FromReader(r io.Reader, opts ...Option) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, opError("load", nil, err)
	}
	if json.Valid(data) {
		return FromJSON(data, opts...)
	}
	return FromYAML(data, opts...)
}

func normalizeDocument(value any) any {
	switch typed := value.(type) {
	case yaml.MapSlice:
		for i := range typed {
			typed[i].Key = normalizeDocument(typed[i].Key)
			typed[i].Value = normalizeDocument(typed[i].Value)
		}
		return typed
	case []any:
		for i := range typed {
			typed[i] = normalizeDocument(typed[i])
		}
		return typed
	case int64:
		if typed >= math.MinInt && typed <= math.MaxInt {
			return int(typed)
		}
		return typed
	case uint64:
		if typed <= math.MaxInt {
			return int(typed)
		}
		return typed
	default:
		return value
	}
}
