package params

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/goccy/go-yaml"
)

// Snapshotter is implemented by opaque leaf values that can describe
// themselves as plain data. *Container implements it.
type Snapshotter interface {
	Snapshot() (any, error)
}

// Cloner is implemented by opaque leaf values that can deep copy themselves.
type Cloner interface {
	CloneValue() (any, error)
}

type pair struct {
	key   any
	value any
}

func isScalar(value any) bool {
	switch value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number, []byte:
		return true
	default:
		return false
	}
}

// entriesOf returns the ordered pairs of a mapping or sequence. Go maps carry
// no order, so their keys are sorted; ordered sources (containers, views,
// yaml.MapSlice, slices) keep theirs. ok is false for anything that is not a
// mapping or sequence.
func entriesOf(data any) (pairs []pair, list bool, ok bool) {
	switch typed := data.(type) {
	case nil, []byte:
		return nil, false, false
	case *Container:
		if typed == nil {
			return nil, false, false
		}
		return typed.pairs(), typed.list, true
	case View:
		if typed.c == nil {
			return nil, false, false
		}
		return typed.c.pairs(), typed.c.list, true
	case yaml.MapSlice:
		out := make([]pair, 0, len(typed))
		for _, item := range typed {
			out = append(out, pair{key: item.Key, value: item.Value})
		}
		return out, false, true
	case map[string]any:
		out := make([]pair, 0, len(typed))
		for key, value := range typed {
			out = append(out, pair{key: key, value: value})
		}
		sortPairs(out)
		return out, false, true
	case map[any]any:
		out := make([]pair, 0, len(typed))
		for key, value := range typed {
			out = append(out, pair{key: key, value: value})
		}
		sortPairs(out)
		return out, false, true
	case []any:
		out := make([]pair, len(typed))
		for i, value := range typed {
			out[i] = pair{key: i, value: value}
		}
		return out, true, true
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Map:
		switch rv.Type().Key().Kind() {
		case reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		default:
			return nil, false, false
		}
		if rv.IsNil() {
			return nil, false, true
		}
		out := make([]pair, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out = append(out, pair{key: iter.Key().Interface(), value: iter.Value().Interface()})
		}
		sortPairs(out)
		return out, false, true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, true, true
		}
		out := make([]pair, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = pair{key: i, value: rv.Index(i).Interface()}
		}
		return out, true, true
	default:
		return nil, false, false
	}
}

func sortPairs(pairs []pair) {
	slices.SortStableFunc(pairs, func(a, b pair) int {
		ak, aok := normalizeKey(a.key)
		bk, bok := normalizeKey(b.key)
		if !aok || !bok {
			return 0
		}
		return compareKeys(ak, bk)
	})
}

// snapshotLeaf converts a non-container value into plain data.
func snapshotLeaf(value any) (any, error) {
	if isScalar(value) {
		return value, nil
	}
	if s, ok := value.(Snapshotter); ok {
		return s.Snapshot()
	}
	return nil, ErrUnsupportedValue
}

// cloneLeaf copies a non-container value.
func cloneLeaf(value any) (any, error) {
	if b, ok := value.([]byte); ok {
		return append([]byte(nil), b...), nil
	}
	if isScalar(value) {
		return value, nil
	}
	if c, ok := value.(Cloner); ok {
		return c.CloneValue()
	}
	return nil, ErrUnsupportedValue
}
