package params

// mergeInto overlays strong onto dst. Mappings present on both sides merge
// recursively; any other strong value, sequences included, replaces the dst
// entry in place so keys keep the position of their first appearance.
func mergeInto(dst, strong *Container) error {
	for _, key := range strong.keys {
		value := strong.values[key]
		if src, ok := value.(*Container); ok && !src.isSequence() {
			if existing, ok := dst.values[key].(*Container); ok && !existing.isSequence() {
				if err := mergeInto(existing, src); err != nil {
					return err
				}
				continue
			}
		}
		if err := dst.put(key, value); err != nil {
			return opError("merge", key, err)
		}
	}
	return nil
}

// MergeContainers deep-merges containers ordered from weakest to strongest
// into a new container built with opts. Inputs are not modified.
func MergeContainers(containers []*Container, opts ...Option) (*Container, error) {
	cfg, err := applyOptions(nil)
	if err != nil {
		return nil, err
	}
	merged := newContainer(cfg, true, false)
	for _, c := range containers {
		if c == nil {
			continue
		}
		if err := mergeInto(merged, c); err != nil {
			return nil, err
		}
	}
	return New(merged, opts...)
}

// leaf is a scalar or opaque value reached through keys.
type leaf struct {
	keys  []any
	value any
}

// leaves walks c depth first in insertion order. Empty child containers are
// reported as leaves so they stay visible.
func (c *Container) leaves() []leaf {
	var out []leaf
	var walk func(prefix []any, node *Container)
	walk = func(prefix []any, node *Container) {
		for _, key := range node.keys {
			path := append(append([]any{}, prefix...), key)
			value := node.values[key]
			if child, ok := value.(*Container); ok && child.Len() > 0 {
				walk(path, child)
				continue
			}
			out = append(out, leaf{keys: path, value: value})
		}
	}
	if c != nil {
		walk(nil, c)
	}
	return out
}

func (c *Container) lookupKeys(keys []any) (any, bool) {
	var current any = c
	for _, key := range keys {
		node, ok := current.(*Container)
		if !ok {
			return nil, false
		}
		if current, ok = node.Lookup(key); !ok {
			return nil, false
		}
	}
	return current, true
}

func joinKeys(keys []any) string {
	var out []byte
	for i, key := range keys {
		if i > 0 {
			out = append(out, '.')
		}
		out = append(out, keyString(key)...)
	}
	return string(out)
}
