// Package params provides an ordered, nested key/value container for
// configuration and argument bags.
//
// A Container holds string or int keys in insertion order. Mappings and
// sequences written into it become child containers that inherit the
// parent's mutability and configuration. Mutability is chosen once at
// construction: a frozen container rejects every write with ErrImmutable.
//
//	c, err := params.New(map[string]any{"limits": map[string]any{"daily": 100}})
//	_ = c.Set("region", "eu-west")
//	daily, err := c.Query("limits.daily")
//
// Query evaluates JMESPath expressions and QueryPath evaluates JSONPath.
// Evaluate runs expr, CEL or (with the js_eval build tag) JavaScript rules
// against the snapshot. Stack merges priority ordered layers and traces which
// layer supplied each value.
package params
