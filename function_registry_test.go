package params

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	upper := func(args ...any) (any, error) { return len(args), nil }

	if err := registry.Register("Count", upper); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("count", upper); err == nil {
		t.Fatalf("expected duplicate error for case-insensitive name")
	}
	if err := registry.Register("", upper); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := registry.Register("nil", nil); err == nil {
		t.Fatalf("expected error for nil function")
	}

	got, err := registry.Call("COUNT", 1, 2, 3)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected error for unknown function")
	}

	clone := registry.Clone()
	if err := clone.Register("extra", upper); err != nil {
		t.Fatalf("register on clone: %v", err)
	}
	if diff := cmp.Diff([]string{"count"}, registry.Names()); diff != "" {
		t.Fatalf("clone must not share storage (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"count", "extra"}, clone.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryCache(t *testing.T) {
	var cache MemoryCache
	if _, ok := cache.Get("missing"); ok {
		t.Fatalf("zero cache must be empty")
	}
	cache.Set("jmespath:a", 1)
	cache.Set("jmespath:a", 2)
	if value, ok := cache.Get("jmespath:a"); !ok || value != 2 {
		t.Fatalf("expected overwritten value, got %v %v", value, ok)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected one entry, got %d", cache.Len())
	}
}
