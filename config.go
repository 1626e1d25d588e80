package hparams

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is a recursive container mapping names to hyperparameter values.
// A value is either a leaf (primitive, sequence, or nil) or a nested
// *Config subtree. Keys keep their insertion order so serialization is
// deterministic.
//
// Each node exclusively owns its subtrees and leaf values: construction
// and assignment deep-copy caller-supplied data, so mutating the original
// map or slice afterwards does not affect the tree.
type Config struct {
	keys   []string
	values map[string]any
}

// New builds a configuration tree from a nested map. Every nested
// map[string]any becomes a child *Config recursively; every other value is
// deep-copied and stored as a leaf. New(nil) returns an empty tree.
func New(m map[string]any) *Config {
	c := &Config{values: make(map[string]any)}
	for _, k := range sortedKeys(m) {
		c.set(k, m[k])
	}
	return c
}

// Get retrieves the leaf or subtree at path. The path is tried first as a
// literal key of this node, then as a dot-separated path into subtrees.
// A missing key returns an error wrapping ErrKeyNotFound.
func (c *Config) Get(path string) (any, error) {
	if v, ok := c.values[path]; ok {
		return v, nil
	}
	return c.lookup(path)
}

// GetDefault retrieves the value at path, or fallback if the path is absent.
// It never returns an error.
func (c *Config) GetDefault(path string, fallback any) any {
	v, err := c.Get(path)
	if err != nil {
		return fallback
	}
	return v
}

// Set stores a value under a single key of this node, applying the same
// normalization as construction: maps become fresh subtrees, everything
// else is deep-copied. Assigning a leaf over a subtree (or vice versa)
// changes the key's kind.
func (c *Config) Set(key string, value any) {
	c.set(key, value)
}

// Has reports whether path resolves to a value in the tree.
func (c *Config) Has(path string) bool {
	_, err := c.Get(path)
	return err == nil
}

// Keys returns the top-level key names in insertion order.
func (c *Config) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Clone creates a deep copy of the tree.
func (c *Config) Clone() *Config {
	return New(c.AsMap())
}

// AsMap converts the tree to a plain nested map: every subtree becomes a
// map[string]any and every leaf is deep-copied. It is the exact inverse of
// New: New(m).AsMap() is value-equal to m.
func (c *Config) AsMap() map[string]any {
	m := make(map[string]any, len(c.keys))
	for _, k := range c.keys {
		switch v := c.values[k].(type) {
		case *Config:
			m[k] = v.AsMap()
		default:
			m[k] = deepCopyValue(v)
		}
	}
	return m
}

// MarshalYAML renders the tree as a YAML mapping with keys in insertion
// order.
func (c *Config) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range c.keys {
		var keyNode yaml.Node
		keyNode.SetString(k)

		var valNode yaml.Node
		if err := valNode.Encode(c.values[k]); err != nil {
			return nil, fmt.Errorf("failed to encode value for key %q: %w", k, err)
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	return node, nil
}

// Dump renders the tree as block-style YAML for logging and debugging.
// If YAML serialization fails it falls back to a generic structural
// rendering; it never fails.
func (c *Config) Dump() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%v", c.AsMap())
	}
	return string(data)
}

// lookup navigates a dot-separated path through nested subtrees.
func (c *Config) lookup(path string) (any, error) {
	node := c
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		v, ok := node.values[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(segments[:i+1], "."))
		}
		if i == len(segments)-1 {
			return v, nil
		}
		child, ok := v.(*Config)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
		}
		node = child
	}
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
}

// set stores a normalized value under key, recording insertion order for
// new keys.
func (c *Config) set(key string, value any) {
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = normalizeValue(value)
}

// normalizeValue converts maps into subtrees and deep-copies everything else.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return New(val)
	case *Config:
		return val.Clone()
	default:
		return deepCopyValue(v)
	}
}

// deepCopyValue copies mutable leaf values (slices and plain maps) so the
// tree never aliases caller-owned data. Scalars are returned as-is.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	}

	// Typed slices ([]int, []string, []float64, ...) are copied element-wise.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}

	return v
}

// sortedKeys returns the keys of a plain map in sorted order. Go maps have
// no iteration order, so construction and merges walk keys sorted to keep
// behavior reproducible.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
