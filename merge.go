package hparams

import (
	"fmt"
	"strings"
)

// Update merges source into the tree, always allowing new keys. The source
// may be nil (no-op), a nested map, or another *Config. Nested maps merge
// recursively into existing subtrees; a kind mismatch (leaf vs subtree)
// replaces the existing value.
func (c *Config) Update(source any) error {
	switch src := source.(type) {
	case nil:
		return nil
	case map[string]any:
		return c.merge("", src, true)
	case *Config:
		return c.merge("", src.AsMap(), true)
	default:
		return fmt.Errorf("cannot update from %T", source)
	}
}

// Override merges source into the tree. The source may be:
//   - a nested map or another *Config, merged directly;
//   - a key=value override string (see ParseOverrideString);
//   - a path ending in .yaml or .yml, loaded and parsed as a mapping;
//   - an empty string, which is a no-op.
//
// When allowNewKeys is false, introducing a key absent from the target at
// any depth fails with ErrUnknownKey naming the full dotted path. Keys
// merged before the failing key remain applied.
func (c *Config) Override(source any, allowNewKeys bool) error {
	var src map[string]any

	switch s := source.(type) {
	case string:
		if s == "" {
			return nil
		}
		var err error
		switch {
		case strings.Contains(s, "="):
			src, err = ParseOverrideString(s)
		case strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml"):
			src, err = ParseFile(s)
		default:
			return fmt.Errorf("%w: %q must end with .yaml or contain \"=\"", ErrInvalidOverride, s)
		}
		if err != nil {
			return err
		}
	case map[string]any:
		src = s
	case *Config:
		src = s.AsMap()
	default:
		return fmt.Errorf("%w: %T", ErrInvalidOverrideType, source)
	}

	return c.merge("", src, allowNewKeys)
}

// merge is the single recursive merge primitive behind Update and Override,
// parameterized by the new-key policy. prefix carries the dotted path to
// this node for error reporting.
func (c *Config) merge(prefix string, src map[string]any, allowNew bool) error {
	for _, k := range sortedKeys(src) {
		v := src[k]
		path := joinPath(prefix, k)

		existing, present := c.values[k]
		if !present {
			if !allowNew {
				return fmt.Errorf("%w: %s", ErrUnknownKey, path)
			}
			c.set(k, v)
			continue
		}

		child, isSubtree := existing.(*Config)
		switch sv := v.(type) {
		case map[string]any:
			if isSubtree {
				if err := child.merge(path, sv, allowNew); err != nil {
					return err
				}
				continue
			}
		case *Config:
			if isSubtree {
				if err := child.merge(path, sv.AsMap(), allowNew); err != nil {
					return err
				}
				continue
			}
		}

		// Leaf on either side: replace.
		c.set(k, v)
	}
	return nil
}

// mergeMaps recursively merges src into dst for plain nested maps. Values
// merge when both sides are maps and overwrite otherwise; the last
// assignment for a given path wins. Used to combine the fragments produced
// by the comma-separated pairs of an override string.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if existing, ok := dst[k]; ok {
			dm, dstIsMap := existing.(map[string]any)
			sm, srcIsMap := v.(map[string]any)
			if dstIsMap && srcIsMap {
				mergeMaps(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
