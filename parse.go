package hparams

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseOverrideString parses a comma-separated override string like
// "a.b=1,a.c=2*3*4,d=true" into the nested map
// {"a": {"b": 1, "c": [2, 3, 4]}, "d": true}.
//
// Each pair must contain exactly one '='. Empty pairs (from trailing or
// duplicated commas) are skipped. Keys are trimmed of surrounding
// whitespace and expanded at dots into nested maps. A value containing '*'
// is split into a sequence, with each element parsed as a literal; '*' is
// reserved as the array separator and is never literal data.
func ParseOverrideString(s string) (map[string]any, error) {
	if s == "" {
		return map[string]any{}, nil
	}

	result := make(map[string]any)
	for _, pair := range strings.Split(s, ",") {
		if pair == "" {
			continue
		}

		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidOverride, s)
		}
		key := strings.TrimSpace(parts[0])
		valueStr := parts[1]

		var value any
		if strings.Contains(valueStr, "*") {
			items := strings.Split(valueStr, "*")
			seq := make([]any, 0, len(items))
			for _, item := range items {
				seq = append(seq, evalString(item))
			}
			value = seq
		} else {
			value = evalString(valueStr)
		}

		mergeMaps(result, expandKey(key, value))
	}

	return result, nil
}

// expandKey turns a dotted key into nesting: "x.y.z" with value v becomes
// {"x": {"y": {"z": v}}}. A key without dots is terminal.
func expandKey(key string, value any) map[string]any {
	pos := strings.Index(key, ".")
	if pos < 0 {
		return map[string]any{key: value}
	}
	return map[string]any{key[:pos]: expandKey(key[pos+1:], value)}
}

// evalString parses a scalar override token as a literal. "true" and
// "false" become booleans and "None" becomes nil; everything else goes
// through YAML scalar resolution, which covers numbers, quoted strings,
// flow lists and maps, and null. A token that fails to parse, or that
// resolves to nothing, is returned as the raw string unchanged.
func evalString(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "None":
		return nil
	}

	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	return v
}
