package hparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseOverrideString tests the key=value override grammar
func TestParseOverrideString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]any
	}{
		{"Empty", "", map[string]any{}},
		{"SingleScalar", "a=1", map[string]any{"a": 1}},
		{"DottedPath", "a.b.c=1", map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}},
		{"MultiplePairs", "a.b=1,a.c=2,d=true", map[string]any{
			"a": map[string]any{"b": 1, "c": 2},
			"d": true,
		}},
		{"ArraySplit", "a=2*3*4", map[string]any{"a": []any{2, 3, 4}}},
		{"ArrayOfFloats", "ratios=1.0*2.0*0.5", map[string]any{"ratios": []any{1.0, 2.0, 0.5}}},
		{"ArrayOfStrings", "ops=rain*snow*fog", map[string]any{"ops": []any{"rain", "snow", "fog"}}},
		{"EmptyPairsSkipped", "a=1,,b=2,", map[string]any{"a": 1, "b": 2}},
		{"KeyWhitespaceTrimmed", " a =1", map[string]any{"a": 1}},
		{"EmptyValue", "a=", map[string]any{"a": ""}},
		{"Float", "lr=0.08", map[string]any{"lr": 0.08}},
		{"Scientific", "wd=4e-5", map[string]any{"wd": 4e-05}},
		{"String", "backbone=efficientnet-b1", map[string]any{"backbone": "efficientnet-b1"}},
		{"QuotedString", "s='hello world'", map[string]any{"s": "hello world"}},
		{"None", "x=None", map[string]any{"x": nil}},
		{"LastAssignmentWins", "a=1,a=2", map[string]any{"a": 2}},
		{"DeepPairsMergeNotOverwrite", "m.a=1,m.b=2", map[string]any{
			"m": map[string]any{"a": 1, "b": 2},
		}},
		{"LeafOverwritesSubtree", "m.a=1,m=5", map[string]any{"m": 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOverrideString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestParseOverrideStringErrors tests malformed inputs
func TestParseOverrideStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"DoubleEquals", "a=b=c"},
		{"NoEquals", "justakey"},
		{"MixedValidAndInvalid", "a=1,b=c=d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOverrideString(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOverride)
			// The error names the whole original string.
			assert.Contains(t, err.Error(), tt.input)
		})
	}
}

// TestEvalString tests scalar literal evaluation
func TestEvalString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{"True", "true", true},
		{"False", "false", false},
		{"None", "None", nil},
		{"Int", "42", 42},
		{"NegativeInt", "-7", -7},
		{"Float", "0.5", 0.5},
		{"FlowList", "[1, 2]", []any{1, 2}},
		{"FallbackString", "efficientnet-b1", "efficientnet-b1"},
		{"FallbackEmpty", "", ""},
		{"FallbackUnclosedBracket", "[unclosed", "[unclosed"},
		{"TitleCaseBool", "True", true},
		{"QuotedNumberStaysString", `"42"`, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, evalString(tt.input))
		})
	}
}
