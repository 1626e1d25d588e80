package hparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() *Config {
	return New(map[string]any{
		"name":          "efficientdet-d1",
		"image_size":    640,
		"learning_rate": 0.08,
		"is_training":   true,
		"survival_prob": nil,
		"nms_configs": map[string]any{
			"method":          "gaussian",
			"max_output_size": 100,
		},
	})
}

// TestTypedGetters tests conversions on top of dotted-path lookup
func TestTypedGetters(t *testing.T) {
	c := testTree()

	t.Run("String", func(t *testing.T) {
		v, err := c.String("name")
		require.NoError(t, err)
		assert.Equal(t, "efficientdet-d1", v)

		// Converts numbers
		v, err = c.String("image_size")
		require.NoError(t, err)
		assert.Equal(t, "640", v)

		// Nil is empty string
		v, err = c.String("survival_prob")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("Int64", func(t *testing.T) {
		v, err := c.Int64("image_size")
		require.NoError(t, err)
		assert.Equal(t, int64(640), v)

		// Nested path
		v, err = c.Int64("nms_configs.max_output_size")
		require.NoError(t, err)
		assert.Equal(t, int64(100), v)

		// Float truncates
		v, err = c.Int64("learning_rate")
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)

		_, err = c.Int64("survival_prob")
		assert.Error(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		v, err := c.Float64("learning_rate")
		require.NoError(t, err)
		assert.InDelta(t, 0.08, v, 1e-9)

		v, err = c.Float64("image_size")
		require.NoError(t, err)
		assert.Equal(t, 640.0, v)
	})

	t.Run("Bool", func(t *testing.T) {
		v, err := c.Bool("is_training")
		require.NoError(t, err)
		assert.True(t, v)

		// Non-zero number is true
		v, err = c.Bool("image_size")
		require.NoError(t, err)
		assert.True(t, v)

		_, err = c.Bool("name")
		assert.Error(t, err)
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := c.String("absent")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = c.Int64("nms_configs.absent")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("Subtree", func(t *testing.T) {
		sub, err := c.Subtree("nms_configs")
		require.NoError(t, err)
		assert.True(t, sub.Has("method"))

		_, err = c.Subtree("image_size")
		assert.Error(t, err)
	})
}

// TestStringConversions tests string parsing edge cases
func TestStringConversions(t *testing.T) {
	c := New(map[string]any{
		"int_str":   "640",
		"float_str": "0.5",
		"bool_str":  "true",
		"hex_str":   "0xFF",
	})

	v, err := c.Int64("int_str")
	require.NoError(t, err)
	assert.Equal(t, int64(640), v)

	// Base auto-detection
	v, err = c.Int64("hex_str")
	require.NoError(t, err)
	assert.Equal(t, int64(255), v)

	f, err := c.Float64("float_str")
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	b, err := c.Bool("bool_str")
	require.NoError(t, err)
	assert.True(t, b)
}
