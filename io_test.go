package hparams

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFile tests reading configuration files in the supported formats
func TestParseFile(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hparams.yaml")
		content := "model:\n  image_size: 512\n  backbone_name: efficientnet-b0\nlearning_rate: 0.08\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		m, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"model": map[string]any{
				"image_size":    512,
				"backbone_name": "efficientnet-b0",
			},
			"learning_rate": 0.08,
		}, m)
	})

	t.Run("TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hparams.toml")
		content := "learning_rate = 0.08\n\n[model]\nimage_size = 512\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		m, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, int64(512), m["model"].(map[string]any)["image_size"])
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hparams.json")
		content := `{"model": {"image_size": 512}}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		m, err := ParseFile(path)
		require.NoError(t, err)
		require.Contains(t, m, "model")
	})

	t.Run("MissingFilePropagates", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("a: [unclosed\n"), 0644))
		_, err := ParseFile(path)
		assert.Error(t, err)
	})
}

// TestSave tests atomic writes and serialization round trips
func TestSave(t *testing.T) {
	t.Run("YAMLRoundTrip", func(t *testing.T) {
		// Non-whole floats: YAML renders 2.0 as "2", which reloads as an int.
		src := map[string]any{
			"name":       "efficientdet-d0",
			"image_size": 512,
			"nms_configs": map[string]any{
				"method":       "gaussian",
				"score_thresh": 0.25,
			},
			"aspect_ratios": []any{0.5, 1.5, 2.5},
			"survival_prob": nil,
		}
		c := New(src)

		path := filepath.Join(t.TempDir(), "out.yaml")
		require.NoError(t, c.Save(path))

		loaded, err := ParseFile(path)
		require.NoError(t, err)
		assert.Equal(t, src, loaded)
	})

	t.Run("CreatesParentDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "out.yaml")
		require.NoError(t, New(map[string]any{"a": 1}).Save(path))
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("BlockStyleOutput", func(t *testing.T) {
		c := New(map[string]any{"model": map[string]any{"image_size": 512}})
		path := filepath.Join(t.TempDir(), "out.yaml")
		require.NoError(t, c.Save(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "model:\n    image_size: 512\n", string(data))
	})
}

// TestOverrideFromFile tests the .yaml override source end to end
func TestOverrideFromFile(t *testing.T) {
	t.Run("AppliesFileValues", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "override.yaml")
		content := "model:\n  image_size: 1024\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		c := New(map[string]any{"model": map[string]any{"image_size": 640, "backbone_name": "efficientnet-b1"}})
		require.NoError(t, c.Override(path, false))

		v, err := c.Get("model.image_size")
		require.NoError(t, err)
		assert.Equal(t, 1024, v)

		// Untouched keys keep their defaults.
		v, err = c.Get("model.backbone_name")
		require.NoError(t, err)
		assert.Equal(t, "efficientnet-b1", v)
	})

	t.Run("UnknownKeyInFileRejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "override.yaml")
		require.NoError(t, os.WriteFile(path, []byte("imge_size: 512\n"), 0644))

		c := New(map[string]any{"image_size": 640})
		err := c.Override(path, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownKey)
	})

	t.Run("MissingFilePropagates", func(t *testing.T) {
		c := New(map[string]any{"a": 1})
		err := c.Override(filepath.Join(t.TempDir(), "absent.yaml"), false)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
