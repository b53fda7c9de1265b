package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Contains(t, cfg.Templates, GeneralTemplate)
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		content := `
templates:
  general:
    name: General
    content: "Answer: {user_input}\n{model_instructions}"
  code:
    name: Code
    content: "Code: {user_input}"
model_instructions:
  default: be brief
keywords:
  code: [function]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "Code", cfg.Templates["code"].Name)
		assert.Equal(t, []string{"function"}, cfg.Keywords["code"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		require.NoError(t, os.WriteFile(path, []byte("templates:\n  code:\n    name: Code\n    content: no placeholder\n"), 0o600))

		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no templates", mutate: func(c *Config) { c.Templates = nil }},
		{name: "empty template name", mutate: func(c *Config) {
			c.Templates["code"] = Template{Name: " ", Content: "{user_input}"}
		}},
		{name: "missing general", mutate: func(c *Config) { delete(c.Templates, GeneralTemplate) }},
		{name: "missing default model", mutate: func(c *Config) { delete(c.ModelInstructions, DefaultModel) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
		})
	}
}
