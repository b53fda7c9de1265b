package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModels(t *testing.T) {
	cfg := &Config{ModelInstructions: map[string]string{
		"zeta":       "z",
		"claude":     "c",
		DefaultModel: "d",
		"gpt4":       "g",
	}}

	assert.Equal(t, []ModelInfo{
		{ID: "default", Name: "Default"},
		{ID: "claude", Name: "Claude"},
		{ID: "gpt4", Name: "GPT-4"},
		{ID: "zeta", Name: "zeta"},
	}, cfg.Models())
}

func TestDetectTemplate(t *testing.T) {
	p := NewPromptProcessor(0)
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		input    string
		wantKey  string
		wantName string
	}{
		{name: "code", input: "debug this function", wantKey: "code", wantName: "Code Generation"},
		{name: "explain", input: "explain how does DNS work", wantKey: "explain", wantName: "Expert Explanation"},
		{name: "no keywords", input: "hello there", wantKey: GeneralTemplate, wantName: "Expert Consultation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, name := p.DetectTemplate(cfg, tt.input)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantName, name)
		})
	}

	t.Run("keyword category without template", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Keywords["orphan"] = []string{"zebra"}

		key, _ := p.DetectTemplate(cfg, "zebra")
		assert.Equal(t, GeneralTemplate, key)
	})
}
