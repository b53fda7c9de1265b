package processor

import "sort"

// ModelInfo describes a target model that has instructions configured.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var modelDisplayNames = map[string]string{
	DefaultModel: "Default",
	"gpt4":       "GPT-4",
	"claude":     "Claude",
	"gemini":     "Gemini",
	"o1":         "O1 (Reasoning)",
	"gpt3":       "GPT-3.5",
}

// Models lists the configured models, default first and the rest by id.
func (c *Config) Models() []ModelInfo {
	ids := make([]string, 0, len(c.ModelInstructions))
	for id := range c.ModelInstructions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i] == DefaultModel || ids[j] == DefaultModel {
			return ids[i] == DefaultModel
		}
		return ids[i] < ids[j]
	})

	models := make([]ModelInfo, len(ids))
	for i, id := range ids {
		name, ok := modelDisplayNames[id]
		if !ok {
			name = id
		}
		models[i] = ModelInfo{ID: id, Name: name}
	}
	return models
}

// DetectTemplate returns the template key and name Enhance would pick for
// input when no template is forced.
func (p *PromptProcessor) DetectTemplate(cfg *Config, input string) (string, string) {
	key := p.classify(cfg, input)
	if _, ok := cfg.Templates[key]; !ok {
		key = GeneralTemplate
	}
	return key, cfg.Templates[key].Name
}
