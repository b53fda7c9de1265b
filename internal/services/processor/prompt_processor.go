package processor

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const DefaultMaxInputLength = 10000

// PromptProcessor classifies raw text and fills the matching template.
type PromptProcessor struct {
	maxInputLength int
}

func NewPromptProcessor(maxInputLength int) *PromptProcessor {
	if maxInputLength <= 0 {
		maxInputLength = DefaultMaxInputLength
	}
	return &PromptProcessor{maxInputLength: maxInputLength}
}

// Enhance builds the enhanced prompt for input. An explicit template key
// overrides classification. It returns the enhanced text and the template name.
func (p *PromptProcessor) Enhance(ctx context.Context, cfg *Config, input, model, template string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if cfg == nil {
		return "", "", fmt.Errorf("%w: no prompt configuration loaded", ErrConfiguration)
	}

	key := template
	if key == "" {
		key = p.classify(cfg, input)
	}

	tmpl, ok := cfg.Templates[key]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown template %q", ErrConfiguration, key)
	}

	instructions, err := p.modelInstructions(cfg, model, input)
	if err != nil {
		return "", "", err
	}

	enhanced := strings.ReplaceAll(tmpl.Content, placeholderInput, input)
	enhanced = strings.ReplaceAll(enhanced, placeholderInstructions, instructions)

	return enhanced, tmpl.Name, nil
}

// classify scores each keyword category by the number of keywords found in
// the input. Ties go to the alphabetically first category.
func (p *PromptProcessor) classify(cfg *Config, input string) string {
	lower := strings.ToLower(input)

	categories := make([]string, 0, len(cfg.Keywords))
	for category := range cfg.Keywords {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	best, bestScore := GeneralTemplate, 0
	for _, category := range categories {
		score := 0
		for _, kw := range cfg.Keywords[category] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = category, score
		}
	}

	return best
}

func (p *PromptProcessor) modelInstructions(cfg *Config, model, input string) (string, error) {
	base, ok := cfg.ModelInstructions[model]
	if !ok {
		base, ok = cfg.ModelInstructions[DefaultModel]
		if !ok {
			return "", fmt.Errorf("%w: no instructions for model %q and no default", ErrConfiguration, model)
		}
	}

	var additions strings.Builder

	switch words := len(strings.Fields(input)); {
	case words > 50:
		additions.WriteString("\n- Handle this complex, multi-faceted request with comprehensive detail")
	case words > 20:
		additions.WriteString("\n- Provide thorough coverage of this moderately complex request")
	}

	lower := strings.ToLower(input)
	switch {
	case containsAny(lower, "code", "algorithm", "software", "programming"):
		additions.WriteString("\n- Apply software engineering best practices and technical precision")
	case containsAny(lower, "story", "creative", "write", "design"):
		additions.WriteString("\n- Emphasize creativity and originality")
	case containsAny(lower, "analyze", "compare", "evaluate"):
		additions.WriteString("\n- Use systematic analytical frameworks and evidence-based reasoning")
	}

	return base + additions.String(), nil
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
