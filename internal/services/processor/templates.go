package processor

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	GeneralTemplate = "general"
	DefaultModel    = "default"

	placeholderInput        = "{user_input}"
	placeholderInstructions = "{model_instructions}"
)

type Template struct {
	Name    string `yaml:"name" json:"name"`
	Content string `yaml:"content" json:"content"`
}

// Config holds the templates, per-model instructions and classification
// keywords used to build enhanced prompts.
type Config struct {
	Templates         map[string]Template `yaml:"templates" json:"templates"`
	ModelInstructions map[string]string   `yaml:"model_instructions" json:"model_instructions"`
	Keywords          map[string][]string `yaml:"keywords" json:"keywords"`
}

// LoadConfig reads a YAML template file. An empty path yields the built-in config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Templates) == 0 {
		return fmt.Errorf("%w: no templates defined", ErrConfiguration)
	}

	for key, tmpl := range c.Templates {
		if strings.TrimSpace(tmpl.Name) == "" {
			return fmt.Errorf("%w: template %q has an empty name", ErrConfiguration, key)
		}
		if !strings.Contains(tmpl.Content, placeholderInput) {
			return fmt.Errorf("%w: template %q is missing %s", ErrConfiguration, key, placeholderInput)
		}
	}

	if _, ok := c.Templates[GeneralTemplate]; !ok {
		return fmt.Errorf("%w: fallback template %q is required", ErrConfiguration, GeneralTemplate)
	}

	if _, ok := c.ModelInstructions[DefaultModel]; !ok {
		return fmt.Errorf("%w: model instructions for %q are required", ErrConfiguration, DefaultModel)
	}

	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Templates: map[string]Template{
			"code": {
				Name: "Code Generation",
				Content: "**Role:** You are a senior software engineer.\n**Task:** Develop code for: \"{user_input}\"\n\n" +
					"**Requirements:**\n1. Production-ready, maintainable code\n2. Error handling and input validation\n" +
					"3. Efficient algorithms\n4. Tests and documentation\n\n{model_instructions}",
			},
			"creative": {
				Name: "Creative Writing",
				Content: "**Role:** You are an experienced creative writer.\n**Creative Challenge:** \"{user_input}\"\n\n" +
					"**Approach:**\n1. Original concept\n2. Vivid imagery and authentic voices\n3. Engaging structure and pacing\n\n" +
					"{model_instructions}",
			},
			"explain": {
				Name: "Expert Explanation",
				Content: "**Role:** You are an educator who makes complex topics accessible.\n**Objective:** Explain \"{user_input}\"\n\n" +
					"**Approach:**\n1. Establish background\n2. Break ideas into small parts\n3. Give concrete examples\n" +
					"4. Address common misconceptions\n\n{model_instructions}",
			},
			"analysis": {
				Name: "Deep Analysis",
				Content: "**Role:** You are a senior research analyst.\n**Analytical Challenge:** \"{user_input}\"\n\n" +
					"**Framework:**\n1. Current state and context\n2. Multiple perspectives\n3. Risks and opportunities\n" +
					"4. Recommendations with rationale\n\n{model_instructions}",
			},
			"research": {
				Name: "Research Synthesis",
				Content: "**Role:** You are a research scholar.\n**Research Inquiry:** \"{user_input}\"\n\n" +
					"**Framework:**\n1. State of knowledge\n2. Evidence quality\n3. Gaps and open questions\n" +
					"4. Evidence-based conclusions\n\n{model_instructions}",
			},
			"problem_solving": {
				Name: "Problem Solving",
				Content: "**Role:** You are an expert problem solver.\n**Challenge:** \"{user_input}\"\n\n" +
					"**Framework:**\n1. Define the problem\n2. Find root causes\n3. Compare solutions\n" +
					"4. Plan implementation and measure success\n\n{model_instructions}",
			},
			GeneralTemplate: {
				Name: "Expert Consultation",
				Content: "**Role:** You are an expert consultant with broad knowledge.\n**Consultation:** \"{user_input}\"\n\n" +
					"**Framework:**\n1. Assess all relevant factors\n2. Consider several viewpoints\n" +
					"3. Give actionable recommendations\n\n{model_instructions}",
			},
		},
		ModelInstructions: map[string]string{
			DefaultModel: "**Output Guidelines:** Provide a well-structured markdown response with headings, bullet points and examples.",
			"gpt4":       "**For GPT-4:** Use step-by-step reasoning and consider edge cases.",
			"claude":     "**For Claude:** Provide balanced, nuanced analysis and acknowledge uncertainty.",
			"gemini":     "**For Gemini:** Use structured thinking and comprehensive analysis.",
			"o1":         "**For O1:** Apply systematic, step-by-step reasoning and focus on accuracy.",
			"gpt3":       "**For GPT-3.5:** Keep the response clear and well organized, with examples.",
		},
		Keywords: map[string][]string{
			"code":            {"code", "program", "function", "algorithm", "software", "programming", "script", "api", "database", "debug", "refactor"},
			"creative":        {"write", "create", "story", "poem", "creative", "narrative", "character", "fiction", "novel", "blog"},
			"explain":         {"explain", "what is", "how does", "why", "describe", "clarify", "define", "teach", "tutorial", "concept"},
			"analysis":        {"analyze", "compare", "evaluate", "assess", "examine", "review", "critique", "pros and cons", "impact"},
			"research":        {"research", "literature", "findings", "evidence", "statistics", "methodology", "hypothesis", "experiment"},
			"problem_solving": {"solve", "fix", "troubleshoot", "resolve", "overcome", "issue", "problem", "solution", "workaround"},
		},
	}
}
