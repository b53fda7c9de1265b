package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
)

type jsonInputItem struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

type jsonOutputItem struct {
	Original         json.RawMessage `json:"original"`
	EnhancedPrompt   *string         `json:"enhanced_prompt"`
	TemplateUsed     *string         `json:"template_used"`
	Success          bool            `json:"success"`
	ErrorMessage     string          `json:"error_message,omitempty"`
	ProcessingTimeMs float64         `json:"processing_time_ms"`
	Timestamp        time.Time       `json:"timestamp"`
}

// ProcessJSON reads an array whose elements are prompt strings or objects
// with "prompt" and optional "model" keys.
func (p *FileProcessor) ProcessJSON(ctx context.Context, in io.Reader, out io.Writer, batchSize int) (Summary, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(in).Decode(&raw); err != nil {
		return Summary{}, fmt.Errorf("json input must be an array: %w", err)
	}

	items := make([]models.BatchItem, len(raw))
	for i, element := range raw {
		item, err := parseJSONItem(element)
		if err != nil {
			return Summary{}, fmt.Errorf("invalid item format at index %d: %w", i, err)
		}
		item.ID = fmt.Sprintf("item_%d", i)
		item.Metadata = map[string]any{"original_index": i}
		items[i] = item
	}

	results, err := p.processInBatches(ctx, items, batchSize)
	if err != nil {
		return Summary{}, err
	}

	output := make([]jsonOutputItem, len(results))
	for i, result := range results {
		output[i] = jsonOutputItem{
			Original:         raw[i],
			Success:          result.Success,
			ErrorMessage:     result.ErrorMessage,
			ProcessingTimeMs: result.ProcessingTimeMs,
			Timestamp:        result.Timestamp,
		}
		if result.Success {
			output[i].EnhancedPrompt = &result.EnhancedPrompt
			output[i].TemplateUsed = &result.TemplateUsed
		}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		return Summary{}, fmt.Errorf("failed to write json output: %w", err)
	}

	return summarize(results), nil
}

func parseJSONItem(element json.RawMessage) (models.BatchItem, error) {
	var prompt string
	if err := json.Unmarshal(element, &prompt); err == nil {
		return models.BatchItem{Prompt: prompt, Model: processor.DefaultModel}, nil
	}

	var obj jsonInputItem
	if err := json.Unmarshal(element, &obj); err != nil {
		return models.BatchItem{}, errors.New("expected a string or an object")
	}
	if obj.Model == "" {
		obj.Model = processor.DefaultModel
	}
	return models.BatchItem{Prompt: obj.Prompt, Model: obj.Model}, nil
}
