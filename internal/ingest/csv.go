package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
)

var csvOutputHeader = []string{
	"original_prompt",
	"enhanced_prompt",
	"template_used",
	"success",
	"error_message",
	"processing_time_ms",
}

type CSVOptions struct {
	PromptColumn string
	ModelColumn  string
	BatchSize    int
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.PromptColumn == "" {
		o.PromptColumn = "prompt"
	}
	if o.ModelColumn == "" {
		o.ModelColumn = "model"
	}
	return o
}

func (p *FileProcessor) ProcessCSV(ctx context.Context, in io.Reader, out io.Writer, opts CSVOptions) (Summary, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Summary{}, errors.New("csv input is empty")
		}
		return Summary{}, fmt.Errorf("failed to read csv header: %w", err)
	}

	promptIdx, modelIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case opts.PromptColumn:
			promptIdx = i
		case opts.ModelColumn:
			modelIdx = i
		}
	}
	if promptIdx < 0 {
		return Summary{}, fmt.Errorf("column %q not found in csv", opts.PromptColumn)
	}

	var items []models.BatchItem
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Summary{}, fmt.Errorf("failed to read csv row %d: %w", row, err)
		}

		item := models.BatchItem{
			ID:       fmt.Sprintf("row_%d", row),
			Prompt:   field(record, promptIdx),
			Model:    field(record, modelIdx),
			Metadata: map[string]any{"row_index": row},
		}
		if item.Model == "" {
			item.Model = processor.DefaultModel
		}
		items = append(items, item)
	}

	results, err := p.processInBatches(ctx, items, opts.BatchSize)
	if err != nil {
		return Summary{}, err
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(csvOutputHeader); err != nil {
		return Summary{}, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, result := range results {
		if err := writer.Write([]string{
			items[i].Prompt,
			result.EnhancedPrompt,
			result.TemplateUsed,
			strconv.FormatBool(result.Success),
			result.ErrorMessage,
			strconv.FormatFloat(result.ProcessingTimeMs, 'f', 2, 64),
		}); err != nil {
			return Summary{}, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return Summary{}, fmt.Errorf("failed to flush csv output: %w", err)
	}

	return summarize(results), nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
