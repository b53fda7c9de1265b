package ingest

import (
	"context"
	"fmt"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"go.uber.org/zap"
)

const DefaultBatchSize = 100

type ItemProcessor interface {
	ProcessItems(ctx context.Context, items []models.BatchItem, maxConcurrent int) ([]models.BatchResult, error)
}

// Summary totals a processed file.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// FileProcessor enhances prompts read from CSV or JSON files in fixed-size
// batches and writes one output record per input record, in input order.
type FileProcessor struct {
	engine        ItemProcessor
	maxConcurrent int
	logger        *zap.Logger
}

func NewFileProcessor(engine ItemProcessor, maxConcurrent int, logger *zap.Logger) *FileProcessor {
	return &FileProcessor{
		engine:        engine,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

func (p *FileProcessor) processInBatches(ctx context.Context, items []models.BatchItem, batchSize int) ([]models.BatchResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	results := make([]models.BatchResult, 0, len(items))
	totalBatches := (len(items) + batchSize - 1) / batchSize

	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))

		batchResults, err := p.engine.ProcessItems(ctx, items[start:end], p.maxConcurrent)
		if err != nil {
			return nil, fmt.Errorf("failed to process batch %d/%d: %w", start/batchSize+1, totalBatches, err)
		}
		results = append(results, batchResults...)

		p.logger.Info("Processed batch",
			zap.Int("batch", start/batchSize+1),
			zap.Int("total_batches", totalBatches))
	}

	return results, nil
}

func summarize(results []models.BatchResult) Summary {
	successful, failed := models.CountResults(results)
	return Summary{Total: len(results), Successful: successful, Failed: failed}
}
