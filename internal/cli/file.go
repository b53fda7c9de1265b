package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/blackarched/Prompt-Kraft/internal/config"
	"github.com/blackarched/Prompt-Kraft/internal/ingest"
	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/blackarched/Prompt-Kraft/internal/services/batch"
	"github.com/blackarched/Prompt-Kraft/internal/services/processor"
	"github.com/blackarched/Prompt-Kraft/internal/services/storage"
	"github.com/blackarched/Prompt-Kraft/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type fileOptions struct {
	format       string
	input        string
	output       string
	batchSize    int
	promptColumn string
	modelColumn  string
	fromStorage  bool
	removeSource bool
	upload       bool
}

// newFileCmd returns the csv or json command, or the auto-detecting
// "process" command when format is empty.
func newFileCmd(logger *zap.Logger, format string) *cobra.Command {
	opts := &fileOptions{format: format}

	cmd := &cobra.Command{
		Use:   format,
		Short: fmt.Sprintf("Enhance prompts from a %s file", format),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFile(cmd, logger, opts)
		},
	}

	switch format {
	case "csv":
		cmd.Example = `  promptcraft csv --input prompts.csv --output enhanced.csv --batch-size 50`
		cmd.Flags().StringVar(&opts.promptColumn, "prompt-column", "prompt", "CSV column holding the prompt")
		cmd.Flags().StringVar(&opts.modelColumn, "model-column", "model", "CSV column holding the target model")
	case "json":
		cmd.Example = `  promptcraft json --input prompts.json --output enhanced.json`
	default:
		cmd.Use = "process"
		cmd.Short = "Enhance prompts from a file, picking the format from its extension"
		cmd.Example = `  promptcraft process --input prompts.csv --upload`
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input file path (bucket path with --from-storage)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: generated name in the current directory)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", ingest.DefaultBatchSize, "prompts per batch")
	cmd.Flags().BoolVar(&opts.fromStorage, "from-storage", false, "read the input from the Supabase bucket")
	cmd.Flags().BoolVar(&opts.removeSource, "remove-source", false, "delete the bucket input after it was processed (requires --from-storage)")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "archive input and output files to the Supabase bucket")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runFile(cmd *cobra.Command, logger *zap.Logger, opts *fileOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format := opts.format
	if format == "" {
		detected, err := utils.FormatFromPath(opts.input)
		if err != nil {
			return err
		}
		format = detected
	}
	if opts.batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", opts.batchSize)
	}
	if opts.removeSource && !opts.fromStorage {
		return fmt.Errorf("--remove-source requires --from-storage")
	}

	output := opts.output
	if output == "" {
		output = utils.GenerateFilename(trimExt(opts.input), format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := storage.NewStorageService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	engine, err := newEngine(cfg, store, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Batch.ShutdownTimeout)
		defer cancel()
		if err := engine.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Engine shutdown incomplete", zap.Error(err))
		}
	}()

	inputData, err := readInput(ctx, store, opts)
	if err != nil {
		return err
	}

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	fp := ingest.NewFileProcessor(engine, cfg.Batch.MaxConcurrentItems, logger)

	var summary ingest.Summary
	start := time.Now()
	switch format {
	case "csv":
		summary, err = fp.ProcessCSV(ctx, bytes.NewReader(inputData), out, ingest.CSVOptions{
			PromptColumn: opts.promptColumn,
			ModelColumn:  opts.modelColumn,
			BatchSize:    opts.batchSize,
		})
	case "json":
		summary, err = fp.ProcessJSON(ctx, bytes.NewReader(inputData), out, opts.batchSize)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", opts.input, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	cmd.Printf("Processed %d prompts in %s (%d successful, %d failed)\n",
		summary.Total, time.Since(start).Round(time.Millisecond), summary.Successful, summary.Failed)
	cmd.Printf("Results saved to %s\n", output)

	if opts.upload {
		if err := archive(ctx, cmd, store, format, opts.input, inputData, output); err != nil {
			return err
		}
	}

	if opts.removeSource {
		if err := store.Delete(ctx, opts.input); err != nil {
			return fmt.Errorf("failed to remove %s from storage: %w", opts.input, err)
		}
		cmd.Printf("Removed %s from storage\n", opts.input)
	}
	return nil
}

func newEngine(cfg *config.Config, store *storage.StorageService, logger *zap.Logger) (*batch.Service, error) {
	promptConfig, err := processor.LoadConfig(cfg.Prompt.TemplatesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	pp := processor.NewPromptProcessor(cfg.Prompt.MaxInputLength)

	var enhancer batch.Enhancer = pp
	if store.CacheEnabled() {
		enhancer = storage.NewCachingEnhancer(pp, store, logger)
	}

	return batch.NewService(cfg.Batch, promptConfig, pp, enhancer, logger), nil
}

func readInput(ctx context.Context, store *storage.StorageService, opts *fileOptions) ([]byte, error) {
	if opts.fromStorage {
		return store.Download(ctx, opts.input)
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

func archive(ctx context.Context, cmd *cobra.Command, store *storage.StorageService, format, input string, inputData []byte, output string) error {
	outputData, err := os.ReadFile(output)
	if err != nil {
		return fmt.Errorf("failed to read output file: %w", err)
	}

	contentType := utils.ContentTypeForFormat(format)
	urls, err := store.UploadMultiple(ctx, []models.UploadFile{
		{Filename: filepath.Base(input), ContentType: contentType, Data: inputData},
		{Filename: filepath.Base(output), ContentType: contentType, Data: outputData},
	})
	for _, url := range urls {
		if url != "" {
			cmd.Printf("Archived %s\n", url)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to archive files: %w", err)
	}
	return nil
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
