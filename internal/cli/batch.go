package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/proseflow/proseflow/internal/model"
	"github.com/proseflow/proseflow/internal/pipeline"
	"github.com/proseflow/proseflow/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchLevel   string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Analyze multiple documents from a list file in parallel",
	Long: `Batch analyzes multiple documents concurrently:
- Read document paths from the list file (one per line, # for comments)
- Analyze documents in parallel with a configurable worker count
- Write one NDJSON suggestion file per document

Example:
  proseflow batch docs.txt
  proseflow batch docs.txt --concurrency 8 --output-dir ./suggestions
  proseflow batch docs.txt --level spelling --llm-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./proseflow-suggestions", "output directory for suggestion files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchLevel, "level", "full", "analysis level (spelling, full)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force fresh analysis)")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	level := model.AnalysisLevel(batchLevel)
	if !level.IsValid() {
		return fmt.Errorf("unknown level %q (supported: spelling, full)", batchLevel)
	}

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Batch.Workers = concurrency
	cfg.Verbose = verbose
	if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	analyzer, err := pipeline.NewAnalyzer(cfg, nil)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(analyzer, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing documents with %d workers...\n", concurrency)

	results, err := processor.ProcessList(ctx, listFile, level)
	if err != nil {
		return fmt.Errorf("process list: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		outPath := filepath.Join(outputDir, suggestionFilename(result.Path))
		if err := writeSuggestions(outPath, result.Suggestions); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write suggestions: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d suggestions)\n", result.Path, len(result.Suggestions))
	}

	fmt.Fprintf(os.Stderr, "\nTotal: %d  Success: %d  Failures: %d  Output: %s\n",
		len(results), successCount, failureCount, outputDir)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d documents failed", failureCount, len(results))
	}
	return nil
}

// writeSuggestions writes suggestions to a file as NDJSON, one per line
func writeSuggestions(path string, suggestions []model.Suggestion) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	enc := json.NewEncoder(f)
	for _, s := range suggestions {
		if err := enc.Encode(s.ToWire()); err != nil {
			return err
		}
	}
	return nil
}

// suggestionFilename derives the output filename for a document path
func suggestionFilename(docPath string) string {
	base := filepath.Base(docPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.ReplaceAll(base, " ", "-")
	if len(base) > 100 {
		base = base[:100]
	}
	return base + ".ndjson"
}
