package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/proseflow/proseflow/internal/model"
	"github.com/proseflow/proseflow/internal/pipeline"
	"github.com/proseflow/proseflow/internal/worker"
)

var (
	analyzeLevel   string
	analyzeTimeout time.Duration
	noCache        bool
	llmProvider    string
	llmModel       string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a document and stream suggestions",
	Long: `Analyze runs one analysis pass over a document:
- Send the text to the configured language model
- Decode correction proposals from the streamed output
- Anchor each proposal to an exact byte range in the text
- Print suggestions to stdout as NDJSON, one per line, as they resolve

Pass "-" to read the document from stdin. HTML files are reduced to
their visible text before analysis.

Example:
  proseflow analyze draft.txt
  proseflow analyze draft.txt --level spelling
  cat draft.txt | proseflow analyze - --llm-provider ollama --llm-model llama3.1:8b`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeLevel, "level", "full", "analysis level (spelling, full)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force fresh analysis)")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	level := model.AnalysisLevel(analyzeLevel)
	if !level.IsValid() {
		return fmt.Errorf("unknown level %q (supported: spelling, full)", analyzeLevel)
	}

	text, err := readDocument(path)
	if err != nil {
		return err
	}

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Verbose = verbose
	if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	analyzer, err := pipeline.NewAnalyzer(cfg, nil)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s (%d bytes, level %s)\n", path, len(text), level)
	}

	enc := json.NewEncoder(os.Stdout)
	result, err := analyzer.Analyze(ctx, text, level, func(s model.Suggestion) error {
		return enc.Encode(s.ToWire())
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		source := "model"
		if result.CacheHit {
			source = "cache"
		}
		fmt.Fprintf(os.Stderr, "✓ %d suggestions (%s)\n", len(result.Suggestions), source)
	}

	return nil
}

// readDocument loads the document text from a file or, for "-", stdin
func readDocument(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return worker.LoadDocument(path)
}

// configureLLM fills in provider credentials from the environment
func configureLLM(cfg *model.Config, provider, modelName string) error {
	cfg.LLM.Provider = provider
	cfg.LLM.Model = modelName

	switch provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}
