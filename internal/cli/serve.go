package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proseflow/proseflow/internal/model"
	"github.com/proseflow/proseflow/internal/pipeline"
	"github.com/proseflow/proseflow/internal/server"
	"github.com/proseflow/proseflow/internal/worker"
)

var (
	serveAddr      string
	serveRateLimit float64
	serveRateBurst int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	Long: `Serve exposes analysis over HTTP:
- POST /v1/analyze streams suggestions as NDJSON, one per line
- Repeat requests for unchanged text are served from the result cache
- Clients are rate limited per IP

Example:
  proseflow serve
  proseflow serve --addr :9090 --rate-limit 2 --rate-burst 10
  proseflow serve --llm-provider ollama --llm-model llama3.1:8b`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 1, "requests per second allowed per client")
	serveCmd.Flags().IntVar(&serveRateBurst, "rate-burst", 5, "burst size allowed per client")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")

	// LLM flags
	serveCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	cfg.Server.Addr = serveAddr
	cfg.Server.RateLimit = serveRateLimit
	cfg.Server.RateBurst = serveRateBurst
	cfg.Cache.Enabled = !noCache
	cfg.Verbose = verbose
	if err := configureLLM(cfg, llmProvider, llmModel); err != nil {
		return err
	}

	analyzer, err := pipeline.NewAnalyzer(cfg, nil)
	if err != nil {
		return err
	}

	limiter := worker.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	srv := server.NewServer(analyzer, limiter, nil)

	if err := srv.Run(cfg.Server.Addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
