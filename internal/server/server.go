// Package server exposes analysis over HTTP. Suggestions are streamed to the
// client as NDJSON, one object per line, flushed as each one resolves.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proseflow/proseflow/internal/model"
	"github.com/proseflow/proseflow/internal/pipeline"
	"github.com/proseflow/proseflow/internal/worker"
)

// CacheHeader reports whether the response was served from the result cache
const CacheHeader = "X-Proseflow-Cache"

// AnalyzeRequest is the request body for POST /v1/analyze
type AnalyzeRequest struct {
	Text  string              `json:"text"`
	Level model.AnalysisLevel `json:"level"`
}

// Server wires the analyzer and rate limiter into an HTTP API
type Server struct {
	router   *gin.Engine
	analyzer *pipeline.Analyzer
	limiter  *worker.Limiter
	logger   *slog.Logger
}

// NewServer creates a server around the given analyzer and limiter
func NewServer(analyzer *pipeline.Analyzer, limiter *worker.Limiter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:   router,
		analyzer: analyzer,
		limiter:  limiter,
		logger:   logger,
	}

	router.GET("/healthz", s.handleHealth)
	router.POST("/v1/analyze", s.handleAnalyze)

	return s
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on the given address and blocks
func (s *Server) Run(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze streams suggestions for the submitted text. Status codes are
// decided before the first byte of the body: after that, a failure can only
// truncate the stream.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
		return
	}
	if req.Level == "" {
		req.Level = model.LevelFull
	}
	if !req.Level.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level must be \"spelling\" or \"full\""})
		return
	}

	if s.limiter != nil && !s.limiter.Allow(c.ClientIP()) {
		s.logger.Warn("rate limit exceeded", "client", c.ClientIP())
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	cacheHit := s.analyzer.HasCached(req.Text, req.Level)
	if !cacheHit && s.analyzer.Provider() == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no analysis provider configured"})
		return
	}

	header := "miss"
	if cacheHit {
		header = "hit"
	}
	c.Header(CacheHeader, header)
	c.Header("Content-Type", "application/x-ndjson")

	// The status line goes out with the first suggestion. Holding it back
	// until then lets a stream that dies before producing anything still
	// fail with a proper 500.
	enc := json.NewEncoder(c.Writer)
	wrote := false
	_, err := s.analyzer.Analyze(c.Request.Context(), req.Text, req.Level, func(sug model.Suggestion) error {
		if err := enc.Encode(sug.ToWire()); err != nil {
			return err
		}
		c.Writer.Flush()
		wrote = true
		return nil
	})
	if err != nil {
		if !wrote {
			s.logger.Error("analysis failed", "error", err)
			c.Header("Content-Type", "application/json; charset=utf-8")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
			return
		}
		// Mid-stream failure: the client gets a truncated body
		s.logger.Error("analysis stream failed", "error", err)
		return
	}

	if !wrote {
		// Clean pass with nothing to suggest: empty NDJSON body
		c.Status(http.StatusOK)
		c.Writer.Flush()
	}
}
