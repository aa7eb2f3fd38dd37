package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/proseflow/proseflow/internal/extract"
	"github.com/proseflow/proseflow/internal/model"
	"github.com/proseflow/proseflow/internal/pipeline"
)

// Analyzer defines the interface for analyzing one document
type Analyzer interface {
	Analyze(ctx context.Context, text string, level model.AnalysisLevel, onSuggestion func(model.Suggestion) error) (*pipeline.Result, error)
}

// AnalyzeResult represents the result of analyzing one document
type AnalyzeResult struct {
	Path        string
	Suggestions []model.Suggestion
	CacheHit    bool
	Error       error
}

// BatchProcessor analyzes multiple files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessFiles analyzes multiple files concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, level model.AnalysisLevel) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool[*AnalyzeResult](b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(func(ctx context.Context) *AnalyzeResult {
			return b.analyzeFile(ctx, path, level)
		})
	}

	return pool.Wait()
}

// analyzeFile loads and analyzes a single document
func (b *BatchProcessor) analyzeFile(ctx context.Context, path string, level model.AnalysisLevel) *AnalyzeResult {
	text, err := LoadDocument(path)
	if err != nil {
		return &AnalyzeResult{Path: path, Error: err}
	}

	res, err := b.analyzer.Analyze(ctx, text, level, nil)
	if err != nil {
		return &AnalyzeResult{Path: path, Error: err}
	}
	return &AnalyzeResult{
		Path:        path,
		Suggestions: res.Suggestions,
		CacheHit:    res.CacheHit,
	}
}

// ProcessList reads file paths from a list file and analyzes them concurrently
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string, level model.AnalysisLevel) ([]*AnalyzeResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessFiles(ctx, paths, level), nil
}

// LoadDocument reads a document and returns its analyzable text. HTML files
// are reduced to their visible text first.
func LoadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err := extract.VisibleText(string(data))
		if err != nil {
			return "", fmt.Errorf("extract text: %w", err)
		}
		return text, nil
	default:
		return string(data), nil
	}
}

// ReadPathsFromFile reads file paths from a list file (one per line)
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
