package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/proseflow/proseflow/internal/cache"
	"github.com/proseflow/proseflow/internal/llm"
	"github.com/proseflow/proseflow/internal/model"
)

// fakeProvider replays a fixed script of chunks
type fakeProvider struct {
	chunks []string
	err    error
	calls  int
}

func (f *fakeProvider) Name() string                        { return "fake" }
func (f *fakeProvider) IsAvailable(context.Context) bool    { return true }
func (f *fakeProvider) Stream(ctx context.Context, req llm.ProposalRequest, onChunk func(string) error) error {
	f.calls++
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return f.err
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = true
	return cfg
}

func TestAnalyzer_ResolvesStreamedCandidates(t *testing.T) {
	text := "The the cat sat on teh mat."
	provider := &fakeProvider{chunks: []string{
		`{"type":"grammar","originalText":"The the","sugge`,
		`stedText":"The","explanation":"Repeated word."}` + "\n",
		`{"type":"spelling","originalText":"teh","suggestedText":"the"}`,
	}}

	a := NewAnalyzerWith(provider, nil, testConfig(), nil)

	var streamed []model.Suggestion
	res, err := a.Analyze(context.Background(), text, model.LevelFull, func(s model.Suggestion) error {
		streamed = append(streamed, s)
		return nil
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.CacheHit {
		t.Error("first pass must not be a cache hit")
	}
	if len(res.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(res.Suggestions))
	}
	if len(streamed) != 2 {
		t.Fatalf("expected 2 callback deliveries, got %d", len(streamed))
	}

	first := res.Suggestions[0]
	if first.Start != 0 || first.End != 7 || first.Kind != model.KindGrammar {
		t.Errorf("unexpected first suggestion: %+v", first)
	}
	if first.ID == "" {
		t.Error("suggestions must carry generated IDs")
	}
	if first.Priority != model.KindGrammar.Priority() {
		t.Errorf("priority not populated: %+v", first)
	}

	second := res.Suggestions[1]
	if text[second.Start:second.End] != "teh" {
		t.Errorf("second suggestion misanchored: %+v", second)
	}
}

func TestAnalyzer_DropsUnresolvableCandidates(t *testing.T) {
	provider := &fakeProvider{chunks: []string{
		`{"type":"spelling","originalText":"zzz","suggestedText":"z"}`,
		`{"type":"spelling","originalText":"teh","suggestedText":"the"}`,
	}}
	a := NewAnalyzerWith(provider, nil, testConfig(), nil)

	res, err := a.Analyze(context.Background(), "teh cat", model.LevelSpelling, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0].OriginalLiteral != "teh" {
		t.Errorf("expected only the anchorable candidate, got %+v", res.Suggestions)
	}
}

func TestAnalyzer_CacheHitReplaysWithoutProvider(t *testing.T) {
	text := "teh cat"
	provider := &fakeProvider{chunks: []string{
		`{"type":"spelling","originalText":"teh","suggestedText":"the"}`,
	}}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	a := NewAnalyzerWith(provider, c, testConfig(), nil)

	first, err := a.Analyze(context.Background(), text, model.LevelSpelling, nil)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	var replayed []model.Suggestion
	second, err := a.Analyze(context.Background(), text, model.LevelSpelling, func(s model.Suggestion) error {
		replayed = append(replayed, s)
		return nil
	})
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if !second.CacheHit {
		t.Error("expected second pass to hit the cache")
	}
	if provider.calls != 1 {
		t.Errorf("provider must not be called on a hit, got %d calls", provider.calls)
	}
	if len(replayed) != 1 || replayed[0] != first.Suggestions[0] {
		t.Errorf("expected verbatim replay, got %+v", replayed)
	}
}

func TestAnalyzer_StreamFailureNotCached(t *testing.T) {
	text := "teh cat"
	provider := &fakeProvider{
		chunks: []string{`{"type":"spelling","originalText":"teh","suggestedText":"the"}`},
		err:    errors.New("connection reset"),
	}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	a := NewAnalyzerWith(provider, c, testConfig(), nil)

	res, err := a.Analyze(context.Background(), text, model.LevelSpelling, nil)
	if err == nil {
		t.Fatal("expected stream error to surface")
	}
	if len(res.Suggestions) != 1 {
		t.Errorf("suggestions resolved before the failure must be delivered, got %d", len(res.Suggestions))
	}

	if _, found := c.Get(cache.Key(text, model.LevelSpelling)); found {
		t.Error("truncated result must not be cached")
	}
}

func TestAnalyzer_NoProvider(t *testing.T) {
	a := NewAnalyzerWith(nil, nil, testConfig(), nil)
	if _, err := a.Analyze(context.Background(), "text", model.LevelFull, nil); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestAnalyzer_EmptyTextRejected(t *testing.T) {
	a := NewAnalyzerWith(&fakeProvider{}, nil, testConfig(), nil)
	if _, err := a.Analyze(context.Background(), "", model.LevelFull, nil); err == nil {
		t.Fatal("expected empty text to be rejected")
	}
}

func TestAnalyzer_CallbackErrorAborts(t *testing.T) {
	provider := &fakeProvider{chunks: []string{
		`{"type":"spelling","originalText":"teh","suggestedText":"the"}`,
		`{"type":"spelling","originalText":"cat","suggestedText":"Cat"}`,
	}}
	a := NewAnalyzerWith(provider, nil, testConfig(), nil)

	stop := errors.New("client went away")
	calls := 0
	_, err := a.Analyze(context.Background(), "teh cat", model.LevelSpelling, func(model.Suggestion) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error to propagate, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected abort after first delivery, got %d", calls)
	}
}
