// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockSource implements CorpusSource and InteractionSource for testing.
type mockSource struct {
	mu              sync.Mutex
	corpus          Corpus
	events          []InteractionEvent
	corpusErr       error
	interactionsErr error
	corpusCalls     int
}

func (m *mockSource) FetchCorpus(_ context.Context, limit int) (Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpusCalls++
	if m.corpusErr != nil {
		return nil, m.corpusErr
	}
	if len(m.corpus) > limit {
		return m.corpus[:limit], nil
	}
	return m.corpus, nil
}

func (m *mockSource) FetchInteractions(_ context.Context, _ int) ([]InteractionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.interactionsErr != nil {
		return nil, m.interactionsErr
	}
	return append([]InteractionEvent(nil), m.events...), nil
}

func (m *mockSource) setEvents(events []InteractionEvent) {
	m.mu.Lock()
	m.events = events
	m.mu.Unlock()
}

func (m *mockSource) setInteractionsErr(err error) {
	m.mu.Lock()
	m.interactionsErr = err
	m.mu.Unlock()
}

// recordingObserver counts observer callbacks.
type recordingObserver struct {
	mu        sync.Mutex
	builds    int
	reweights int
	failures  int
}

func (o *recordingObserver) ObserveBuild(_ time.Duration, _ Stats, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.builds++
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) ObserveReweight(_ time.Duration, _ Stats, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reweights++
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) ObserveRecommend(time.Duration, int) {}

func newTestEngine(t *testing.T, src *mockSource, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := NewEngine(cfg, src, src, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestNewEngine_Validation(t *testing.T) {
	src := &mockSource{}

	tests := []struct {
		name         string
		cfg          Config
		corpus       CorpusSource
		interactions InteractionSource
	}{
		{"invalid config", Config{}, src, src},
		{"nil corpus source", DefaultConfig(), nil, src},
		{"nil interaction source", DefaultConfig(), src, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.cfg, tt.corpus, tt.interactions, zerolog.Nop()); err == nil {
				t.Error("NewEngine() expected error")
			}
		})
	}
}

func TestEngine_UninitializedReturnsEmpty(t *testing.T) {
	e := newTestEngine(t, &mockSource{corpus: fourRecordCorpus()}, nil)

	if e.State() != StateUninitialized {
		t.Errorf("State() = %v, want uninitialized", e.State())
	}
	if got := e.Recommend(1, 3); len(got) != 0 {
		t.Errorf("Recommend() before Initialize = %v, want empty", got)
	}
}

func TestEngine_InitializeReady(t *testing.T) {
	e := newTestEngine(t, &mockSource{corpus: fourRecordCorpus()}, nil)

	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if e.State() != StateReady {
		t.Fatalf("State() = %v, want ready", e.State())
	}

	got := e.Recommend(1, 3)
	if len(got) != 3 {
		t.Fatalf("Recommend(1, 3) returned %d, want 3", len(got))
	}
	for _, rec := range got {
		if rec.ID == 1 {
			t.Error("result contains the queried id")
		}
	}

	stats := e.Stats()
	if stats.CorpusSize != 4 || stats.Builds != 1 || stats.State != "ready" {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestEngine_DefaultAndMaxTopN(t *testing.T) {
	corpus := make(Corpus, 10)
	for i := range corpus {
		corpus[i] = ContentRecord{ID: i + 1, Translation: "word", CategoryA: "Asa", CategoryB: "Nanak"}
	}
	e := newTestEngine(t, &mockSource{corpus: corpus}, func(c *Config) {
		c.MaxTopN = 5
	})
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if got := e.Recommend(1, 0); len(got) != 3 {
		t.Errorf("Recommend(1, 0) returned %d, want default 3", len(got))
	}
	if got := e.Recommend(1, 100); len(got) != 5 {
		t.Errorf("Recommend(1, 100) returned %d, want max 5", len(got))
	}
}

func TestEngine_ClampTopN(t *testing.T) {
	e := newTestEngine(t, &mockSource{}, func(c *Config) {
		c.MaxTopN = 5
	})
	tests := []struct {
		in, want int
	}{
		{-1, 3},
		{0, 3},
		{4, 4},
		{5, 5},
		{100, 5},
	}
	for _, tt := range tests {
		if got := e.ClampTopN(tt.in); got != tt.want {
			t.Errorf("ClampTopN(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEngine_SetObserverWhileServing(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus()}
	e := newTestEngine(t, src, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e.Recommend(1, 3)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			e.SetObserver(&recordingObserver{})
		} else {
			e.SetObserver(nil)
		}
	}
	wg.Wait()

	obs := &recordingObserver{}
	e.SetObserver(obs)
	if err := e.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.builds != 1 {
		t.Errorf("observer builds = %d, want 1", obs.builds)
	}
}

func TestEngine_EmptyCorpusUnavailable(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(t, &mockSource{}, nil)
	e.SetObserver(obs)

	err := e.Initialize(context.Background())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("Initialize() error = %v, want ErrEmptyCorpus", err)
	}
	if e.State() != StateUnavailable {
		t.Errorf("State() = %v, want unavailable", e.State())
	}
	if got := e.Recommend(1, 3); len(got) != 0 {
		t.Errorf("Recommend() = %v, want empty", got)
	}
	if obs.builds != 1 || obs.failures != 1 {
		t.Errorf("observer builds=%d failures=%d, want 1/1", obs.builds, obs.failures)
	}
}

func TestEngine_CorpusLoadFailure(t *testing.T) {
	loadErr := errors.New("connection refused")
	e := newTestEngine(t, &mockSource{corpusErr: loadErr}, nil)

	if err := e.Initialize(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("Initialize() error = %v, want wrapped load error", err)
	}
	if e.State() != StateUnavailable {
		t.Errorf("State() = %v, want unavailable", e.State())
	}
	if e.Stats().LastError == "" {
		t.Error("Stats().LastError is empty")
	}
}

func TestEngine_RebuildFailureKeepsServing(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus()}
	e := newTestEngine(t, src, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	src.mu.Lock()
	src.corpusErr = errors.New("down")
	src.mu.Unlock()

	if err := e.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild() expected error")
	}
	if e.State() != StateReady {
		t.Errorf("State() = %v, want ready", e.State())
	}
	if got := e.Recommend(1, 3); len(got) != 3 {
		t.Errorf("Recommend() after failed rebuild returned %d, want 3", len(got))
	}
}

func TestEngine_InitializeAppliesLikes(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus(), events: likes(2, 5)}
	e := newTestEngine(t, src, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	weights := e.Weights()
	if !approxEqual(weights[1], 2) {
		t.Errorf("weight for id 2 = %f, want 2", weights[1])
	}
	if e.Stats().WeightedRows != 1 {
		t.Errorf("WeightedRows = %d, want 1", e.Stats().WeightedRows)
	}
}

func TestEngine_InitializeToleratesInteractionFailure(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus(), interactionsErr: errors.New("timeout")}
	e := newTestEngine(t, src, nil)

	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if e.State() != StateReady {
		t.Errorf("State() = %v, want ready", e.State())
	}
	for i, w := range e.Weights() {
		if w != 1 {
			t.Errorf("weight[%d] = %f, want 1", i, w)
		}
	}
}

func TestEngine_OnFeedbackNotReady(t *testing.T) {
	e := newTestEngine(t, &mockSource{corpus: fourRecordCorpus()}, nil)

	if err := e.OnFeedback(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("OnFeedback() error = %v, want ErrNotReady", err)
	}
}

func TestEngine_OnFeedbackBaseModeIsIdempotent(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus()}
	e := newTestEngine(t, src, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	base, _ := e.Row(2)

	src.setEvents(likes(2, 5))
	for i := 0; i < 3; i++ {
		if err := e.OnFeedback(context.Background()); err != nil {
			t.Fatalf("OnFeedback() pass %d error = %v", i, err)
		}
	}

	row, ok := e.Row(2)
	if !ok {
		t.Fatal("Row(2) not found")
	}
	for j, v := range base {
		if !approxEqual(row[j], v*2) {
			t.Errorf("column %d = %f, want %f", j, row[j], v*2)
		}
	}
}

func TestEngine_OnFeedbackCumulativeModeCompounds(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus()}
	e := newTestEngine(t, src, func(c *Config) {
		c.ReweightMode = ReweightCumulative
	})
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	base, _ := e.Row(2)

	src.setEvents(likes(2, 5))
	for i := 0; i < 2; i++ {
		if err := e.OnFeedback(context.Background()); err != nil {
			t.Fatalf("OnFeedback() pass %d error = %v", i, err)
		}
	}

	row, _ := e.Row(2)
	for j, v := range base {
		if !approxEqual(row[j], v*4) {
			t.Errorf("column %d = %f, want %f", j, row[j], v*4)
		}
	}
}

func TestEngine_OnFeedbackFailureKeepsMatrix(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus(), events: likes(2, 5)}
	e := newTestEngine(t, src, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	before, _ := e.Row(2)

	src.setInteractionsErr(errors.New("cursor killed"))
	err := e.OnFeedback(context.Background())
	if !errors.Is(err, ErrReweight) {
		t.Fatalf("OnFeedback() error = %v, want ErrReweight", err)
	}

	after, _ := e.Row(2)
	for j := range before {
		if before[j] != after[j] {
			t.Fatalf("matrix changed after failed feedback at column %d", j)
		}
	}
	if e.State() != StateReady {
		t.Errorf("State() = %v, want ready", e.State())
	}
}

func TestEngine_ConcurrentReadsDuringFeedback(t *testing.T) {
	src := &mockSource{corpus: fourRecordCorpus()}
	e := newTestEngine(t, src, nil)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	src.setEvents(likes(3, 2))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := e.Recommend(1, 3); len(got) != 3 {
					t.Errorf("Recommend() returned %d, want 3", len(got))
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if err := e.OnFeedback(context.Background()); err != nil {
			t.Errorf("OnFeedback() error = %v", err)
		}
	}
	wg.Wait()
}

func TestEngine_Contains(t *testing.T) {
	e := newTestEngine(t, &mockSource{corpus: fourRecordCorpus()}, nil)
	if e.Contains(1) {
		t.Error("Contains(1) before build = true")
	}
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !e.Contains(1) || e.Contains(99) {
		t.Error("Contains() mismatch after build")
	}
}
