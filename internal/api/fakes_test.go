// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/baniai/internal/content"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/recommend"
)

type fakeContent struct {
	mu       sync.Mutex
	shabads  map[int]models.Shabad
	likes    []int
	err      error
	queryErr error
	lastLang string
}

func newFakeContent() *fakeContent {
	return &fakeContent{shabads: map[int]models.Shabad{
		1: {ShabadID: 1, Text: "ਸਤਿ ਨਾਮੁ", Translation: "True is the Name", Raag: "Jap", Writer: "Guru Nanak Dev Ji"},
	}}
}

func (f *fakeContent) Shabad(_ context.Context, id int) content.Result[*models.Shabad] {
	if f.err != nil {
		return content.Result[*models.Shabad]{Err: f.err}
	}
	s, ok := f.shabads[id]
	if !ok {
		return content.Result[*models.Shabad]{Err: fmt.Errorf("shabad %d: %w", id, content.ErrNotFound)}
	}
	return content.Result[*models.Shabad]{Value: &s, Source: content.SourceStore}
}

func (f *fakeContent) Ang(_ context.Context, ang int, source string) content.Result[*models.Ang] {
	if f.err != nil {
		return content.Result[*models.Ang]{Err: f.err}
	}
	if source == "" {
		source = models.DefaultSource
	}
	return content.Result[*models.Ang]{
		Value:  &models.Ang{Ang: ang, Source: source, Verses: []models.AngVerse{{LineID: 1, Gurmukhi: "ੴ", PageNo: ang}}},
		Source: content.SourceUpstream,
	}
}

func (f *fakeContent) Random(_ context.Context, _ string) content.Result[*models.Shabad] {
	if f.err != nil {
		return content.Result[*models.Shabad]{Err: f.err}
	}
	s := f.shabads[1]
	return content.Result[*models.Shabad]{Value: &s, Source: content.SourceUpstream}
}

func (f *fakeContent) Like(_ context.Context, id int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	f.likes = append(f.likes, id)
	f.mu.Unlock()
	return fmt.Sprintf("Shabad %d liked", id), nil
}

func (f *fakeContent) Metadata(context.Context) (models.MetadataResponse, bool, error) {
	if f.err != nil {
		return models.MetadataResponse{}, false, f.err
	}
	return models.MetadataResponse{
		Raags:   models.RawJSON(`[{"RaagID":1}]`),
		Writers: models.RawJSON(`[]`),
		Sources: models.RawJSON(`[]`),
	}, true, nil
}

func (f *fakeContent) Query(_ context.Context, text, language string) (models.QueryResponse, error) {
	f.mu.Lock()
	f.lastLang = language
	f.mu.Unlock()
	if f.queryErr != nil {
		return models.QueryResponse{}, f.queryErr
	}
	return models.QueryResponse{
		Intent:   "general",
		Language: "en",
		Tokens:   strings.Fields(text),
		Message:  "Could not understand query",
	}, nil
}

type fakeRecommender struct {
	state recommend.State
	recs  map[int][]recommend.ScoredRecord
	lastN int
}

// fakeMaxTopN mirrors the engine's MaxTopN cap at a size the fixtures exceed.
const fakeMaxTopN = 3

func (f *fakeRecommender) ClampTopN(topN int) int {
	if topN <= 0 {
		return 3
	}
	return min(topN, fakeMaxTopN)
}

func (f *fakeRecommender) RecommendScored(id, topN int) []recommend.ScoredRecord {
	topN = f.ClampTopN(topN)
	f.lastN = topN
	recs := f.recs[id]
	if len(recs) > topN {
		recs = recs[:topN]
	}
	if recs == nil {
		return []recommend.ScoredRecord{}
	}
	return recs
}

func (f *fakeRecommender) Contains(id int) bool {
	_, ok := f.recs[id]
	return ok
}

func (f *fakeRecommender) State() recommend.State { return f.state }

func (f *fakeRecommender) Stats() recommend.Stats {
	return recommend.Stats{State: f.state.String(), CorpusSize: len(f.recs)}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (c fakeCounter) CountByType(context.Context) (map[string]int64, error) {
	return c.counts, c.err
}

var errBoom = errors.New("boom")

type testServer struct {
	content     *fakeContent
	recommender *fakeRecommender
	handler     *Handler
	router      http.Handler
}

func newTestServer(t *testing.T, mutate func(*Deps)) *testServer {
	t.Helper()
	ts := &testServer{
		content: newFakeContent(),
		recommender: &fakeRecommender{
			state: recommend.StateReady,
			recs: map[int][]recommend.ScoredRecord{
				1: {
					{ContentRecord: recommend.ContentRecord{ID: 2, CategoryA: "Asa"}, Score: 0.9},
					{ContentRecord: recommend.ContentRecord{ID: 3}, Score: 0.5},
					{ContentRecord: recommend.ContentRecord{ID: 4}, Score: 0.1},
					{ContentRecord: recommend.ContentRecord{ID: 5}, Score: 0.05},
				},
			},
		},
	}
	deps := Deps{
		Content:      ts.content,
		Recommender:  ts.recommender,
		DB:           fakePinger{},
		Interactions: fakeCounter{counts: map[string]int64{"view": 4, "like": 1}},
		Version:      "test",
	}
	if mutate != nil {
		mutate(&deps)
	}
	h, err := NewHandler(deps)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	ts.handler = h

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	ts.router = NewRouter(h, NewChiMiddleware(cfg), 0).SetupChi()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

// envelope decodes models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (e envelope) decode(t *testing.T, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(e.Data, dst); err != nil {
		t.Fatalf("decode data: %v\n%s", err, e.Data)
	}
}
