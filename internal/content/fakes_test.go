// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package content

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/banidb"
	"github.com/tomtom215/baniai/internal/database"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/recommend"
)

type fakeShabads struct {
	mu        sync.Mutex
	items     map[int]models.Shabad
	getErr    error
	upsertErr error
	upserts   int
}

func newFakeShabads(items ...models.Shabad) *fakeShabads {
	f := &fakeShabads{items: make(map[int]models.Shabad)}
	for _, s := range items {
		f.items[s.ShabadID] = s
	}
	return f
}

func (f *fakeShabads) Get(_ context.Context, id int) (*models.Shabad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("shabad %d: %w", id, database.ErrNotFound)
	}
	return &s, nil
}

func (f *fakeShabads) Upsert(_ context.Context, s *models.Shabad) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.items[s.ShabadID] = *s
	return nil
}

func (f *fakeShabads) Search(_ context.Context, tokens []string, limit int) ([]models.Shabad, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Shabad
	for id := 1; id <= 10000 && len(out) < limit; id++ {
		s, ok := f.items[id]
		if !ok {
			continue
		}
		for _, tok := range tokens {
			if tok == s.Writer {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeShabads) has(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	return ok
}

type fakeAngs struct {
	mu    sync.Mutex
	items map[string]models.Ang
}

func newFakeAngs() *fakeAngs {
	return &fakeAngs{items: make(map[string]models.Ang)}
}

func angKey(ang int, source string) string { return fmt.Sprintf("%d/%s", ang, source) }

func (f *fakeAngs) Get(_ context.Context, ang int, source string) (*models.Ang, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[angKey(ang, source)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAngs) Upsert(_ context.Context, a *models.Ang) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[angKey(a.Ang, a.Source)] = *a
	return nil
}

type fakeMetadata struct {
	mu    sync.Mutex
	items map[string]models.RawJSON
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{items: make(map[string]models.RawJSON)}
}

func (f *fakeMetadata) Get(_ context.Context, kind string) (models.RawJSON, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.items[kind]
	if !ok {
		return nil, database.ErrNotFound
	}
	return d, nil
}

func (f *fakeMetadata) Upsert(_ context.Context, kind string, data models.RawJSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[kind] = data
	return nil
}

type fakeInteractions struct {
	mu        sync.Mutex
	items     []models.Interaction
	insertErr error
}

func (f *fakeInteractions) Insert(_ context.Context, in *models.Interaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	// Mirror the unique event_id index.
	if in.EventID != "" {
		for _, existing := range f.items {
			if existing.EventID == in.EventID {
				return nil
			}
		}
	}
	f.items = append(f.items, *in)
	return nil
}

func (f *fakeInteractions) Latest(_ context.Context) (*models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].ShabadID > 0 {
			in := f.items[i]
			return &in, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeInteractions) all() []models.Interaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Interaction(nil), f.items...)
}

func (f *fakeInteractions) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertErr = err
}

type fakeUpstream struct {
	mu       sync.Mutex
	shabads  map[int]*banidb.Shabad
	angs     map[string]*banidb.Ang
	metadata map[banidb.MetadataKind]banidb.Metadata
	search   *banidb.SearchResult
	random   *banidb.Shabad
	err      error
	calls    map[string]int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		shabads:  make(map[int]*banidb.Shabad),
		angs:     make(map[string]*banidb.Ang),
		metadata: make(map[banidb.MetadataKind]banidb.Metadata),
		calls:    make(map[string]int),
	}
}

func (f *fakeUpstream) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.err
}

func (f *fakeUpstream) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeUpstream) Shabad(_ context.Context, id int) (*banidb.Shabad, error) {
	if err := f.record("shabad"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shabads[id]
	if !ok {
		return nil, banidb.ErrNotFound
	}
	return s, nil
}

func (f *fakeUpstream) Ang(_ context.Context, ang int, source string) (*banidb.Ang, error) {
	if err := f.record("ang"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.angs[angKey(ang, source)]
	if !ok {
		return nil, banidb.ErrNotFound
	}
	return a, nil
}

func (f *fakeUpstream) Random(_ context.Context, _ string) (*banidb.Shabad, error) {
	if err := f.record("random"); err != nil {
		return nil, err
	}
	return f.random, nil
}

func (f *fakeUpstream) Search(_ context.Context, _ string, _ banidb.SearchType) (*banidb.SearchResult, error) {
	if err := f.record("search"); err != nil {
		return nil, err
	}
	if f.search == nil {
		return &banidb.SearchResult{}, nil
	}
	return f.search, nil
}

func (f *fakeUpstream) Metadata(_ context.Context, kind banidb.MetadataKind) (banidb.Metadata, error) {
	if err := f.record("metadata"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.metadata[kind]
	if !ok {
		return nil, banidb.ErrNotFound
	}
	return d, nil
}

type fakeRecommender struct {
	mu         sync.Mutex
	recs       map[int][]recommend.ContentRecord
	rebuilds   int
	rebuildErr error
	lastQuery  int
}

func (f *fakeRecommender) Recommend(id, topN int) []recommend.ContentRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = id
	recs := f.recs[id]
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

func (f *fakeRecommender) Rebuild(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rebuilds++
	return f.rebuildErr
}

type countingEvents struct {
	mu       sync.Mutex
	feedback int
	content  int
}

func (e *countingEvents) NotifyFeedback() {
	e.mu.Lock()
	e.feedback++
	e.mu.Unlock()
}

func (e *countingEvents) NotifyContentAdded() {
	e.mu.Lock()
	e.content++
	e.mu.Unlock()
}

func upstreamShabad(id int, raag, writer string) *banidb.Shabad {
	return &banidb.Shabad{
		ShabadInfo: banidb.ShabadInfo{
			ShabadID: id,
			Raag:     banidb.LocalizedName{English: raag},
			Writer:   banidb.LocalizedName{English: writer},
		},
		Verses: []banidb.Verse{
			{
				VerseID:     id * 10,
				ShabadID:    id,
				Verse:       banidb.VerseText{Unicode: "ਸਤਿ ਨਾਮੁ"},
				Translation: banidb.Translation{En: banidb.EnglishTranslations{BDB: "True is the Name"}},
			},
			{
				VerseID:     id*10 + 1,
				ShabadID:    id,
				Verse:       banidb.VerseText{Gurmukhi: "kriqw purKu"},
				Translation: banidb.Translation{En: banidb.EnglishTranslations{SSK: "Creative being"}},
			},
		},
	}
}

type testEnv struct {
	svc          *Service
	shabads      *fakeShabads
	angs         *fakeAngs
	metadata     *fakeMetadata
	interactions *fakeInteractions
	upstream     *fakeUpstream
	recommender  *fakeRecommender
	events       *countingEvents
}

func newTestEnv(t *testing.T, stored ...models.Shabad) *testEnv {
	t.Helper()
	env := &testEnv{
		shabads:      newFakeShabads(stored...),
		angs:         newFakeAngs(),
		metadata:     newFakeMetadata(),
		interactions: &fakeInteractions{},
		upstream:     newFakeUpstream(),
		recommender:  &fakeRecommender{recs: make(map[int][]recommend.ContentRecord)},
		events:       &countingEvents{},
	}
	svc, err := NewService(DefaultConfig(), Deps{
		Shabads:          env.shabads,
		Angs:             env.angs,
		Metadata:         env.metadata,
		InteractionStore: env.interactions,
		Upstream:         env.upstream,
		Recommender:      env.recommender,
		Events:           env.events,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	env.svc = svc
	return env
}

var errBoom = errors.New("boom")
