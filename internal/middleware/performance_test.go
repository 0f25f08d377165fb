// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNewPerformanceMonitor_Defaults(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(0, 0)
	if pm.maxSamples != 1000 {
		t.Errorf("maxSamples = %d, want 1000", pm.maxSamples)
	}
	if pm.slow != DefaultSlowRequestThreshold {
		t.Errorf("slow = %v, want %v", pm.slow, DefaultSlowRequestThreshold)
	}
}

func TestPerformanceMonitor_SlidingWindow(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, time.Second)
	for i := int64(1); i <= 5; i++ {
		pm.Record(RequestSample{Route: "/r", Method: "GET", DurationMS: i, StatusCode: 200})
	}

	stats := pm.Stats()
	if len(stats) != 1 {
		t.Fatalf("len(stats) = %d, want 1", len(stats))
	}
	s := stats[0]
	if s.RequestCount != 3 || s.MinMS != 3 || s.MaxMS != 5 {
		t.Errorf("stats = %+v, want the 3 newest samples", s)
	}
}

func TestPerformanceMonitor_Stats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, time.Second)
	for i := int64(1); i <= 10; i++ {
		pm.Record(RequestSample{Route: "/shabad/{id}", Method: "GET", DurationMS: i * 10, StatusCode: 200})
	}
	pm.Record(RequestSample{Route: "/query", Method: "POST", DurationMS: 7, StatusCode: 502})

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}

	busiest := stats[0]
	if busiest.Route != "GET /shabad/{id}" {
		t.Errorf("busiest route = %q", busiest.Route)
	}
	if busiest.AvgMS != 55 || busiest.P50MS != 50 || busiest.P95MS != 90 || busiest.P99MS != 90 {
		t.Errorf("shabad stats = %+v", busiest)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("query ErrorCount = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, time.Hour)
	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/ang/{ang}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/ang/1", "/ang/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	stats := pm.Stats()
	if len(stats) != 1 || stats[0].Route != "GET /ang/{ang}" || stats[0].RequestCount != 2 {
		t.Errorf("stats = %+v, want both requests under the route pattern", stats)
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		sorted []int64
		p      float64
		want   int64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []int64{7}, 0.99, 7},
		{"median", []int64{1, 2, 3, 4, 5}, 0.5, 3},
		{"p95 of ten", []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.95, 9},
		{"max", []int64{1, 2, 3}, 1.0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("percentile(%v, %v) = %d, want %d", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestPerformanceMonitor_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(50, time.Second)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				pm.Record(RequestSample{Route: "/r", Method: "GET", DurationMS: int64(j)})
				_ = pm.Stats()
			}
		}()
	}
	wg.Wait()

	if n := pm.Stats()[0].RequestCount; n != 50 {
		t.Errorf("RequestCount = %d, want window size 50", n)
	}
}
