// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package metrics

import (
	"time"

	"github.com/tomtom215/baniai/internal/recommend"
)

// RecommenderObserver exports recommend.Engine events to Prometheus.
type RecommenderObserver struct{}

var _ recommend.Observer = RecommenderObserver{}

// ObserveBuild records a build and refreshes the snapshot gauges.
func (RecommenderObserver) ObserveBuild(duration time.Duration, stats recommend.Stats, err error) {
	RecordRecommenderBuild(duration, err)
	updateFromStats(stats)
}

// ObserveReweight records a reweight pass and refreshes the snapshot gauges.
func (RecommenderObserver) ObserveReweight(duration time.Duration, stats recommend.Stats, err error) {
	RecordRecommenderReweight(duration, err)
	updateFromStats(stats)
}

// ObserveRecommend records a similarity query.
func (RecommenderObserver) ObserveRecommend(duration time.Duration, results int) {
	RecordRecommendation(duration, results)
}

func updateFromStats(stats recommend.Stats) {
	UpdateRecommenderGauges(
		recommenderStateValue(stats.State),
		stats.CorpusSize,
		stats.TextFeatures,
		stats.CategoricalFeatures,
		stats.WeightedRows,
	)
}

func recommenderStateValue(state string) float64 {
	switch state {
	case recommend.StateReady.String():
		return 1
	case recommend.StateUnavailable.String():
		return 2
	default:
		return 0
	}
}
