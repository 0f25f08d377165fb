// Bani AI - Scripture Content and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baniai

package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/baniai/internal/logging"
	"github.com/tomtom215/baniai/internal/metrics"
	"github.com/tomtom215/baniai/internal/models"
	"github.com/tomtom215/baniai/internal/validation"
	"github.com/tomtom215/baniai/internal/wal"
)

// InteractionLogger appends usage events to the interaction log.
type InteractionLogger interface {
	Log(ctx context.Context, in *models.Interaction) error
}

// DirectLogger inserts events straight into the store.
type DirectLogger struct {
	store InteractionStore
}

// NewDirectLogger creates a logger over store.
func NewDirectLogger(store InteractionStore) *DirectLogger {
	return &DirectLogger{store: store}
}

// Log validates and inserts in.
func (l *DirectLogger) Log(ctx context.Context, in *models.Interaction) error {
	prepareInteraction(in)
	if verr := validation.ValidateStruct(in); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, verr)
	}
	err := l.store.Insert(ctx, in)
	metrics.RecordInteraction(in.Type, err)
	return err
}

// walWriter is the part of wal.BadgerWAL used by WALLogger.
type walWriter interface {
	Write(ctx context.Context, event interface{}) (string, error)
	Confirm(ctx context.Context, entryID string) error
	UpdateAttempt(ctx context.Context, entryID string, lastError string) error
	TryClaimEntry(entryID string) bool
	ReleaseEntry(entryID string)
}

var _ walWriter = (*wal.BadgerWAL)(nil)

// WALLogger writes each event to the write-ahead log before inserting it.
// A failed insert leaves the entry pending for the retry loop, so Log only
// fails when neither the log nor the store accepted the event.
//
// WALLogger is also the wal.Publisher used by the retry loop. A like that
// reaches the store only through the retry loop signals events again, since
// the feedback sent when it was first logged saw no stored like.
type WALLogger struct {
	wal    walWriter
	store  InteractionStore
	events RecommenderEvents
	logger zerolog.Logger
}

var _ wal.Publisher = (*WALLogger)(nil)

// NewWALLogger creates a logger writing through w into store. events may be
// nil.
func NewWALLogger(w *wal.BadgerWAL, store InteractionStore, events RecommenderEvents, logger zerolog.Logger) *WALLogger {
	return newWALLogger(w, store, events, logger)
}

func newWALLogger(w walWriter, store InteractionStore, events RecommenderEvents, logger zerolog.Logger) *WALLogger {
	if events == nil {
		events = nopEvents{}
	}
	return &WALLogger{
		wal:    w,
		store:  store,
		events: events,
		logger: logger.With().Str("component", "interaction-wal").Logger(),
	}
}

// Log persists in to the write-ahead log and then to the store.
func (l *WALLogger) Log(ctx context.Context, in *models.Interaction) error {
	prepareInteraction(in)
	if in.EventID == "" {
		in.EventID = uuid.New().String()
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, verr)
	}

	entryID, err := l.wal.Write(ctx, in)
	if err != nil {
		l.logger.Warn().Err(err).Str("event_id", in.EventID).Msg("WAL write failed, inserting directly")
		err = l.store.Insert(ctx, in)
		metrics.RecordInteraction(in.Type, err)
		return err
	}

	// The retry loop may already own the entry; it will insert it.
	if !l.wal.TryClaimEntry(entryID) {
		metrics.RecordInteraction(in.Type, nil)
		return nil
	}
	defer l.wal.ReleaseEntry(entryID)

	if err := l.store.Insert(ctx, in); err != nil {
		l.logger.Warn().
			Str("event_id", in.EventID).
			Str("error", logging.SanitizeError(err)).
			Msg("Interaction insert failed, left in WAL for retry")
		if uerr := l.wal.UpdateAttempt(ctx, entryID, logging.SanitizeError(err)); uerr != nil {
			l.logger.Warn().Err(uerr).Str("entry_id", entryID).Msg("Failed to record WAL attempt")
		}
		metrics.RecordInteraction(in.Type, nil)
		return nil
	}

	if err := l.wal.Confirm(ctx, entryID); err != nil && !errors.Is(err, wal.ErrEntryNotFound) {
		l.logger.Warn().Err(err).Str("entry_id", entryID).Msg("WAL confirm failed")
	}
	metrics.RecordInteraction(in.Type, nil)
	return nil
}

// PublishEntry inserts the interaction carried by a pending WAL entry.
// Inserts are idempotent on event_id.
func (l *WALLogger) PublishEntry(ctx context.Context, entry *wal.Entry) error {
	var in models.Interaction
	if err := json.Unmarshal(entry.Payload, &in); err != nil {
		return fmt.Errorf("decode interaction %s: %w", entry.ID, err)
	}
	if err := l.store.Insert(ctx, &in); err != nil {
		return err
	}
	if in.Type == models.InteractionLike {
		l.events.NotifyFeedback()
	}
	return nil
}

func prepareInteraction(in *models.Interaction) {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}
}
