// Package cleanup removes expired persisted grants and device codes.
package cleanup

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/tracing"
)

const (
	// DefaultBatchSize is the number of records removed per round.
	DefaultBatchSize = 100
	// DefaultInterval is the pause between cleanup runs of a Host.
	DefaultInterval = time.Hour
)

// Recorder receives sweep measurements.
type Recorder interface {
	ObserveSweep(collection string, removed int, elapsed time.Duration, err error)
	ObserveRun(at time.Time)
}

// Report summarizes one run. Errors are reported, never returned.
type Report struct {
	GrantsRemoved      int
	DeviceCodesRemoved int
	GrantsErr          error
	DeviceCodesErr     error
	// Skipped is set when another run was already in flight; nothing was swept.
	Skipped bool
}

// Option configures a TokenCleanupService.
type Option func(*TokenCleanupService)

// WithBatchSize sets how many records one round queries and deletes.
// NewTokenCleanupService rejects values outside 1..docstore.MaxBatchWrites.
func WithBatchSize(n int) Option {
	return func(s *TokenCleanupService) { s.batchSize = n }
}

// WithNotification is told about every removed page after it is deleted.
func WithNotification(n Notification) Option {
	return func(s *TokenCleanupService) { s.notification = n }
}

// WithRecorder sets the sink for sweep metrics.
func WithRecorder(r Recorder) Option {
	return func(s *TokenCleanupService) { s.recorder = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(s *TokenCleanupService) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TokenCleanupService) { s.now = now }
}

// TokenCleanupService deletes expired operational records in batches.
type TokenCleanupService struct {
	store        docstore.Store
	cols         docstore.Collections
	batchSize    int
	notification Notification
	recorder     Recorder
	logger       log.Logger
	now          func() time.Time

	running sync.Mutex
}

// NewTokenCleanupService fails when the batch size is outside 1..docstore.MaxBatchWrites.
func NewTokenCleanupService(store docstore.Store, cols docstore.Collections, opts ...Option) (*TokenCleanupService, error) {
	s := &TokenCleanupService{
		store:     store,
		cols:      cols,
		batchSize: DefaultBatchSize,
		logger:    log.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.batchSize < 1 || s.batchSize > docstore.MaxBatchWrites {
		return nil, fmt.Errorf("cleanup batch size %d: must be between 1 and %d", s.batchSize, docstore.MaxBatchWrites)
	}
	return s, nil
}

// RemoveExpiredGrants sweeps persisted grants, then device codes. A failure
// in one sweep is logged and does not stop the other. Only one run proceeds
// at a time; a call made while another is in flight returns a skipped Report.
func (s *TokenCleanupService) RemoveExpiredGrants(ctx context.Context) Report {
	if !s.running.TryLock() {
		s.logger.Debug(ctx, "token cleanup already running, skipping")
		return Report{Skipped: true}
	}
	defer s.running.Unlock()

	ctx, span := tracing.Tracer().Start(ctx, "cleanup.RemoveExpiredGrants")
	defer span.End()

	var r Report

	r.GrantsRemoved, r.GrantsErr = sweep(ctx, s, s.cols.PersistedGrants, func(ctx context.Context, removed []*entity.PersistedGrant) error {
		if s.notification == nil {
			return nil
		}
		return s.notification.PersistedGrantsRemoved(ctx, removed)
	})
	if r.GrantsErr != nil {
		s.logger.Error(ctx, "exception removing expired grants", r.GrantsErr, log.Fields{"removed": r.GrantsRemoved})
	}

	r.DeviceCodesRemoved, r.DeviceCodesErr = sweep(ctx, s, s.cols.DeviceFlowCodes, func(ctx context.Context, removed []*entity.DeviceFlowCodes) error {
		if s.notification == nil {
			return nil
		}
		return s.notification.DeviceCodesRemoved(ctx, removed)
	})
	if r.DeviceCodesErr != nil {
		s.logger.Error(ctx, "exception removing expired device codes", r.DeviceCodesErr, log.Fields{"removed": r.DeviceCodesRemoved})
	}

	if r.GrantsErr != nil || r.DeviceCodesErr != nil {
		span.SetStatus(codes.Error, "cleanup sweep failed")
	}
	span.SetAttributes(
		attribute.Int("idstore.grants_removed", r.GrantsRemoved),
		attribute.Int("idstore.device_codes_removed", r.DeviceCodesRemoved),
	)
	if s.recorder != nil {
		s.recorder.ObserveRun(s.now())
	}

	return r
}

// sweep deletes pages of records whose expiration is before now until a
// page comes back smaller than the batch size. A panic becomes the sweep's error.
func sweep[E any](ctx context.Context, s *TokenCleanupService, collection string, notify func(context.Context, []*E) error) (removed int, err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sweep %s: panic: %v", collection, p)
		}
		if s.recorder != nil {
			s.recorder.ObserveSweep(collection, removed, time.Since(start), err)
		}
	}()

	now := s.now().UTC()
	found := math.MaxInt

	for found >= s.batchSize {
		docs, err := s.store.Query(ctx, collection, docstore.Query{
			Where: []docstore.Predicate{docstore.LessThan("expiration", now)},
			Limit: s.batchSize,
		})
		if err != nil {
			return removed, fmt.Errorf("query expired %s: %w", collection, err)
		}

		found = len(docs)
		s.logger.Debug(ctx, "expired records found", log.Fields{"collection": collection, "count": found})
		if found == 0 {
			break
		}

		records := make([]*E, 0, found)
		batch := s.store.Batch(collection)
		for _, d := range docs {
			var e E
			if err := d.DataTo(&e); err != nil {
				return removed, err
			}
			records = append(records, &e)
			batch.Delete(d.ID)
		}

		if err := batch.Commit(ctx); err != nil {
			return removed, fmt.Errorf("delete expired %s: %w", collection, err)
		}
		removed += found

		if err := notify(ctx, records); err != nil {
			s.logger.Error(ctx, "error notifying removal of expired records", err, log.Fields{"collection": collection, "count": found})
		}
	}

	return removed, nil
}
