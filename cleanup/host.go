package cleanup

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.pilab.hu/idstore/log"
)

// Sweeper runs one cleanup pass.
type Sweeper interface {
	RemoveExpiredGrants(ctx context.Context) Report
}

// Host runs a Sweeper every interval on a single goroutine, so runs never overlap.
type Host struct {
	sweeper  Sweeper
	interval time.Duration
	logger   log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHost requires a positive interval.
func NewHost(sweeper Sweeper, interval time.Duration, logger log.Logger) (*Host, error) {
	if interval <= 0 {
		return nil, errors.New("cleanup interval must be positive")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Host{sweeper: sweeper, interval: interval, logger: logger}, nil
}

// Start launches the loop. It is a no-op when already running.
func (h *Host) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.logger.Debug(ctx, "token cleanup already started")
		return
	}

	ctx, h.cancel = context.WithCancel(ctx)
	h.done = make(chan struct{})

	h.logger.Info(ctx, "starting token cleanup", log.Fields{"interval": h.interval.String()})
	go h.run(ctx, h.done)
}

// Stop cancels the loop and waits for an in-flight run to finish.
func (h *Host) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	h.logger.Info(context.Background(), "token cleanup stopped")
}

func (h *Host) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug(ctx, "token cleanup cancelled")
			return
		case <-ticker.C:
			r := h.sweeper.RemoveExpiredGrants(ctx)
			if r.Skipped {
				h.logger.Debug(ctx, "token cleanup skipped, previous run still in flight")
				continue
			}
			h.logger.Info(ctx, "token cleanup run finished", log.Fields{
				"grants_removed":       r.GrantsRemoved,
				"device_codes_removed": r.DeviceCodesRemoved,
				"failed":               r.GrantsErr != nil || r.DeviceCodesErr != nil,
			})
		}
	}
}
