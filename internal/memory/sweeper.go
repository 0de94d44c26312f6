package memory

import (
	"context"

	"github.com/cloudllm-ai/cloudllm-go/internal/observability"
	"github.com/robfig/cron/v3"
)

// Sweeper drives a Store's background expiry pass on a fixed schedule.
type Sweeper struct {
	store *Store
	cron  *cron.Cron
}

// StartSweeper starts a background sweep of store every second. When
// metrics is non-nil, each tick records the number of entries reaped and
// refreshes the live-key gauge. When logger is non-nil, ticks that reap at
// least one entry are logged. Call Stop to halt it.
func StartSweeper(store *Store, metrics *observability.Metrics, logger *observability.Logger) *Sweeper {
	c := cron.New(cron.WithSeconds())
	ctx := context.Background()
	_, _ = c.AddFunc("@every 1s", func() {
		expired := store.Sweep()
		if metrics != nil {
			if expired > 0 {
				metrics.RecordMemorySweepExpired(expired)
			}
			metrics.SetMemoryStoreSize(store.Len())
		}
		if expired > 0 && logger != nil {
			logger.Info(ctx, "memory sweep reaped expired entries", "expired", expired, "live", store.Len())
		}
	})
	c.Start()
	return &Sweeper{store: store, cron: c}
}

// Stop halts the background sweep. Safe to call once; further sweeps after
// Stop only happen eagerly on read.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
