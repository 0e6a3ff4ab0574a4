package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/recouvro/recouvro/pkg/observability"
)

// StatsCollector periodically refreshes the tracked-recoveries gauge from
// the store.
type StatsCollector struct {
	store   *Store
	metrics *observability.Metrics
	logger  *observability.Logger
	cron    *cron.Cron
}

// NewStatsCollector creates a collector; call Start to begin refreshing.
func NewStatsCollector(store *Store, metrics *observability.Metrics, logger *observability.Logger) *StatsCollector {
	return &StatsCollector{
		store:   store,
		metrics: metrics,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start schedules the refresh at the given interval and runs one refresh
// immediately so the gauge is populated at boot.
func (sc *StatsCollector) Start(interval time.Duration) error {
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := sc.cron.AddFunc(spec, sc.refresh); err != nil {
		return fmt.Errorf("failed to schedule stats refresh: %w", err)
	}
	sc.cron.Start()
	go sc.refresh()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (sc *StatsCollector) Stop(ctx context.Context) error {
	stopped := sc.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (sc *StatsCollector) refresh() {
	count, err := sc.store.Count(context.Background())
	if err != nil {
		sc.logger.WithError(err).Warn("stats refresh failed")
		return
	}
	sc.metrics.RecoveriesTracked.Set(float64(count))
}
