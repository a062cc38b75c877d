package workers

import (
	"context"
	"time"

	"github.com/dealhive/dealhive/domain"
	"github.com/sirupsen/logrus"
)

// heatSyncWorker periodically drains the redis heat buffer and applies the
// aggregated temperature deltas to the database, one UPDATE per deal per
// cycle. The drain is the only path from the buffer to mysql: a vote lives in
// the buffer (where GetByID reads it) until a drain moves it into the stored
// temperature, so it is counted exactly once.
type heatSyncWorker struct {
	dealRepo domain.DealRepository
	cache    domain.DealCache
}

var _ domain.HeatSyncWorker = (*heatSyncWorker)(nil)

func NewHeatSyncWorker(dealRepo domain.DealRepository, cache domain.DealCache) *heatSyncWorker {
	return &heatSyncWorker{
		dealRepo: dealRepo,
		cache:    cache,
	}
}

func (s *heatSyncWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.drain(ctx)
		case <-ctx.Done():
			logrus.Info("shutting down HeatSyncWorker, draining remaining votes...")
			s.drain(context.Background())
			return
		}
	}
}

func (s *heatSyncWorker) drain(ctx context.Context) {
	deltas, err := s.cache.FetchAndResetHeat(ctx)
	if err != nil {
		logrus.Errorf("failed to drain heat buffer: %v", err)
		return
	}

	for dealID, delta := range deltas {
		if delta == 0 {
			continue
		}
		if err := s.dealRepo.AddHeat(ctx, dealID, delta); err != nil {
			logrus.Errorf("failed to flush heat delta %d for deal %d: %v", delta, dealID, err)
			// Put the delta back so the next cycle retries it.
			if _, err := s.cache.IncrHeat(ctx, dealID, delta); err != nil {
				logrus.Errorf("heat delta %d for deal %d lost: %v", delta, dealID, err)
			}
		}
	}
}
