package services

import (
	"context"

	"github.com/robfig/cron/v3"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// StateCacheReconciler periodically rebuilds the per-auction hot keys from the
// read repository, repairing any drift between the cache and the durable
// store. The leadership lease keeps the job on a single instance.
type StateCacheReconciler struct {
	cron  *cron.Cron
	reads AuctionReadRepository
	cache domain.AuctionStateCache
	lease domain.LeadershipLease
	log   logger.Logger
}

func NewStateCacheReconciler(reads AuctionReadRepository, cache domain.AuctionStateCache,
	lease domain.LeadershipLease, log logger.Logger) *StateCacheReconciler {
	return &StateCacheReconciler{
		cron:  cron.New(),
		reads: reads,
		cache: cache,
		lease: lease,
		log:   log,
	}
}

// Start schedules the reconcile job. The schedule uses cron syntax, e.g.
// "@every 1m".
func (r *StateCacheReconciler) Start(ctx context.Context, schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() {
		r.reconcile(ctx)
	}); err != nil {
		return err
	}

	r.log.Info("Starting state cache reconciler", "schedule", schedule)
	r.cron.Start()
	return nil
}

func (r *StateCacheReconciler) Stop() {
	r.log.Info("Stopping state cache reconciler")
	r.cron.Stop()
}

func (r *StateCacheReconciler) reconcile(ctx context.Context) {
	leader, err := r.lease.TryAcquire(ctx)
	if err != nil {
		r.log.Error("Failed to check reconciler leadership", "error", err)
		return
	}
	if !leader {
		return
	}

	summaries, err := r.reads.ListAuctions(ctx)
	if err != nil {
		r.log.Error("Failed to list auctions for reconcile", "error", err)
		return
	}

	for _, summary := range summaries {
		detail, err := r.reads.GetAuction(ctx, summary.ID)
		if err != nil {
			r.log.Error("Failed to load auction for reconcile", "auction_id", summary.ID, "error", err)
			continue
		}

		id := domain.AuctionID(detail.ID)
		if err := r.cache.SetCurrentPrice(ctx, id, detail.CurrentPrice); err != nil {
			r.log.Error("Failed to refresh price cache", "auction_id", detail.ID, "error", err)
			continue
		}
		if err := r.cache.SetActive(ctx, id, detail.IsActive); err != nil {
			r.log.Error("Failed to refresh active cache", "auction_id", detail.ID, "error", err)
		}
	}

	r.log.Debug("State cache reconciled", "auctions", len(summaries))
}
