package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"activity-rewards-system/services"
	"activity-rewards-system/utils"
)

// RewardReconciler sweeps progress rows that completed but never had their
// reward writes commit (crash or partial failure between the progress update
// and the grant transaction) and replays the completion for them. The replay
// goes through the normal idempotent entry point, so a row a device already
// healed is a cheap no-op.
type RewardReconciler struct {
	progress   *services.ProgressService
	completion *services.CompletionService
	interval   time.Duration
	pendingAge time.Duration
	batchSize  int
}

func NewRewardReconciler(progress *services.ProgressService, completion *services.CompletionService, interval, pendingAge time.Duration) *RewardReconciler {
	return &RewardReconciler{
		progress:   progress,
		completion: completion,
		interval:   interval,
		pendingAge: pendingAge,
		batchSize:  100,
	}
}

func (w *RewardReconciler) Start(ctx context.Context) {
	utils.Logger.Info("reward_reconciler_started",
		zap.Duration("interval", w.interval),
		zap.Duration("pending_age", w.pendingAge),
	)
	go w.run(ctx)
}

func (w *RewardReconciler) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.sweep(); err != nil {
				utils.Logger.Error("reward_reconcile_failed", zap.Error(err))
			}
		case <-ctx.Done():
			utils.Logger.Info("reward_reconciler_stopped")
			return
		}
	}
}

func (w *RewardReconciler) sweep() error {
	rows, err := w.progress.PendingRewards(w.pendingAge, w.batchSize)
	if err != nil {
		return err
	}

	for _, row := range rows {
		_, err := w.completion.CompleteActivity(row.ProfileID, row.ActivityID, row.PhotoURL, row.Notes)
		if err != nil {
			// Leave the row for the next sweep; a persistent failure here
			// means the store itself is unhealthy.
			utils.Logger.Warn("reward_regrant_failed",
				zap.String("progress_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		utils.RewardRegrantsTotal.Inc()
		utils.Logger.Info("reward_regranted",
			zap.String("progress_id", row.ID),
			zap.String("profile_id", row.ProfileID),
		)
	}
	return nil
}
