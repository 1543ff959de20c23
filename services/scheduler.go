package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"activity-rewards-system/utils"
)

// StartSnapshotScheduler recomputes the team leaderboard snapshots on a fixed
// cadence so reads stay off the teams table.
func (s *TeamService) StartSnapshotScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := s.ComputeLeaderboardSnapshots()
			if err != nil {
				utils.Logger.Error("leaderboard_snapshot_failed", zap.Error(err))
				return
			}
			utils.Logger.Info("leaderboard_snapshot_done", zap.Int("teams", n))
		}),
	)
}
