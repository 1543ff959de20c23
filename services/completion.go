package services

import (
	"fmt"

	"go.uber.org/zap"

	"activity-rewards-system/models"
	"activity-rewards-system/utils"
)

// TeamXPDivisor: the team pool receives floor(xp / TeamXPDivisor) of every
// completion's XP.
const TeamXPDivisor = 2

// Catalog loads activity and profile records.
type Catalog interface {
	GetActivity(activityID string) (*models.Activity, error)
	GetProfile(profileID string) (*models.Profile, error)
}

// ProgressAccessor is the completion-state store.
type ProgressAccessor interface {
	EnsureStarted(profileID, activityID string) (*models.ActivityProgress, error)
	MarkCompleted(profileID, activityID, notes, photoURL string) (*models.ActivityProgress, bool, error)
}

// RewardGranter commits the XP/team/ledger writes for a completed row.
type RewardGranter interface {
	GrantCompletion(progressID string, profile *models.Profile, activity *models.Activity, xp, teamXP int64) (bool, error)
}

// BadgeEvaluator finds and awards newly qualifying badges.
type BadgeEvaluator interface {
	EvaluateNewBadges(profileID string) ([]models.Badge, error)
	AwardBadge(profileID, teamID string, badge models.Badge) (*models.UserBadge, bool, error)
}

// LedgerAppender records achievement feed entries.
type LedgerAppender interface {
	Append(entries []models.UserAchievement) error
}

// CompletionSummary is what the UI gets back from a completion call.
type CompletionSummary struct {
	Success      bool           `json:"success"`
	XPGained     int64          `json:"xp_gained"`
	TeamXPGained int64          `json:"team_xp_gained"`
	NewBadges    []models.Badge `json:"new_badges"`
}

// CompletionService sequences one activity completion: progress transition,
// XP and team-XP grant, badge evaluation, ledger entries. The entry point is
// idempotent end to end, so double-taps, second devices, and retries after a
// partial failure all converge on the same final state.
type CompletionService struct {
	Catalog  Catalog
	Progress ProgressAccessor
	Rewards  RewardGranter
	Badges   BadgeEvaluator
	Ledger   LedgerAppender
}

func NewCompletionService(catalog Catalog, progress ProgressAccessor, rewards RewardGranter, badges BadgeEvaluator, ledger LedgerAppender) *CompletionService {
	return &CompletionService{
		Catalog:  catalog,
		Progress: progress,
		Rewards:  rewards,
		Badges:   badges,
		Ledger:   ledger,
	}
}

// CompleteActivity runs the full workflow for (profileID, activityID).
//
// Validation failures and unknown ids mutate nothing. Once the progress row
// is durably completed, every later step is re-attemptable: the XP grant is
// guarded by the rewards stamp, badge awards by their unique index. A repeat
// call on a fully rewarded completion returns success with XPGained = 0.
func (s *CompletionService) CompleteActivity(profileID, activityID, photoURL, notes string) (*CompletionSummary, error) {
	activity, err := s.Catalog.GetActivity(activityID)
	if err != nil {
		return nil, err
	}
	if activity.PhotoRequired && photoURL == "" {
		return nil, ErrPhotoRequired
	}
	profile, err := s.Catalog.GetProfile(profileID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Progress.EnsureStarted(profileID, activityID); err != nil {
		return nil, err
	}
	progress, alreadyCompleted, err := s.Progress.MarkCompleted(profileID, activityID, notes, photoURL)
	if err != nil {
		return nil, err
	}
	if alreadyCompleted && !progress.RewardsPending() {
		// Absorbing state, nothing left to grant. Still evaluate badges
		// below so a retry after a badge-step failure can heal.
		utils.Logger.Debug("completion_replayed",
			zap.String("profile_id", profileID),
			zap.String("activity_id", activityID),
		)
	}

	xp := activity.XP
	teamXP := xp / TeamXPDivisor

	granted, err := s.Rewards.GrantCompletion(progress.ID, profile, activity, xp, teamXP)
	if err != nil {
		// The progress row is completed; only the reward writes failed.
		return nil, &PartialRewardError{ProgressID: progress.ID, Err: err}
	}
	if !granted {
		xp, teamXP = 0, 0
	} else {
		utils.CompletionsTotal.Inc()
		utils.Logger.Info("activity_completed",
			zap.String("profile_id", profileID),
			zap.String("activity_id", activityID),
			zap.Int64("xp", xp),
			zap.Int64("team_xp", teamXP),
		)
	}

	newBadges, err := s.awardNewBadges(profile)
	if err != nil {
		return nil, &PartialRewardError{ProgressID: progress.ID, Err: err}
	}

	return &CompletionSummary{
		Success:      true,
		XPGained:     xp,
		TeamXPGained: teamXP,
		NewBadges:    newBadges,
	}, nil
}

// awardNewBadges awards every newly qualifying badge and writes one "badge"
// ledger entry per award the insert actually won. Badges that lost the race
// to a concurrent completion are excluded from the returned slice.
func (s *CompletionService) awardNewBadges(profile *models.Profile) ([]models.Badge, error) {
	qualified, err := s.Badges.EvaluateNewBadges(profile.ID)
	if err != nil {
		return nil, err
	}

	newBadges := []models.Badge{}
	for _, badge := range qualified {
		_, alreadyHeld, err := s.Badges.AwardBadge(profile.ID, profile.TeamID, badge)
		if err != nil {
			return nil, err
		}
		if alreadyHeld {
			continue
		}

		entry := models.UserAchievement{
			ProfileID: profile.ID,
			TeamID:    profile.TeamID,
			Source:    models.SourceBadge,
			SourceID:  badge.ID,
			Message:   fmt.Sprintf("%s earned the %s badge", profile.DisplayName, badge.Name),
			XP:        0,
		}
		if err := s.Ledger.Append([]models.UserAchievement{entry}); err != nil {
			return nil, err
		}

		newBadges = append(newBadges, badge)
		utils.BadgesAwardedTotal.Inc()
		utils.Logger.Info("badge_awarded",
			zap.String("profile_id", profile.ID),
			zap.String("badge_code", badge.Code),
		)
	}
	return newBadges, nil
}
