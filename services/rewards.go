package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"activity-rewards-system/models"
)

// RewardService commits the reward side of a completion: the player XP
// increment, the team XP increment, and the "mission" ledger entry, all in
// one transaction keyed on the rewards-granted stamp.
type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// GrantCompletion applies the reward writes for one completed progress row.
// The guarded stamp update is the linearization point: whichever caller flips
// rewards_granted_at from NULL performs the increments and the ledger insert;
// everyone else sees zero affected rows and no-ops with granted=false. That
// makes XP exactly-once under concurrent devices and under retries after a
// partial failure, because a failed transaction rolls the stamp back too.
func (s *RewardService) GrantCompletion(progressID string, profile *models.Profile, activity *models.Activity, xp, teamXP int64) (bool, error) {
	if xp < 0 || teamXP < 0 {
		return false, ErrNegativeDelta
	}

	granted := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ActivityProgress{}).
			Where("id = ? AND completed_at IS NOT NULL AND rewards_granted_at IS NULL", progressID).
			UpdateColumn("rewards_granted_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // another device already granted
		}

		if err := incrementProfileXP(tx, profile.ID, xp); err != nil {
			return err
		}
		if err := incrementTeamXP(tx, profile.TeamID, teamXP); err != nil {
			return err
		}

		entry := models.UserAchievement{
			ProfileID: profile.ID,
			TeamID:    profile.TeamID,
			Source:    models.SourceMission,
			SourceID:  activity.ID,
			Message:   fmt.Sprintf("%s completed \"%s\"", profile.DisplayName, activity.Title),
			XP:        xp,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}
