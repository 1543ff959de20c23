package services

import (
	"errors"
	"time"

	"activity-rewards-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService owns the per-(profile, activity) completion records.
// All race handling leans on the unique (profile_id, activity_id) index:
// concurrent insert-if-absent callers collapse to one row, and the winner's
// row is what everybody gets back.
type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

// GetProgress returns the row for (profileID, activityID), or nil when the
// player never opened the activity. No side effects.
func (s *ProgressService) GetProgress(profileID, activityID string) (*models.ActivityProgress, error) {
	var prog models.ActivityProgress
	err := s.DB.Where("profile_id = ? AND activity_id = ?", profileID, activityID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// EnsureStarted inserts a started row if none exists and returns the row
// either way. Safe to call concurrently for the same pair: the insert is
// conflict-tolerant and the re-read returns whichever caller won.
func (s *ProgressService) EnsureStarted(profileID, activityID string) (*models.ActivityProgress, error) {
	prog := models.ActivityProgress{
		ProfileID:  profileID,
		ActivityID: activityID,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "activity_id"}},
		DoNothing: true,
	}).Create(&prog).Error; err != nil {
		return nil, err
	}

	// Re-read regardless: on conflict the Create leaves prog without the
	// winner's id and timestamps.
	var current models.ActivityProgress
	if err := s.DB.Where("profile_id = ? AND activity_id = ?", profileID, activityID).
		First(&current).Error; err != nil {
		return nil, err
	}
	return &current, nil
}

// MarkCompleted transitions the row to completed exactly once. The update is
// guarded by "completed_at IS NULL", so a retry or a second device finds zero
// affected rows and gets the existing record back with alreadyCompleted=true.
func (s *ProgressService) MarkCompleted(profileID, activityID, notes, photoURL string) (*models.ActivityProgress, bool, error) {
	now := time.Now()
	res := s.DB.Model(&models.ActivityProgress{}).
		Where("profile_id = ? AND activity_id = ? AND completed_at IS NULL", profileID, activityID).
		Updates(map[string]interface{}{
			"completed_at": now,
			"notes":        notes,
			"photo_url":    photoURL,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}

	var current models.ActivityProgress
	if err := s.DB.Where("profile_id = ? AND activity_id = ?", profileID, activityID).
		First(&current).Error; err != nil {
		return nil, false, err
	}
	return &current, res.RowsAffected == 0, nil
}

// EnsureBatch stamps started rows for every profile in one shared session
// (party completions). Returns profileID → progressID for all of them plus
// the subset that had no row before this call. Existing rows are untouched.
func (s *ProgressService) EnsureBatch(profileIDs []string, activityID string) (map[string]string, []string, error) {
	if len(profileIDs) == 0 {
		return map[string]string{}, nil, nil
	}

	var existing []models.ActivityProgress
	if err := s.DB.Where("activity_id = ? AND profile_id IN ?", activityID, profileIDs).
		Find(&existing).Error; err != nil {
		return nil, nil, err
	}
	had := make(map[string]bool, len(existing))
	for _, p := range existing {
		had[p.ProfileID] = true
	}

	var missing []models.ActivityProgress
	for _, id := range profileIDs {
		if !had[id] {
			missing = append(missing, models.ActivityProgress{
				ProfileID:  id,
				ActivityID: activityID,
			})
		}
	}
	if len(missing) > 0 {
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "activity_id"}},
			DoNothing: true,
		}).Create(&missing).Error; err != nil {
			return nil, nil, err
		}
	}

	var all []models.ActivityProgress
	if err := s.DB.Where("activity_id = ? AND profile_id IN ?", activityID, profileIDs).
		Find(&all).Error; err != nil {
		return nil, nil, err
	}

	result := make(map[string]string, len(all))
	for _, p := range all {
		result[p.ProfileID] = p.ID
	}
	var created []string
	for _, id := range profileIDs {
		if !had[id] {
			if _, ok := result[id]; ok {
				created = append(created, id)
			}
		}
	}
	return result, created, nil
}

// PendingRewards lists rows completed before the cutoff whose reward writes
// never committed. Input for the reconciliation sweep.
func (s *ProgressService) PendingRewards(olderThan time.Duration, limit int) ([]models.ActivityProgress, error) {
	cutoff := time.Now().Add(-olderThan)
	var rows []models.ActivityProgress
	err := s.DB.Where("completed_at IS NOT NULL AND rewards_granted_at IS NULL AND completed_at < ?", cutoff).
		Order("completed_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
