package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"activity-rewards-system/models"
)

// PlayerStats are the aggregates badge thresholds are checked against.
// Always recomputed from activity_progress rows, never from cached counters.
type PlayerStats struct {
	CompletedTotal      int64
	CompletedByCategory map[string]int64
}

// BadgeService evaluates badge thresholds and awards badges. Evaluation is
// re-entrant and side-effect free; awarding is guarded by the unique
// (profile_id, badge_id) index so it is safe under racing completions.
type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// Stats recomputes the player's aggregates from authoritative rows.
func (s *BadgeService) Stats(profileID string) (*PlayerStats, error) {
	stats := &PlayerStats{CompletedByCategory: map[string]int64{}}

	if err := s.DB.Model(&models.ActivityProgress{}).
		Where("profile_id = ? AND completed_at IS NOT NULL", profileID).
		Count(&stats.CompletedTotal).Error; err != nil {
		return nil, err
	}

	type categoryCount struct {
		Category string
		Count    int64
	}
	var rows []categoryCount
	if err := s.DB.Model(&models.ActivityProgress{}).
		Select("activities.category AS category, COUNT(*) AS count").
		Joins("JOIN activities ON activities.id = activity_progress.activity_id").
		Where("activity_progress.profile_id = ? AND activity_progress.completed_at IS NOT NULL", profileID).
		Group("activities.category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.CompletedByCategory[r.Category] = r.Count
	}
	return stats, nil
}

// EvaluateNewBadges returns every badge the player does not yet hold whose
// threshold the current stats meet, in catalog order. It writes nothing:
// calling it twice without an intervening award returns the same result.
func (s *BadgeService) EvaluateNewBadges(profileID string) ([]models.Badge, error) {
	stats, err := s.Stats(profileID)
	if err != nil {
		return nil, err
	}

	var candidates []models.Badge
	if err := s.DB.
		Where("NOT EXISTS (SELECT 1 FROM user_badges ub WHERE ub.badge_id = badges.id AND ub.profile_id = ?)", profileID).
		Order("position ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	var qualified []models.Badge
	for _, b := range candidates {
		if MeetsRequirement(b, stats) {
			qualified = append(qualified, b)
		}
	}
	return qualified, nil
}

// MeetsRequirement checks one badge threshold against recomputed stats.
// Unknown requirement types never qualify.
func MeetsRequirement(b models.Badge, stats *PlayerStats) bool {
	switch b.RequirementType {
	case models.RequirementActivitiesCompleted:
		return stats.CompletedTotal >= b.RequirementValue
	case models.RequirementCategoryCount:
		return stats.CompletedByCategory[b.Category] >= b.RequirementValue
	default:
		return false
	}
}

// AwardBadge inserts the UserBadge row unless one already exists for the
// pair. Losing the insert race is not an error: the pre-existing row comes
// back with alreadyHeld=true and the caller skips its ledger entry.
func (s *BadgeService) AwardBadge(profileID, teamID string, badge models.Badge) (*models.UserBadge, bool, error) {
	ub := models.UserBadge{
		ProfileID: profileID,
		BadgeID:   badge.ID,
		TeamID:    teamID,
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&ub)
	if res.Error != nil {
		return nil, false, res.Error
	}

	if res.RowsAffected == 0 {
		var existing models.UserBadge
		if err := s.DB.Where("profile_id = ? AND badge_id = ?", profileID, badge.ID).
			First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, true, nil
	}
	return &ub, false, nil
}

// HeldBadges returns the player's badges joined with their catalog entries,
// in the order they were earned.
func (s *BadgeService) HeldBadges(profileID string) ([]models.UserBadge, []models.Badge, error) {
	var held []models.UserBadge
	if err := s.DB.Where("profile_id = ?", profileID).
		Order("earned_at ASC").
		Find(&held).Error; err != nil {
		return nil, nil, err
	}
	if len(held) == 0 {
		return held, nil, nil
	}

	ids := make([]string, len(held))
	for i, ub := range held {
		ids[i] = ub.BadgeID
	}
	var badges []models.Badge
	if err := s.DB.Where("id IN ?", ids).Order("position ASC").Find(&badges).Error; err != nil {
		return nil, nil, err
	}
	return held, badges, nil
}

// GetBadge loads one catalog entry.
func (s *BadgeService) GetBadge(badgeID string) (*models.Badge, error) {
	var badge models.Badge
	err := s.DB.Where("id = ?", badgeID).First(&badge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}
