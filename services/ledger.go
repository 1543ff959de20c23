package services

import (
	"gorm.io/gorm"

	"activity-rewards-system/models"
)

// LedgerService appends immutable achievement entries. There is no update or
// delete path anywhere in this service on purpose.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// Append inserts a batch of entries inside one transaction: either every
// entry lands or none do, so a caller can treat any failure as "retry the
// whole completion".
func (s *LedgerService) Append(entries []models.UserAchievement) error {
	if len(entries) == 0 {
		return nil
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entries).Error
	})
}

// TeamFeed returns a page of a team's achievement feed, newest first, with
// the total count for pagination.
func (s *LedgerService) TeamFeed(teamID string, page, size int) ([]models.UserAchievement, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	var total int64
	if err := s.DB.Model(&models.UserAchievement{}).
		Where("team_id = ?", teamID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.UserAchievement
	err := s.DB.Where("team_id = ?", teamID).
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&entries).Error
	return entries, total, err
}
