package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"activity-rewards-system/models"
)

// CatalogService reads the activity catalog and profiles. Both are written by
// external collaborators (admin console, sign-up flow); the engine only loads
// them to drive completions.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

func (s *CatalogService) GetActivity(activityID string) (*models.Activity, error) {
	var activity models.Activity
	err := s.DB.Where("id = ?", activityID).First(&activity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *CatalogService) GetProfile(profileID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("id = ?", profileID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListActivities returns catalog entries, optionally filtered by category.
func (s *CatalogService) ListActivities(category string, limit int) ([]models.Activity, error) {
	if limit < 1 || limit > 200 {
		limit = 100
	}
	db := s.DB.Model(&models.Activity{}).Limit(limit).Order("title ASC")
	if category != "" {
		db = db.Where("category = ?", strings.ToLower(strings.TrimSpace(category)))
	}
	var activities []models.Activity
	err := db.Find(&activities).Error
	return activities, err
}
