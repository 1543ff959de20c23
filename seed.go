package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"activity-rewards-system/models"
	"activity-rewards-system/utils"
)

// seedBadgeCatalog installs the starter badge catalog when the table is
// empty. The admin console owns the catalog afterwards.
func seedBadgeCatalog(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Badge{}).Count(&count).Error; err != nil {
		utils.Logger.Error("badge_seed_check_failed", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	badges := models.SeedBadges
	if err := db.Create(&badges).Error; err != nil {
		utils.Logger.Error("badge_seed_failed", zap.Error(err))
		return
	}
	utils.Logger.Info("badge_catalog_seeded", zap.Int("badges", len(badges)))
}

// seedDemoData creates a couple of teams and activities for local
// development. Guarded by SEED_DEMO_DATA.
func seedDemoData(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Team{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	teams := []models.Team{
		{Name: "Red Foxes", Color: "#d9432f"},
		{Name: "Blue Herons", Color: "#2f6bd9"},
	}
	if err := db.Create(&teams).Error; err != nil {
		utils.Logger.Error("demo_seed_failed", zap.Error(err))
		return
	}

	activities := []models.Activity{
		{Title: "Build a Stick Fort", XP: 20, Category: "nature"},
		{Title: "Skip Stones at the Lake", XP: 10, Category: "water", PhotoRequired: true},
		{Title: "Spot Three Different Birds", XP: 15, Category: "nature"},
		{Title: "Map Your Neighborhood", XP: 25, Category: "adventure"},
	}
	if err := db.Create(&activities).Error; err != nil {
		utils.Logger.Error("demo_seed_failed", zap.Error(err))
		return
	}
	utils.Logger.Info("demo_data_seeded",
		zap.Int("teams", len(teams)),
		zap.Int("activities", len(activities)),
	)
}
