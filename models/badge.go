package models

import (
	"time"
)

// Badge requirement kinds. The requirement value is a threshold the player's
// recomputed aggregate stat must meet or exceed.
const (
	RequirementActivitiesCompleted = "activities_completed_count"
	RequirementCategoryCount       = "category_count"
)

// Badge: static catalog entry (admin-managed, seeded on boot in dev).
// Position preserves catalog insertion order, which is the stable order
// newly qualifying badges are returned in.
type Badge struct {
	ID               string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Code             string `gorm:"uniqueIndex;not null" json:"code"` // e.g. "FIRST_STEPS"
	Name             string `gorm:"not null" json:"name"`
	Description      string `json:"description,omitempty"`
	IconURL          string `gorm:"type:text" json:"icon_url,omitempty"`
	RequirementType  string `gorm:"not null" json:"requirement_type"`
	RequirementValue int64  `gorm:"not null" json:"requirement_value"`

	// Category narrows "category_count" requirements; empty otherwise.
	Category string `json:"category,omitempty"`

	Position  int       `gorm:"uniqueIndex;not null" json:"position"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: awarded instance. The (profile_id, badge_id) unique index is the
// guard that makes concurrent awards of the same badge collapse to one row.
type UserBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProfileID string    `gorm:"uniqueIndex:idx_badge_pair;not null" json:"profile_id"`
	BadgeID   string    `gorm:"uniqueIndex:idx_badge_pair;not null" json:"badge_id"`
	TeamID    string    `gorm:"index;not null" json:"team_id"`
	EarnedAt  time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

// SeedBadges is the starter catalog, created when the badges table is empty.
var SeedBadges = []Badge{
	{
		Code:             "FIRST_STEPS",
		Name:             "First Steps",
		Description:      "Completed your first activity",
		RequirementType:  RequirementActivitiesCompleted,
		RequirementValue: 1,
		Position:         1,
	},
	{
		Code:             "PATHFINDER",
		Name:             "Pathfinder",
		Description:      "Completed 5 activities",
		RequirementType:  RequirementActivitiesCompleted,
		RequirementValue: 5,
		Position:         2,
	},
	{
		Code:             "TRAILBLAZER",
		Name:             "Trailblazer",
		Description:      "Completed 10 activities",
		RequirementType:  RequirementActivitiesCompleted,
		RequirementValue: 10,
		Position:         3,
	},
	{
		Code:             "EXPLORER",
		Name:             "Explorer",
		Description:      "Completed 25 activities",
		RequirementType:  RequirementActivitiesCompleted,
		RequirementValue: 25,
		Position:         4,
	},
	{
		Code:             "NATURE_SCOUT",
		Name:             "Nature Scout",
		Description:      "Completed 5 nature activities",
		RequirementType:  RequirementCategoryCount,
		RequirementValue: 5,
		Category:         "nature",
		Position:         5,
	},
	{
		Code:             "WATER_RAT",
		Name:             "Water Rat",
		Description:      "Completed 5 water activities",
		RequirementType:  RequirementCategoryCount,
		RequirementValue: 5,
		Category:         "water",
		Position:         6,
	},
}
