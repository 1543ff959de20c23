package models

import (
	"time"
)

// AchievementSource identifies what granted the XP in a ledger entry.
type AchievementSource string

const (
	SourceMission AchievementSource = "mission"
	SourceBadge   AchievementSource = "badge"
)

// UserAchievement is one append-only ledger entry: who earned what, how much
// XP, for which team. Rows are never updated or deleted; the team activity
// feed reads straight from this table. Player and team data are duplicated at
// write time on purpose, so the feed survives later profile/team changes.
type UserAchievement struct {
	ID        string            `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProfileID string            `gorm:"index;not null" json:"profile_id"`
	TeamID    string            `gorm:"index;not null" json:"team_id"`
	Source    AchievementSource `gorm:"size:16;not null" json:"source"`
	SourceID  string            `gorm:"not null" json:"source_id"` // activity or badge id
	Message   string            `gorm:"type:text;not null" json:"message"`
	XP        int64             `gorm:"not null" json:"xp"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}
