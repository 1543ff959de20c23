package models

import (
	"time"
)

// TeamLeaderboardSnapshot is a periodically recomputed ranking row, one per
// team, upserted by the snapshot job so leaderboard reads never scan teams.
type TeamLeaderboardSnapshot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TeamID     string    `gorm:"uniqueIndex;not null" json:"team_id"`
	TeamName   string    `gorm:"not null" json:"team_name"`
	Color      string    `json:"color"`
	TeamXP     int64     `json:"team_xp"`
	Rank       int       `gorm:"index" json:"rank"`
	ComputedAt time.Time `json:"computed_at"`
}
