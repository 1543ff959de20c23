package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is one child-facing identity. A single account can own several
// profiles; the account itself lives in the profile service and is referenced
// by AccountID only.
type Profile struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	AccountID   string `gorm:"index;not null" json:"account_id"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Nickname    string `json:"nickname,omitempty"`
	TeamID      string `gorm:"index;not null" json:"team_id"`

	// Cumulative XP. Mutated only through atomic increments by the
	// completion workflow — never read-modify-write.
	XP int64 `gorm:"default:0" json:"xp"`

	Timestamps
}

// Team is a shared scoring pool. TeamXP receives half of every member's
// completion XP via a single-row atomic increment.
type Team struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Color  string `gorm:"size:16" json:"color"`
	TeamXP int64  `gorm:"default:0" json:"team_xp"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
