package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Activity is a catalog mission. Managed by the admin console; immutable from
// the engine's point of view.
type Activity struct {
	ID            string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title         string `gorm:"not null" json:"title"`
	Slug          string `gorm:"uniqueIndex;not null" json:"slug"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	XP            int64  `gorm:"not null" json:"xp"`
	PhotoRequired bool   `gorm:"default:false" json:"photo_required"`
	Category      string `gorm:"index;not null" json:"category"`

	Timestamps
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.Slug == "" {
		a.Slug = slug.Make(a.Title)
	}
	return nil
}

// ProgressState is the derived lifecycle state of an ActivityProgress row.
// "not_started" is the absence of a row; a stored row is "started" until
// CompletedAt is set, after which the state is absorbing.
type ProgressState string

const (
	ProgressNotStarted ProgressState = "not_started"
	ProgressStarted    ProgressState = "started"
	ProgressCompleted  ProgressState = "completed"
)

// ActivityProgress is the unique record for a (profile, activity) pair.
// The (profile_id, activity_id) unique index is what makes concurrent
// insert-if-absent calls collapse to a single logical row.
type ActivityProgress struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProfileID  string `gorm:"uniqueIndex:idx_progress_pair;not null" json:"profile_id"`
	ActivityID string `gorm:"uniqueIndex:idx_progress_pair;not null" json:"activity_id"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Set once the XP / team-XP / ledger writes for this completion have
	// committed. A completed row without this stamp is the
	// "rewards pending" sub-state picked up by retries and the
	// reconciliation sweep.
	RewardsGrantedAt *time.Time `json:"rewards_granted_at,omitempty"`

	Notes    string `gorm:"type:text" json:"notes,omitempty"`
	PhotoURL string `gorm:"type:text" json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ActivityProgress) TableName() string {
	return "activity_progress"
}

// State derives the lifecycle state. Call on a nil receiver for "no row".
func (p *ActivityProgress) State() ProgressState {
	if p == nil {
		return ProgressNotStarted
	}
	if p.CompletedAt == nil {
		return ProgressStarted
	}
	return ProgressCompleted
}

// RewardsPending reports the completed-but-not-yet-rewarded sub-state.
func (p *ActivityProgress) RewardsPending() bool {
	return p != nil && p.CompletedAt != nil && p.RewardsGrantedAt == nil
}
