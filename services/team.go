package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"activity-rewards-system/models"
)

// TeamService owns the two mutable shared aggregates: profiles.xp and
// teams.team_xp. Both move only through single-row server-side increments,
// never a read-add-write in application code.
type TeamService struct {
	DB *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{DB: db}
}

// IncrementTeamXP adds delta to the team's shared pool atomically.
func (s *TeamService) IncrementTeamXP(teamID string, delta int64) error {
	return incrementTeamXP(s.DB, teamID, delta)
}

// IncrementProfileXP adds delta to the player's cumulative XP atomically.
func (s *TeamService) IncrementProfileXP(profileID string, delta int64) error {
	return incrementProfileXP(s.DB, profileID, delta)
}

// incrementTeamXP is the single-statement increment shared with the reward
// grant transaction. db may be a transaction handle.
func incrementTeamXP(db *gorm.DB, teamID string, delta int64) error {
	if delta < 0 {
		return ErrNegativeDelta
	}
	res := db.Model(&models.Team{}).
		Where("id = ?", teamID).
		UpdateColumn("team_xp", gorm.Expr("team_xp + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func incrementProfileXP(db *gorm.DB, profileID string, delta int64) error {
	if delta < 0 {
		return ErrNegativeDelta
	}
	res := db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		UpdateColumn("xp", gorm.Expr("xp + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (s *TeamService) GetTeam(teamID string) (*models.Team, error) {
	var team models.Team
	err := s.DB.Where("id = ?", teamID).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Leaderboard reads the latest snapshot rows in rank order.
func (s *TeamService) Leaderboard(limit int) ([]models.TeamLeaderboardSnapshot, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var rows []models.TeamLeaderboardSnapshot
	err := s.DB.Order("rank ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

// ComputeLeaderboardSnapshots re-ranks every team by team_xp and upserts one
// snapshot row per team. Run periodically by the scheduler.
func (s *TeamService) ComputeLeaderboardSnapshots() (int, error) {
	var teams []models.Team
	if err := s.DB.Order("team_xp DESC, name ASC").Find(&teams).Error; err != nil {
		return 0, err
	}

	now := time.Now()
	for i, team := range teams {
		snapshot := models.TeamLeaderboardSnapshot{
			TeamID:     team.ID,
			TeamName:   team.Name,
			Color:      team.Color,
			TeamXP:     team.TeamXP,
			Rank:       i + 1,
			ComputedAt: now,
		}
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"team_name", "color", "team_xp", "rank", "computed_at"}),
		}).Create(&snapshot).Error; err != nil {
			return i, err
		}
	}
	return len(teams), nil
}
