package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-rewards-system/models"
)

// fakeStore is an in-memory stand-in for the gorm-backed services. It keeps
// the same guards the store enforces with unique indexes and guarded updates:
// one progress row per pair, one grant per completion, one badge per pair.
type fakeStore struct {
	activities map[string]*models.Activity
	profiles   map[string]*models.Profile

	progress map[string]*models.ActivityProgress // "profile/activity"
	nextID   int

	profileXP map[string]int64
	teamXP    map[string]int64

	ledger  []models.UserAchievement
	catalog []models.Badge
	held    map[string]map[string]bool // profileID -> badgeID

	failGrant      bool
	failBadgeAward bool
	stealBadges    bool // simulate a concurrent device winning every award
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		activities: map[string]*models.Activity{},
		profiles:   map[string]*models.Profile{},
		progress:   map[string]*models.ActivityProgress{},
		profileXP:  map[string]int64{},
		teamXP:     map[string]int64{},
		held:       map[string]map[string]bool{},
	}
}

func pairKey(profileID, activityID string) string {
	return profileID + "/" + activityID
}

func (f *fakeStore) GetActivity(id string) (*models.Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, ErrActivityNotFound
	}
	return a, nil
}

func (f *fakeStore) GetProfile(id string) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStore) EnsureStarted(profileID, activityID string) (*models.ActivityProgress, error) {
	key := pairKey(profileID, activityID)
	if p, ok := f.progress[key]; ok {
		return p, nil
	}
	f.nextID++
	p := &models.ActivityProgress{
		ID:         fmt.Sprintf("prog-%d", f.nextID),
		ProfileID:  profileID,
		ActivityID: activityID,
	}
	f.progress[key] = p
	return p, nil
}

func (f *fakeStore) MarkCompleted(profileID, activityID, notes, photoURL string) (*models.ActivityProgress, bool, error) {
	p, ok := f.progress[pairKey(profileID, activityID)]
	if !ok {
		return nil, false, errors.New("no progress row")
	}
	if p.CompletedAt != nil {
		return p, true, nil
	}
	now := time.Now()
	p.CompletedAt = &now
	p.Notes = notes
	p.PhotoURL = photoURL
	return p, false, nil
}

func (f *fakeStore) GrantCompletion(progressID string, profile *models.Profile, activity *models.Activity, xp, teamXP int64) (bool, error) {
	if f.failGrant {
		return false, errors.New("store write rejected")
	}
	var row *models.ActivityProgress
	for _, p := range f.progress {
		if p.ID == progressID {
			row = p
		}
	}
	if row == nil || row.CompletedAt == nil {
		return false, errors.New("progress not completed")
	}
	if row.RewardsGrantedAt != nil {
		return false, nil
	}
	now := time.Now()
	row.RewardsGrantedAt = &now
	f.profileXP[profile.ID] += xp
	f.teamXP[profile.TeamID] += teamXP
	f.ledger = append(f.ledger, models.UserAchievement{
		ProfileID: profile.ID,
		TeamID:    profile.TeamID,
		Source:    models.SourceMission,
		SourceID:  activity.ID,
		XP:        xp,
	})
	return true, nil
}

func (f *fakeStore) EvaluateNewBadges(profileID string) ([]models.Badge, error) {
	var completed int64
	byCategory := map[string]int64{}
	for _, p := range f.progress {
		if p.ProfileID == profileID && p.CompletedAt != nil {
			completed++
			if a, ok := f.activities[p.ActivityID]; ok {
				byCategory[a.Category]++
			}
		}
	}
	stats := &PlayerStats{CompletedTotal: completed, CompletedByCategory: byCategory}

	var out []models.Badge
	for _, b := range f.catalog {
		if f.held[profileID][b.ID] {
			continue
		}
		if MeetsRequirement(b, stats) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) AwardBadge(profileID, teamID string, badge models.Badge) (*models.UserBadge, bool, error) {
	if f.failBadgeAward {
		return nil, false, errors.New("store write rejected")
	}
	if f.held[profileID] == nil {
		f.held[profileID] = map[string]bool{}
	}
	alreadyHeld := f.held[profileID][badge.ID] || f.stealBadges
	f.held[profileID][badge.ID] = true
	return &models.UserBadge{ProfileID: profileID, BadgeID: badge.ID, TeamID: teamID}, alreadyHeld, nil
}

func (f *fakeStore) Append(entries []models.UserAchievement) error {
	f.ledger = append(f.ledger, entries...)
	return nil
}

func (f *fakeStore) missionEntries() int {
	n := 0
	for _, e := range f.ledger {
		if e.Source == models.SourceMission {
			n++
		}
	}
	return n
}

func newTestService(f *fakeStore) *CompletionService {
	return NewCompletionService(f, f, f, f, f)
}

func seedPlayer(f *fakeStore) {
	f.profiles["p1"] = &models.Profile{ID: "p1", DisplayName: "Maya", TeamID: "t1"}
	f.activities["a1"] = &models.Activity{ID: "a1", Title: "Build a Stick Fort", XP: 20, Category: "nature"}
	f.catalog = []models.Badge{
		{ID: "b1", Code: "FIRST_STEPS", Name: "First Steps", RequirementType: models.RequirementActivitiesCompleted, RequirementValue: 1, Position: 1},
		{ID: "b2", Code: "PATHFINDER", Name: "Pathfinder", RequirementType: models.RequirementActivitiesCompleted, RequirementValue: 5, Position: 2},
	}
}

func TestCompleteActivity_HappyPath(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	svc := newTestService(f)

	summary, err := svc.CompleteActivity("p1", "a1", "", "great fort")
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Equal(t, int64(20), summary.XPGained)
	assert.Equal(t, int64(10), summary.TeamXPGained)
	require.Len(t, summary.NewBadges, 1)
	assert.Equal(t, "FIRST_STEPS", summary.NewBadges[0].Code)

	assert.Equal(t, int64(20), f.profileXP["p1"])
	assert.Equal(t, int64(10), f.teamXP["t1"])
	assert.Equal(t, 1, f.missionEntries())

	prog := f.progress[pairKey("p1", "a1")]
	require.NotNil(t, prog.CompletedAt)
	require.NotNil(t, prog.RewardsGrantedAt)
	assert.Equal(t, "great fort", prog.Notes)
}

func TestCompleteActivity_SecondCallIsNoOp(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	svc := newTestService(f)

	_, err := svc.CompleteActivity("p1", "a1", "", "")
	require.NoError(t, err)
	first := *f.progress[pairKey("p1", "a1")].CompletedAt

	summary, err := svc.CompleteActivity("p1", "a1", "", "")
	require.NoError(t, err)

	assert.True(t, summary.Success)
	assert.Zero(t, summary.XPGained)
	assert.Zero(t, summary.TeamXPGained)
	assert.Empty(t, summary.NewBadges)

	assert.Equal(t, int64(20), f.profileXP["p1"], "XP must be awarded exactly once")
	assert.Equal(t, int64(10), f.teamXP["t1"])
	assert.Equal(t, 1, f.missionEntries(), "exactly one mission ledger entry")
	assert.Equal(t, first, *f.progress[pairKey("p1", "a1")].CompletedAt, "completed_at unchanged")
}

func TestCompleteActivity_PhotoRequired(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	f.activities["a1"].PhotoRequired = true
	svc := newTestService(f)

	_, err := svc.CompleteActivity("p1", "a1", "", "")
	require.ErrorIs(t, err, ErrPhotoRequired)

	assert.Empty(t, f.progress, "no progress row may be created")
	assert.Zero(t, f.profileXP["p1"])

	summary, err := svc.CompleteActivity("p1", "a1", "https://cdn.example.com/fort.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, int64(20), summary.XPGained)
	assert.Equal(t, "https://cdn.example.com/fort.jpg", f.progress[pairKey("p1", "a1")].PhotoURL)
}

func TestCompleteActivity_UnknownIDs(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	svc := newTestService(f)

	_, err := svc.CompleteActivity("p1", "missing", "", "")
	require.ErrorIs(t, err, ErrActivityNotFound)

	_, err = svc.CompleteActivity("missing", "a1", "", "")
	require.ErrorIs(t, err, ErrProfileNotFound)

	assert.Empty(t, f.progress)
}

func TestCompleteActivity_RetryAfterPartialFailure(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	svc := newTestService(f)

	f.failGrant = true
	_, err := svc.CompleteActivity("p1", "a1", "", "")

	var partial *PartialRewardError
	require.ErrorAs(t, err, &partial)
	prog := f.progress[pairKey("p1", "a1")]
	require.NotNil(t, prog.CompletedAt, "progress is durably completed before the grant")
	assert.Nil(t, prog.RewardsGrantedAt)
	assert.Zero(t, f.profileXP["p1"])

	// The same entry point retried heals everything, once.
	f.failGrant = false
	summary, err := svc.CompleteActivity("p1", "a1", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(20), summary.XPGained)
	require.Len(t, summary.NewBadges, 1)
	assert.Equal(t, int64(20), f.profileXP["p1"])
	assert.Equal(t, 1, f.missionEntries())
}

func TestCompleteActivity_RetryAfterBadgeFailure(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	svc := newTestService(f)

	f.failBadgeAward = true
	_, err := svc.CompleteActivity("p1", "a1", "", "")

	var partial *PartialRewardError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, int64(20), f.profileXP["p1"], "XP grant already committed")

	f.failBadgeAward = false
	summary, err := svc.CompleteActivity("p1", "a1", "", "")
	require.NoError(t, err)
	assert.Zero(t, summary.XPGained, "XP not granted twice")
	require.Len(t, summary.NewBadges, 1, "the missing badge is healed on retry")
	assert.Equal(t, int64(20), f.profileXP["p1"])
}

func TestCompleteActivity_BadgeRaceLoserIsExcluded(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	f.stealBadges = true
	svc := newTestService(f)

	summary, err := svc.CompleteActivity("p1", "a1", "", "")
	require.NoError(t, err)

	assert.Empty(t, summary.NewBadges, "badges lost to a concurrent award are not surfaced")
	for _, e := range f.ledger {
		assert.NotEqual(t, models.SourceBadge, e.Source, "no ledger entry for a lost award")
	}
}

func TestCompleteActivity_TeamShareIsFloored(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	f.activities["a1"].XP = 15
	svc := newTestService(f)

	summary, err := svc.CompleteActivity("p1", "a1", "", "")
	require.NoError(t, err)

	assert.Equal(t, int64(15), summary.XPGained)
	assert.Equal(t, int64(7), summary.TeamXPGained)
	assert.Equal(t, int64(7), f.teamXP["t1"])
}

func TestCompleteActivity_CategoryBadge(t *testing.T) {
	f := newFakeStore()
	seedPlayer(f)
	f.catalog = append(f.catalog, models.Badge{
		ID: "b3", Code: "NATURE_SCOUT", Name: "Nature Scout",
		RequirementType: models.RequirementCategoryCount, RequirementValue: 2,
		Category: "nature", Position: 3,
	})
	f.activities["a2"] = &models.Activity{ID: "a2", Title: "Spot Three Birds", XP: 10, Category: "nature"}
	svc := newTestService(f)

	summary, err := svc.CompleteActivity("p1", "a1", "", "")
	require.NoError(t, err)
	require.Len(t, summary.NewBadges, 1, "one nature completion is not enough for the category badge")

	summary, err = svc.CompleteActivity("p1", "a2", "", "")
	require.NoError(t, err)
	require.Len(t, summary.NewBadges, 1)
	assert.Equal(t, "NATURE_SCOUT", summary.NewBadges[0].Code)
}
