package repository

import (
	"testing"
	"time"

	"kidquiz_local/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	seedSkill(t, db, "skill-1", "subject-1", 10)
	seedSkill(t, db, "skill-2", "subject-1", 10)

	require.NoError(t, db.Create(&model.UserSessionLog{
		UserID: "user-1", SkillID: "skill-1", SessionNumber: 1,
		Score: 9, Passed: true, TimeTakenSeconds: 120,
	}).Error)
	require.NoError(t, db.Create(&model.UserSessionLog{
		UserID: "user-1", SkillID: "skill-1", SessionNumber: 2,
		Score: 5, Passed: false, TimeTakenSeconds: 90,
	}).Error)
	require.NoError(t, db.Create(&model.UserSkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SessionsPassed: 1, StarsEarned: 2, LastUnlockedSession: 2,
	}).Error)
	require.NoError(t, db.Create(&model.UserSkillProgress{
		UserID: "user-1", SkillID: "skill-2",
		SessionsPassed: 10, StarsEarned: 5, IsCompleted: true, LastUnlockedSession: 10,
	}).Error)
	require.NoError(t, db.Create(&model.Reward{
		UserID: "user-1", RewardType: model.RewardFirstSessionTrophy,
	}).Error)

	stats, err := repo.GetUserStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.SessionsPlayed)
	assert.Equal(t, int64(1), stats.SessionsPassed)
	assert.Equal(t, 7, stats.TotalStars)
	assert.Equal(t, int64(1), stats.SkillsCompleted)
	assert.Equal(t, int64(1), stats.RewardsEarned)
	assert.Equal(t, int64(210), stats.TotalTimeSeconds)
}

func TestGetUserStatsEmptyUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	stats, err := repo.GetUserStats("nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.SessionsPlayed)
	assert.Equal(t, 0, stats.TotalStars)
	assert.Equal(t, int64(0), stats.TotalTimeSeconds)
}

func TestGetNextRecommendedSkillPrefersInProgress(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	seedSkill(t, db, "skill-1", "subject-1", 10)
	seedSkill(t, db, "skill-2", "subject-1", 10)
	require.NoError(t, db.Create(&model.UserSubject{
		UserID: "user-1", SubjectID: "subject-1",
	}).Error)
	require.NoError(t, db.Create(&model.UserSkillProgress{
		UserID: "user-1", SkillID: "skill-2",
		SessionsPassed: 3, LastUnlockedSession: 4,
	}).Error)

	rec, err := repo.GetNextRecommendedSkill("user-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "skill-2", rec.Skill.ID)
	assert.Equal(t, 4, rec.NextSession)
}

func TestGetNextRecommendedSkillFallsBackToUnstarted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	seedSkill(t, db, "skill-1", "subject-1", 10)
	seedSkill(t, db, "skill-2", "subject-1", 10)
	require.NoError(t, db.Create(&model.UserSubject{
		UserID: "user-1", SubjectID: "subject-1",
	}).Error)
	require.NoError(t, db.Create(&model.UserSkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SessionsPassed: 10, StarsEarned: 5, IsCompleted: true, LastUnlockedSession: 10,
	}).Error)

	rec, err := repo.GetNextRecommendedSkill("user-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "skill-2", rec.Skill.ID)
	assert.Equal(t, 1, rec.NextSession)
}

func TestGetNextRecommendedSkillNothingLeft(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	rec, err := repo.GetNextRecommendedSkill("user-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetPeriodReport(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	seedSkill(t, db, "skill-1", "subject-1", 10)

	now := time.Now()
	require.NoError(t, db.Create(&model.UserSessionLog{
		UserID: "user-1", SkillID: "skill-1", SessionNumber: 1,
		Score: 8, Passed: true, TimeTakenSeconds: 100,
	}).Error)
	require.NoError(t, db.Create(&model.UserSessionLog{
		UserID: "user-1", SkillID: "skill-1", SessionNumber: 2,
		Score: 6, Passed: false, TimeTakenSeconds: 80,
	}).Error)

	report, err := repo.GetPeriodReport("user-1", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, report.Skills, 1)
	row := report.Skills[0]
	assert.Equal(t, "skill-1", row.SkillID)
	assert.Equal(t, int64(2), row.Attempts)
	assert.Equal(t, int64(1), row.Passed)
	assert.InDelta(t, 7.0, row.AverageScore, 0.001)
	assert.Equal(t, int64(180), row.TimeSeconds)

	// 区间外的时间段应为空
	report, err = repo.GetPeriodReport("user-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, report.Skills)
}

func TestGetUserDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStatsRepository(db)

	seedSkill(t, db, "skill-1", "subject-1", 10)
	seedSkill(t, db, "skill-2", "subject-1", 10)
	require.NoError(t, db.Create(&model.UserSubject{
		UserID: "user-1", SubjectID: "subject-1",
	}).Error)
	require.NoError(t, db.Create(&model.UserSkillProgress{
		UserID: "user-1", SkillID: "skill-1",
		SessionsPassed: 2, StarsEarned: 3, LastUnlockedSession: 3,
	}).Error)
	require.NoError(t, db.Create(&model.UserSessionLog{
		UserID: "user-1", SkillID: "skill-1", SessionNumber: 1, Score: 9, Passed: true,
	}).Error)

	dashboard, err := repo.GetUserDashboardStats("user-1")
	require.NoError(t, err)
	require.Len(t, dashboard.Subjects, 1)
	card := dashboard.Subjects[0]
	assert.Equal(t, "subject-1", card.SubjectID)
	assert.Equal(t, int64(2), card.TotalSkills)
	assert.Equal(t, int64(1), card.SkillsStarted)
	assert.Equal(t, int64(0), card.SkillsCompleted)
	assert.Equal(t, 3, card.StarsEarned)
	assert.Len(t, dashboard.RecentSessions, 1)
	assert.Equal(t, int64(1), dashboard.Stats.SessionsPlayed)
}
