package repository

import (
	"testing"

	"kidquiz_local/internal/model"
	"kidquiz_local/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectUnsyncedAndMarkSynced(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRepository(db)

	require.NoError(t, db.Create(&model.UserSessionLog{
		ID: "log-1", UserID: "user-1", SkillID: "skill-1",
		SessionNumber: 1, Score: 9, Passed: true,
	}).Error)
	require.NoError(t, db.Create(&model.UserSessionLog{
		ID: "log-2", UserID: "user-1", SkillID: "skill-1",
		SessionNumber: 2, Score: 6, Synced: true,
	}).Error)
	require.NoError(t, db.Create(&model.UserSkillProgress{
		ID: "prog-1", UserID: "user-1", SkillID: "skill-1",
		SessionsPassed: 1, LastUnlockedSession: 2,
	}).Error)
	require.NoError(t, db.Create(&model.Reward{
		ID: "rw-1", UserID: "user-1", RewardType: model.RewardFirstSessionTrophy,
	}).Error)

	batch, err := repo.CollectUnsynced(200)
	require.NoError(t, err)
	require.Len(t, batch.Sessions, 1)
	assert.Equal(t, "log-1", batch.Sessions[0].ID)
	require.Len(t, batch.Progress, 1)
	require.Len(t, batch.Rewards, 1)
	assert.False(t, batch.Empty())

	require.NoError(t, repo.MarkSynced("user_session_logs", []string{"log-1"}))
	require.NoError(t, repo.MarkSynced("user_skill_progress", []string{"prog-1"}))
	require.NoError(t, repo.MarkSynced("rewards", []string{"rw-1"}))

	batch, err = repo.CollectUnsynced(200)
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}

func TestCollectUnsyncedRespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRepository(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&model.UserSessionLog{
			UserID: "user-1", SkillID: "skill-1", SessionNumber: i + 1,
		}).Error)
	}

	batch, err := repo.CollectUnsynced(3)
	require.NoError(t, err)
	assert.Len(t, batch.Sessions, 3)
}

func TestMarkSyncedRejectsUnknownTable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRepository(db)

	err := repo.MarkSynced("subjects", []string{"x"})
	assert.ErrorIs(t, err, util.ErrTableNotAllowed)

	err = repo.MarkSynced("user_session_logs; DROP TABLE rewards", []string{"x"})
	assert.ErrorIs(t, err, util.ErrTableNotAllowed)
}

func TestMarkSyncedEmptyIDsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRepository(db)

	assert.NoError(t, repo.MarkSynced("rewards", nil))
}

func TestWatermarkRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRepository(db)

	wm, err := repo.GetWatermark()
	require.NoError(t, err)
	assert.Empty(t, wm)

	require.NoError(t, repo.SetWatermark("2026-08-01T10:00:00Z"))
	require.NoError(t, repo.SetWatermark("2026-08-02T10:00:00Z"))

	wm, err = repo.GetWatermark()
	require.NoError(t, err)
	assert.Equal(t, "2026-08-02T10:00:00Z", wm)

	// 覆盖写不应产生第二行
	var count int64
	require.NoError(t, db.Model(&model.SyncState{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWipeAllClearsEverything(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRepository(db)

	seedSkill(t, db, "skill-1", "subject-1", 10)
	require.NoError(t, db.Create(&model.Question{
		ID: "q-1", SkillID: "skill-1", SessionIndex: 1, Type: model.QuestionMCQ,
	}).Error)
	require.NoError(t, db.Create(&model.UserSessionLog{
		UserID: "user-1", SkillID: "skill-1", SessionNumber: 1,
	}).Error)
	require.NoError(t, db.Create(&model.Reward{
		UserID: "user-1", RewardType: model.RewardFirstSessionTrophy,
	}).Error)
	require.NoError(t, repo.SetWatermark("2026-08-01T10:00:00Z"))

	require.NoError(t, repo.WipeAll())

	for _, m := range []interface{}{
		&model.Subject{}, &model.Skill{}, &model.Question{},
		&model.UserSessionLog{}, &model.Reward{}, &model.SyncState{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}
}
