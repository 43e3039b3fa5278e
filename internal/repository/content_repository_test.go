package repository

import (
	"fmt"
	"testing"

	"kidquiz_local/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSubjectsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	subjects := []model.Subject{
		{ID: "subj-1", Name: "Math"},
		{ID: "subj-2", Name: "English"},
	}

	require.NoError(t, repo.UpsertSubjects(subjects))
	require.NoError(t, repo.UpsertSubjects(subjects))

	var count int64
	require.NoError(t, db.Model(&model.Subject{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpsertOverwritesById(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	require.NoError(t, repo.UpsertSubjects([]model.Subject{{ID: "subj-1", Name: "Math"}}))
	require.NoError(t, repo.UpsertSubjects([]model.Subject{{ID: "subj-1", Name: "Mathematics", ImageURL: "math.png"}}))

	got, err := repo.GetSubjectByID("subj-1")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", got.Name)
	assert.Equal(t, "math.png", got.ImageURL)
}

func TestGetSkillsByStandard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)

	seedSkill(t, db, "skill-1", "subj-1", 10)
	seedSkill(t, db, "skill-2", "subj-1", 10)
	require.NoError(t, db.Model(&model.Skill{}).Where("id = ?", "skill-2").Update("standard", "K.T.2").Error)

	skills, err := repo.GetSkillsByStandard("subj-1", "K.T.1")
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "skill-1", skills[0].ID)
}

func TestGetQuestionsForSessionExactMatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	seedSkill(t, db, "skill-1", "subj-1", 10)

	for session := 1; session <= 3; session++ {
		for i := 1; i <= 10; i++ {
			q := model.Question{
				ID:           fmt.Sprintf("q-%02d-%02d", session, i),
				SkillID:      "skill-1",
				SessionIndex: session,
				Type:         model.QuestionMCQ,
				QuestionText: "?",
			}
			require.NoError(t, db.Create(&q).Error)
		}
	}

	first, err := repo.GetQuestionsForSession("skill-1", 2, 10)
	require.NoError(t, err)
	require.Len(t, first, 10)
	for _, q := range first {
		assert.Equal(t, 2, q.SessionIndex)
	}

	// 重复调用返回同一组题，顺序一致
	second, err := repo.GetQuestionsForSession("skill-1", 2, 10)
	require.NoError(t, err)
	require.Len(t, second, 10)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestGetQuestionsForSessionFallbackDeterministic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	seedSkill(t, db, "skill-1", "subj-1", 10)

	// 旧内容：没有场次分配
	for i := 1; i <= 30; i++ {
		q := model.Question{
			ID:           fmt.Sprintf("q-%03d", i),
			SkillID:      "skill-1",
			SessionIndex: 0,
			Type:         model.QuestionMCQ,
			QuestionText: "?",
		}
		require.NoError(t, db.Create(&q).Error)
	}

	first, err := repo.GetQuestionsForSession("skill-1", 2, 10)
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, "q-011", first[0].ID)
	assert.Equal(t, "q-020", first[9].ID)

	second, err := repo.GetQuestionsForSession("skill-1", 2, 10)
	require.NoError(t, err)
	require.Len(t, second, 10)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}
