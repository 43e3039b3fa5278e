package repository

import (
	"errors"

	"kidquiz_local/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) UpsertProgress(rows []model.UserSkillProgress) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// Get 没有进度行时返回 (nil, nil)，隐含初始状态 {0, 1, 0, 未完成}
func (r *ProgressRepository) Get(userID, skillID string) (*model.UserSkillProgress, error) {
	var progress model.UserSkillProgress
	err := r.DB.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.UserSkillProgress) error {
	return r.DB.Save(progress).Error
}

func (r *ProgressRepository) Create(progress *model.UserSkillProgress) error {
	return r.DB.Create(progress).Error
}

func (r *ProgressRepository) ListByUser(userID string) ([]model.UserSkillProgress, error) {
	var rows []model.UserSkillProgress
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

// GetNextSessionToPlay 无进度行返回 1；已完成返回 total_sessions；
// 其余返回 last_unlocked_session
func (r *ProgressRepository) GetNextSessionToPlay(userID, skillID string, totalSessions int) (int, error) {
	progress, err := r.Get(userID, skillID)
	if err != nil {
		return 0, err
	}
	if progress == nil {
		return 1, nil
	}
	if progress.IsCompleted {
		return totalSessions, nil
	}
	return progress.LastUnlockedSession, nil
}
