package repository

import (
	"errors"

	"kidquiz_local/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionLogRepository struct {
	DB *gorm.DB
}

func NewSessionLogRepository(db *gorm.DB) *SessionLogRepository {
	return &SessionLogRepository{DB: db}
}

func (r *SessionLogRepository) Create(log *model.UserSessionLog) error {
	return r.DB.Create(log).Error
}

func (r *SessionLogRepository) UpsertSessionLogs(rows []model.UserSessionLog) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// GetLastSessionNumber 最近一次记录的场次号，支持“再玩一次”。
// 没有任何记录时返回 (nil, nil)。
func (r *SessionLogRepository) GetLastSessionNumber(userID, skillID string) (*int, error) {
	var log model.UserSessionLog
	err := r.DB.Where("user_id = ? AND skill_id = ?", userID, skillID).
		Order("created_at desc").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log.SessionNumber, nil
}

func (r *SessionLogRepository) CountPassed(userID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserSessionLog{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *SessionLogRepository) ListBySkill(userID, skillID string) ([]model.UserSessionLog, error) {
	var rows []model.UserSessionLog
	err := r.DB.Where("user_id = ? AND skill_id = ?", userID, skillID).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

func (r *SessionLogRepository) RecentByUser(userID string, limit int) ([]model.UserSessionLog, error) {
	var rows []model.UserSessionLog
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
