package repository

import (
	"time"

	"kidquiz_local/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepository struct {
	DB *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{DB: db}
}

// GrantOnce 单条条件插入，存在即不插入，同一条 SQL 内完成判重，
// 并发触发下也不会重复发奖。全局奖励 skillID 传空串。
// 返回是否真正插入了新行。
func (r *RewardRepository) GrantOnce(userID, skillID string, rewardType model.RewardType) (bool, error) {
	res := r.DB.Exec(`
		INSERT INTO rewards (id, user_id, skill_id, reward_type, awarded_at, synced)
		SELECT ?, ?, ?, ?, ?, 0
		WHERE NOT EXISTS (
			SELECT 1 FROM rewards
			WHERE user_id = ? AND skill_id = ? AND reward_type = ?
		)`,
		model.GenerateID(), userID, skillID, string(rewardType), time.Now(),
		userID, skillID, string(rewardType),
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *RewardRepository) UpsertRewards(rows []model.Reward) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

func (r *RewardRepository) ListByUser(userID string) ([]model.Reward, error) {
	var rows []model.Reward
	err := r.DB.Where("user_id = ?", userID).Order("awarded_at desc").Find(&rows).Error
	return rows, err
}

func (r *RewardRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Reward{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
