package repository

import (
	"errors"
	"fmt"

	"kidquiz_local/internal/model"
	"kidquiz_local/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncRepository struct {
	DB *gorm.DB
}

func NewSyncRepository(db *gorm.DB) *SyncRepository {
	return &SyncRepository{DB: db}
}

// UnsyncedBatch 一次推送的本地脏行，按表分组
type UnsyncedBatch struct {
	Sessions []model.UserSessionLog
	Progress []model.UserSkillProgress
	Rewards  []model.Reward
}

func (b *UnsyncedBatch) Empty() bool {
	return len(b.Sessions) == 0 && len(b.Progress) == 0 && len(b.Rewards) == 0
}

func (r *SyncRepository) CollectUnsynced(limit int) (*UnsyncedBatch, error) {
	batch := &UnsyncedBatch{}

	err := r.DB.Where("synced = ?", false).Limit(limit).Find(&batch.Sessions).Error
	if err != nil {
		return nil, err
	}
	err = r.DB.Where("synced = ?", false).Limit(limit).Find(&batch.Progress).Error
	if err != nil {
		return nil, err
	}
	err = r.DB.Where("synced = ?", false).Limit(limit).Find(&batch.Rewards).Error
	if err != nil {
		return nil, err
	}

	return batch, nil
}

// MarkSynced 只接受闭集内的表名，id 走参数绑定
func (r *SyncRepository) MarkSynced(table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if !util.SyncableTables[table] {
		return util.ErrTableNotAllowed
	}
	return r.DB.Exec(
		fmt.Sprintf("UPDATE %s SET synced = 1 WHERE id IN ?", table),
		ids,
	).Error
}

func (r *SyncRepository) GetWatermark() (string, error) {
	var state model.SyncState
	err := r.DB.First(&state, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return state.LastSyncedAt, nil
}

func (r *SyncRepository) SetWatermark(timestamp string) error {
	state := model.SyncState{ID: 1, LastSyncedAt: timestamp}
	return r.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&state).Error
}

// WipeAll 调试用的清库，仅遍历已知表名
func (r *SyncRepository) WipeAll() error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for table := range util.SyncableTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		for _, table := range util.ContentTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
