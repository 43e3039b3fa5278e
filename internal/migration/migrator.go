package migration

import (
	"errors"
	"time"

	"kidquiz_local/internal/model"
	"kidquiz_local/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CurrentVersion 当前模式版本，与 registry 最后一项一致
const CurrentVersion = 4

type Migrator struct {
	DB *gorm.DB
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{DB: db}
}

// EnsureSchema 幂等。读取台账确定当前版本（无台账视为 0），
// 在一个事务里按序应用缺失的迁移并逐版本记账。
func (m *Migrator) EnsureSchema() error {
	return m.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&model.SchemaMigration{}); err != nil {
			return err
		}

		current := 0
		var last model.SchemaMigration
		err := tx.Order("version desc").First(&last).Error
		if err == nil {
			current = last.Version
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		for _, mig := range registry {
			if mig.Version <= current {
				continue
			}
			if err := mig.Apply(tx); err != nil {
				return err
			}
			if err := tx.Create(&model.SchemaMigration{
				Version:   mig.Version,
				AppliedAt: time.Now(),
			}).Error; err != nil {
				return err
			}
			logger.Log.Info("schema migration applied",
				zap.Int("version", mig.Version),
				zap.String("name", mig.Name))
		}

		return nil
	})
}
