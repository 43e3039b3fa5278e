package migration

import (
	"kidquiz_local/internal/model"
	"kidquiz_local/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type schemaMigration struct {
	Version int
	Name    string
	Apply   func(tx *gorm.DB) error
}

var registry = []schemaMigration{
	{Version: 1, Name: "create base tables", Apply: applyV1},
	{Version: 2, Name: "question audio and explanation columns", Apply: applyV2},
	{Version: 3, Name: "subject image and skill category columns", Apply: applyV3},
	{Version: 4, Name: "sync watermark table", Apply: applyV4},
}

// applyV1 建表。建表失败必须中止启动。
func applyV1(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&model.Subject{},
		&model.Skill{},
		&model.Question{},
		&model.UserSubject{},
		&model.UserSkillProgress{},
		&model.UserSessionLog{},
		&model.Reward{},
	)
}

func applyV2(tx *gorm.DB) error {
	addColumnIfMissing(tx, &model.Question{}, "audio_url")
	addColumnIfMissing(tx, &model.Question{}, "explanation")
	return nil
}

func applyV3(tx *gorm.DB) error {
	addColumnIfMissing(tx, &model.Subject{}, "image_url")
	addColumnIfMissing(tx, &model.Skill{}, "category")
	return nil
}

func applyV4(tx *gorm.DB) error {
	return tx.AutoMigrate(&model.SyncState{})
}

// addColumnIfMissing 先查活动表的列清单再加列。
// 列可能是上次中断的迁移留下的，单列失败只记日志不终止。
func addColumnIfMissing(tx *gorm.DB, mdl interface{}, column string) {
	mig := tx.Migrator()
	if mig.HasColumn(mdl, column) {
		return
	}
	if err := mig.AddColumn(mdl, column); err != nil {
		logger.Log.Warn("add column failed, continuing",
			zap.String("column", column),
			zap.Error(err))
	}
}
