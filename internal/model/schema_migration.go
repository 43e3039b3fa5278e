package model

import "time"

// SchemaMigration 已应用版本的台账，只追加
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false" json:"version"`
	AppliedAt time.Time `json:"applied_at"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// SyncState 单行表（id 恒为 1），保存最近一次成功拉取的水位
type SyncState struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	LastSyncedAt string `gorm:"size:64" json:"last_synced_at"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
