package model

import (
	"time"

	"gorm.io/gorm"
)

// UserSkillProgress 每个 (user, skill) 唯一一行
// last_unlocked_session 只增不减，stars_earned 同样只增不减
type UserSkillProgress struct {
	ID                  string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID              string    `gorm:"uniqueIndex:idx_progress_user_skill;type:varchar(36);not null" json:"user_id"`
	SkillID             string    `gorm:"uniqueIndex:idx_progress_user_skill;type:varchar(36);not null" json:"skill_id"`
	SessionsPassed      int       `gorm:"default:0" json:"sessions_passed"`
	StarsEarned         int       `gorm:"default:0" json:"stars_earned"`
	IsCompleted         bool      `gorm:"default:false" json:"is_completed"`
	LastUnlockedSession int       `gorm:"default:1" json:"last_unlocked_session"`
	Synced              bool      `gorm:"default:false" json:"synced"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (UserSkillProgress) TableName() string {
	return "user_skill_progress"
}

func (p *UserSkillProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = GenerateID()
	}
	return nil
}
