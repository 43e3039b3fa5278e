package model

import (
	"time"

	"gorm.io/gorm"
)

type RewardType string

const (
	// RewardFirstSessionTrophy 全局奖励，每个用户仅一次
	RewardFirstSessionTrophy RewardType = "first_session_trophy"
	// RewardStar5Sessions 单技能奖励，通过 5 个场次后发放
	RewardStar5Sessions RewardType = "star_5_sessions"
	// RewardCompletionTrophy 单技能奖励，通过全部场次后发放
	RewardCompletionTrophy RewardType = "completion_trophy"
)

// Reward 里程碑奖励。全局奖励 skill_id 为空串。
// 唯一性由 GrantOnce 的条件插入保证，不依赖数据库约束。
type Reward struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string     `gorm:"index;type:varchar(36);not null" json:"user_id"`
	SkillID    string     `gorm:"type:varchar(36)" json:"skill_id,omitempty"`
	RewardType RewardType `gorm:"size:50;not null" json:"reward_type"`
	AwardedAt  time.Time  `json:"awarded_at"`
	Synced     bool       `gorm:"default:false" json:"synced"`
}

func (Reward) TableName() string {
	return "rewards"
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = GenerateID()
	}
	return nil
}
