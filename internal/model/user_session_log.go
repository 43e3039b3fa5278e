package model

import (
	"time"

	"gorm.io/gorm"
)

// UserSessionLog 答题记录，只追加，重玩产生新行
type UserSessionLog struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string    `gorm:"index;type:varchar(36);not null" json:"user_id"`
	SkillID          string    `gorm:"index;type:varchar(36);not null" json:"skill_id"`
	SessionNumber    int       `json:"session_number"`
	Score            int       `json:"score"`
	CorrectCount     int       `json:"correct_count"`
	TotalCount       int       `json:"total_count"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	Passed           bool      `gorm:"default:false" json:"passed"`
	Synced           bool      `gorm:"default:false" json:"synced"`
	CreatedAt        time.Time `json:"created_at"`
}

func (UserSessionLog) TableName() string {
	return "user_session_logs"
}

func (l *UserSessionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = GenerateID()
	}
	return nil
}
