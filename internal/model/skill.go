package model

import "time"

const DefaultTotalSessions = 10

// Skill 技能点，归属唯一学科
type Skill struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SubjectID     string    `gorm:"index;type:varchar(36);not null" json:"subject_id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Standard      string    `gorm:"index;size:50" json:"standard"`
	Category      string    `gorm:"size:50" json:"category"`
	TotalSessions int       `gorm:"default:10" json:"total_sessions"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Skill) TableName() string {
	return "skills"
}
