package model

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMCQ            QuestionType = "mcq"
	QuestionSelection      QuestionType = "selection"
	QuestionImageSelection QuestionType = "image_selection"
	QuestionDragOrder      QuestionType = "drag_order"
	QuestionBinary         QuestionType = "binary"
)

// Question 题目，服务端预先分配到固定场次，客户端只读
type Question struct {
	ID            string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SkillID       string         `gorm:"index:idx_questions_skill_session;type:varchar(36);not null" json:"skill_id"`
	SessionIndex  int            `gorm:"index:idx_questions_skill_session" json:"session_index"`
	Type          QuestionType   `gorm:"size:30;not null" json:"type"`
	QuestionText  string         `gorm:"type:text" json:"question_text"`
	Options       datatypes.JSON `gorm:"column:options_json" json:"options_json,omitempty"`
	CorrectAnswer string         `gorm:"size:255" json:"correct_answer"`
	MediaURI      string         `gorm:"size:255" json:"media_uri,omitempty"`
	AudioURL      string         `gorm:"size:255" json:"audio_url,omitempty"`
	Explanation   string         `gorm:"type:text" json:"explanation,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
