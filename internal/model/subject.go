package model

import "time"

// Subject 学科，由服务端下发或本地种子脚本创建
type Subject struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	IconURI   string    `gorm:"size:255" json:"icon_uri,omitempty"`
	ImageURL  string    `gorm:"size:255" json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

// UserSubject 用户选择的学科，复合主键，重新选择时整组替换
type UserSubject struct {
	UserID     string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	SubjectID  string    `gorm:"primaryKey;type:varchar(36)" json:"subject_id"`
	SelectedAt time.Time `json:"selected_at"`
}

func (UserSubject) TableName() string {
	return "user_subjects"
}
