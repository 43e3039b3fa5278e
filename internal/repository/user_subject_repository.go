package repository

import (
	"time"

	"kidquiz_local/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserSubjectRepository struct {
	DB *gorm.DB
}

func NewUserSubjectRepository(db *gorm.DB) *UserSubjectRepository {
	return &UserSubjectRepository{DB: db}
}

// ReplaceSelection 重新选择学科时整组替换，删旧插新在一个事务内
func (r *UserSubjectRepository) ReplaceSelection(userID string, subjectIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserSubject{}).Error; err != nil {
			return err
		}
		if len(subjectIDs) == 0 {
			return nil
		}
		now := time.Now()
		rows := make([]model.UserSubject, 0, len(subjectIDs))
		for _, id := range subjectIDs {
			rows = append(rows, model.UserSubject{
				UserID:     userID,
				SubjectID:  id,
				SelectedAt: now,
			})
		}
		return tx.Create(&rows).Error
	})
}

// UpsertUserSubjects 同步拉取用的批量 upsert
func (r *UserSubjectRepository) UpsertUserSubjects(rows []model.UserSubject) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

func (r *UserSubjectRepository) GetSelection(userID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Joins("JOIN user_subjects ON user_subjects.subject_id = subjects.id").
		Where("user_subjects.user_id = ?", userID).
		Order("subjects.name").
		Find(&subjects).Error
	return subjects, err
}
