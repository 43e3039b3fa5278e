package repository

import (
	"kidquiz_local/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

// 批量 upsert，按主键整行替换：服务端下发的同 id 行无条件覆盖本地。
// 每次调用一个事务。

func (r *ContentRepository) UpsertSubjects(subjects []model.Subject) error {
	if len(subjects) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&subjects).Error
	})
}

func (r *ContentRepository) UpsertSkills(skills []model.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&skills).Error
	})
}

func (r *ContentRepository) UpsertQuestions(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&questions).Error
	})
}

func (r *ContentRepository) GetSubjects() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Order("name").Find(&subjects).Error
	return subjects, err
}

func (r *ContentRepository) GetSubjectByID(id string) (*model.Subject, error) {
	var subject model.Subject
	if err := r.DB.First(&subject, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *ContentRepository) GetSkillByID(id string) (*model.Skill, error) {
	var skill model.Skill
	if err := r.DB.First(&skill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *ContentRepository) GetSkillsBySubject(subjectID string) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Where("subject_id = ?", subjectID).Order("id").Find(&skills).Error
	return skills, err
}

func (r *ContentRepository) GetSkillsByStandard(subjectID, standard string) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Where("subject_id = ? AND standard = ?", subjectID, standard).
		Order("id").
		Find(&skills).Error
	return skills, err
}

// GetQuestionsForSession 先按预分配的场次号精确取题；
// 不足 count 时（旧内容没有场次分配）退回按 id 排序的固定偏移切片，
// 保证同一 skill+session 每次拿到同一组题，重试不换题。
func (r *ContentRepository) GetQuestionsForSession(skillID string, sessionNumber, count int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("skill_id = ? AND session_index = ?", skillID, sessionNumber).
		Order("id").
		Limit(count).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if len(questions) >= count {
		return questions, nil
	}

	offset := (sessionNumber - 1) * count
	var fallback []model.Question
	err = r.DB.Where("skill_id = ?", skillID).
		Order("id").
		Limit(count).
		Offset(offset).
		Find(&fallback).Error
	if err != nil {
		return nil, err
	}
	return fallback, nil
}
