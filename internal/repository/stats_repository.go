package repository

import (
	"database/sql"
	"errors"
	"time"

	"kidquiz_local/internal/model"

	"gorm.io/gorm"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) GetUserStats(userID string) (*model.UserStats, error) {
	stats := &model.UserStats{}

	err := r.DB.Model(&model.UserSessionLog{}).
		Where("user_id = ?", userID).
		Count(&stats.SessionsPlayed).Error
	if err != nil {
		return nil, err
	}

	err = r.DB.Model(&model.UserSessionLog{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Count(&stats.SessionsPassed).Error
	if err != nil {
		return nil, err
	}

	var totalStars sql.NullInt64
	err = r.DB.Model(&model.UserSkillProgress{}).
		Where("user_id = ?", userID).
		Select("SUM(stars_earned)").
		Scan(&totalStars).Error
	if err != nil {
		return nil, err
	}
	stats.TotalStars = int(totalStars.Int64)

	err = r.DB.Model(&model.UserSkillProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&stats.SkillsCompleted).Error
	if err != nil {
		return nil, err
	}

	err = r.DB.Model(&model.Reward{}).
		Where("user_id = ?", userID).
		Count(&stats.RewardsEarned).Error
	if err != nil {
		return nil, err
	}

	var totalTime sql.NullInt64
	err = r.DB.Model(&model.UserSessionLog{}).
		Where("user_id = ?", userID).
		Select("SUM(time_taken_seconds)").
		Scan(&totalTime).Error
	if err != nil {
		return nil, err
	}
	stats.TotalTimeSeconds = totalTime.Int64

	return stats, nil
}

func (r *StatsRepository) GetUserDashboardStats(userID string) (*model.DashboardStats, error) {
	var subjects []model.Subject
	err := r.DB.Joins("JOIN user_subjects ON user_subjects.subject_id = subjects.id").
		Where("user_subjects.user_id = ?", userID).
		Order("subjects.name").
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}

	dashboard := &model.DashboardStats{
		Subjects: make([]model.SubjectDashboard, 0, len(subjects)),
	}

	for _, subject := range subjects {
		card := model.SubjectDashboard{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			ImageURL:    subject.ImageURL,
		}

		if err := r.DB.Model(&model.Skill{}).
			Where("subject_id = ?", subject.ID).
			Count(&card.TotalSkills).Error; err != nil {
			return nil, err
		}

		if err := r.DB.Model(&model.UserSkillProgress{}).
			Joins("JOIN skills ON skills.id = user_skill_progress.skill_id").
			Where("user_skill_progress.user_id = ? AND skills.subject_id = ?", userID, subject.ID).
			Count(&card.SkillsStarted).Error; err != nil {
			return nil, err
		}

		if err := r.DB.Model(&model.UserSkillProgress{}).
			Joins("JOIN skills ON skills.id = user_skill_progress.skill_id").
			Where("user_skill_progress.user_id = ? AND skills.subject_id = ? AND user_skill_progress.is_completed = ?", userID, subject.ID, true).
			Count(&card.SkillsCompleted).Error; err != nil {
			return nil, err
		}

		var stars sql.NullInt64
		if err := r.DB.Model(&model.UserSkillProgress{}).
			Joins("JOIN skills ON skills.id = user_skill_progress.skill_id").
			Where("user_skill_progress.user_id = ? AND skills.subject_id = ?", userID, subject.ID).
			Select("SUM(user_skill_progress.stars_earned)").
			Scan(&stars).Error; err != nil {
			return nil, err
		}
		card.StarsEarned = int(stars.Int64)

		dashboard.Subjects = append(dashboard.Subjects, card)
	}

	var recent []model.UserSessionLog
	err = r.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(5).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}
	dashboard.RecentSessions = recent

	stats, err := r.GetUserStats(userID)
	if err != nil {
		return nil, err
	}
	dashboard.Stats = *stats

	return dashboard, nil
}

// GetNextRecommendedSkill 优先推荐进行中的技能（有进度、未完成，取最近练过的），
// 没有则推荐所选学科里还没开始的第一个技能。都没有返回 (nil, nil)。
func (r *StatsRepository) GetNextRecommendedSkill(userID string) (*model.RecommendedSkill, error) {
	var progress model.UserSkillProgress
	err := r.DB.Where("user_id = ? AND is_completed = ?", userID, false).
		Order("updated_at desc").
		First(&progress).Error
	if err == nil {
		var skill model.Skill
		if err := r.DB.First(&skill, "id = ?", progress.SkillID).Error; err != nil {
			return nil, err
		}
		return &model.RecommendedSkill{
			Skill:       skill,
			NextSession: progress.LastUnlockedSession,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var skill model.Skill
	err = r.DB.Joins("JOIN user_subjects ON user_subjects.subject_id = skills.subject_id").
		Joins("LEFT JOIN user_skill_progress ON user_skill_progress.skill_id = skills.id AND user_skill_progress.user_id = ?", userID).
		Where("user_subjects.user_id = ? AND user_skill_progress.id IS NULL", userID).
		Order("skills.subject_id, skills.id").
		First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &model.RecommendedSkill{Skill: skill, NextSession: 1}, nil
}

// GetPeriodReport 按时间段聚合答题记录，家长报表用
func (r *StatsRepository) GetPeriodReport(userID string, from, to time.Time) (*model.PeriodReport, error) {
	var rows []model.SkillReportRow
	err := r.DB.Model(&model.UserSessionLog{}).
		Select(`user_session_logs.skill_id as skill_id,
			skills.name as skill_name,
			COUNT(*) as attempts,
			SUM(CASE WHEN user_session_logs.passed THEN 1 ELSE 0 END) as passed,
			AVG(user_session_logs.score) as average_score,
			SUM(user_session_logs.time_taken_seconds) as time_seconds`).
		Joins("JOIN skills ON skills.id = user_session_logs.skill_id").
		Where("user_session_logs.user_id = ? AND user_session_logs.created_at >= ? AND user_session_logs.created_at < ?", userID, from, to).
		Group("user_session_logs.skill_id, skills.name").
		Order("attempts desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return &model.PeriodReport{
		From:   from.Format(time.RFC3339),
		To:     to.Format(time.RFC3339),
		Skills: rows,
	}, nil
}
