package service

import (
	"errors"
	"strconv"
	"time"

	"kidquiz_local/internal/config"
	"kidquiz_local/internal/model"
	"kidquiz_local/internal/repository"
	"kidquiz_local/internal/util"
	"kidquiz_local/pkg/logger"
	"kidquiz_local/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 每个 (user, skill) 一台进度状态机
// {sessions_passed, last_unlocked_session, stars_earned, is_completed}
type ProgressService struct {
	db           *gorm.DB
	quiz         config.QuizConfig
	rewards      *RewardService
	progressRepo *repository.ProgressRepository
	sessionRepo  *repository.SessionLogRepository
	contentRepo  *repository.ContentRepository
}

func NewProgressService(
	db *gorm.DB,
	rewards *RewardService,
	progressRepo *repository.ProgressRepository,
	sessionRepo *repository.SessionLogRepository,
	contentRepo *repository.ContentRepository,
	quiz config.QuizConfig,
) *ProgressService {
	return &ProgressService{
		db:           db,
		quiz:         quiz,
		rewards:      rewards,
		progressRepo: progressRepo,
		sessionRepo:  sessionRepo,
		contentRepo:  contentRepo,
	}
}

// SessionResult RecordSession 的结果，NewRewards 交给 UI 做庆祝动画
type SessionResult struct {
	Log        model.UserSessionLog     `json:"log"`
	Passed     bool                     `json:"passed"`
	Progress   *model.UserSkillProgress `json:"progress,omitempty"`
	NewRewards []model.RewardType       `json:"newRewards"`
}

// RecordSession 写入答题记录，通过则在同一事务内推进进度并检查奖励。
// 任何错误都意味着会话未记录，必须向用户可见。
func (s *ProgressService) RecordSession(userID, skillID string, sessionNumber, score, correctCount, totalCount, timeTaken int) (*SessionResult, error) {
	if sessionNumber < 1 {
		return nil, util.ErrInvalidSessionNumber
	}

	// 阈值按绝对分数而不是百分比，场次固定 10 题时等价于 80%。
	// 题量不等于配置值时记日志观察，不改判定。
	passed := score >= s.quiz.PassScore
	if totalCount != s.quiz.SessionSize {
		logger.Log.Warn("session size differs from configured size, pass threshold stays absolute",
			zap.Int("totalCount", totalCount),
			zap.Int("sessionSize", s.quiz.SessionSize))
	}

	result := &SessionResult{Passed: passed, NewRewards: []model.RewardType{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		logRow := model.UserSessionLog{
			UserID:           userID,
			SkillID:          skillID,
			SessionNumber:    sessionNumber,
			Score:            score,
			CorrectCount:     correctCount,
			TotalCount:       totalCount,
			TimeTakenSeconds: timeTaken,
			Passed:           passed,
			Synced:           false,
			CreatedAt:        time.Now(),
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return err
		}
		result.Log = logRow

		if !passed {
			return nil
		}

		progress, granted, err := s.applyPass(tx, userID, skillID, sessionNumber)
		if err != nil {
			return err
		}
		result.Progress = progress
		result.NewRewards = granted
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.SessionsRecorded.WithLabelValues(strconv.FormatBool(passed)).Inc()
	return result, nil
}

// applyPass 进度推进规则：
//   - 只有通过的场次正好是当前解锁场次才推进，重玩旧场次不推进也不回退
//   - 推进到最后一场之后置 is_completed
//   - stars_earned 只增不减
//   - 首次通过第 1 场（无进度行）强制 {1, 2, 1}
func (s *ProgressService) applyPass(tx *gorm.DB, userID, skillID string, sessionNumber int) (*model.UserSkillProgress, []model.RewardType, error) {
	var skill model.Skill
	if err := tx.First(&skill, "id = ?", skillID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrSkillNotFound
		}
		return nil, nil, err
	}

	var progress model.UserSkillProgress
	err := tx.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&progress).Error
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if !exists {
		progress = model.UserSkillProgress{
			UserID:              userID,
			SkillID:             skillID,
			LastUnlockedSession: 1,
		}
	}

	switch {
	case !exists && sessionNumber == 1:
		progress.SessionsPassed = 1
		progress.LastUnlockedSession = 2
	case sessionNumber == progress.LastUnlockedSession:
		if progress.LastUnlockedSession < skill.TotalSessions {
			progress.LastUnlockedSession++
		} else {
			progress.IsCompleted = true
		}
		if progress.IsCompleted {
			progress.SessionsPassed = skill.TotalSessions
		} else {
			progress.SessionsPassed = progress.LastUnlockedSession - 1
		}
	default:
		// 已解锁但非当前场次的重玩，不改任何字段
	}

	if progress.SessionsPassed > progress.StarsEarned {
		progress.StarsEarned = progress.SessionsPassed
	}
	progress.Synced = false

	if exists {
		if err := tx.Save(&progress).Error; err != nil {
			return nil, nil, err
		}
	} else {
		if err := tx.Create(&progress).Error; err != nil {
			return nil, nil, err
		}
	}

	granted, err := s.rewards.EvaluateAfterSession(tx, userID, skillID, progress.SessionsPassed, skill.TotalSessions)
	if err != nil {
		return nil, nil, err
	}

	return &progress, granted, nil
}

// GetNextSessionToPlay 无进度行返回 1，完成返回 total_sessions，否则当前解锁场次
func (s *ProgressService) GetNextSessionToPlay(userID, skillID string) (int, error) {
	skill, err := s.contentRepo.GetSkillByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrSkillNotFound
		}
		return 0, err
	}
	return s.progressRepo.GetNextSessionToPlay(userID, skillID, skill.TotalSessions)
}

// GetLastSessionNumber 支持“再玩一次”，返回 nil 表示还没玩过
func (s *ProgressService) GetLastSessionNumber(userID, skillID string) (*int, error) {
	return s.sessionRepo.GetLastSessionNumber(userID, skillID)
}

func (s *ProgressService) ListProgress(userID string) ([]model.UserSkillProgress, error) {
	return s.progressRepo.ListByUser(userID)
}
