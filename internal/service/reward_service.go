package service

import (
	"kidquiz_local/internal/model"
	"kidquiz_local/internal/repository"
	"kidquiz_local/pkg/monitoring"

	"gorm.io/gorm"
)

// RewardService 里程碑奖励。每项检查独立，发放靠 GrantOnce 的
// 条件插入保证至多一次。
type RewardService struct{}

func NewRewardService() *RewardService {
	return &RewardService{}
}

// EvaluateAfterSession 在 RecordSession 的事务内调用，
// 返回本次新发放的奖励类型
func (s *RewardService) EvaluateAfterSession(tx *gorm.DB, userID, skillID string, sessionsPassed, totalSessions int) ([]model.RewardType, error) {
	rewardRepo := repository.NewRewardRepository(tx)
	sessionRepo := repository.NewSessionLogRepository(tx)

	var granted []model.RewardType

	// 全生命周期第一次通过（本次刚写入的记录就是第一条）
	passedCount, err := sessionRepo.CountPassed(userID)
	if err != nil {
		return nil, err
	}
	if passedCount == 1 {
		ok, err := rewardRepo.GrantOnce(userID, "", model.RewardFirstSessionTrophy)
		if err != nil {
			return nil, err
		}
		if ok {
			granted = append(granted, model.RewardFirstSessionTrophy)
		}
	}

	if sessionsPassed >= 5 {
		ok, err := rewardRepo.GrantOnce(userID, skillID, model.RewardStar5Sessions)
		if err != nil {
			return nil, err
		}
		if ok {
			granted = append(granted, model.RewardStar5Sessions)
		}
	}

	if totalSessions > 0 && sessionsPassed >= totalSessions {
		ok, err := rewardRepo.GrantOnce(userID, skillID, model.RewardCompletionTrophy)
		if err != nil {
			return nil, err
		}
		if ok {
			granted = append(granted, model.RewardCompletionTrophy)
		}
	}

	for _, g := range granted {
		monitoring.RewardsGranted.WithLabelValues(string(g)).Inc()
	}

	return granted, nil
}
