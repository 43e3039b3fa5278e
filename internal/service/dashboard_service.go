package service

import (
	"time"

	"kidquiz_local/internal/model"
	"kidquiz_local/internal/repository"
)

type DashboardService struct {
	statsRepo  *repository.StatsRepository
	rewardRepo *repository.RewardRepository
}

func NewDashboardService(statsRepo *repository.StatsRepository, rewardRepo *repository.RewardRepository) *DashboardService {
	return &DashboardService{
		statsRepo:  statsRepo,
		rewardRepo: rewardRepo,
	}
}

func (s *DashboardService) GetUserStats(userID string) (*model.UserStats, error) {
	return s.statsRepo.GetUserStats(userID)
}

func (s *DashboardService) GetDashboard(userID string) (*model.DashboardStats, error) {
	return s.statsRepo.GetUserDashboardStats(userID)
}

func (s *DashboardService) GetPeriodReport(userID string, from, to time.Time) (*model.PeriodReport, error) {
	return s.statsRepo.GetPeriodReport(userID, from, to)
}

func (s *DashboardService) GetRecommendedSkill(userID string) (*model.RecommendedSkill, error) {
	return s.statsRepo.GetNextRecommendedSkill(userID)
}

func (s *DashboardService) GetUserRewards(userID string) ([]model.Reward, error) {
	return s.rewardRepo.ListByUser(userID)
}
