package service

import (
	"encoding/json"
	"errors"
	"os"

	"kidquiz_local/internal/config"
	"kidquiz_local/internal/model"
	"kidquiz_local/internal/repository"
	"kidquiz_local/internal/util"
	"kidquiz_local/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContentService struct {
	contentRepo     *repository.ContentRepository
	userSubjectRepo *repository.UserSubjectRepository
	quiz            config.QuizConfig
}

func NewContentService(
	contentRepo *repository.ContentRepository,
	userSubjectRepo *repository.UserSubjectRepository,
	quiz config.QuizConfig,
) *ContentService {
	return &ContentService{
		contentRepo:     contentRepo,
		userSubjectRepo: userSubjectRepo,
		quiz:            quiz,
	}
}

func (s *ContentService) GetSubjects() ([]model.Subject, error) {
	return s.contentRepo.GetSubjects()
}

func (s *ContentService) SelectSubjects(userID string, subjectIDs []string) error {
	for _, id := range subjectIDs {
		if _, err := s.contentRepo.GetSubjectByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrSubjectNotFound
			}
			return err
		}
	}
	return s.userSubjectRepo.ReplaceSelection(userID, subjectIDs)
}

func (s *ContentService) GetUserSubjects(userID string) ([]model.Subject, error) {
	return s.userSubjectRepo.GetSelection(userID)
}

func (s *ContentService) GetSkills(subjectID, standard string) ([]model.Skill, error) {
	if standard != "" {
		return s.contentRepo.GetSkillsByStandard(subjectID, standard)
	}
	return s.contentRepo.GetSkillsBySubject(subjectID)
}

func (s *ContentService) GetQuestionsForSession(skillID string, sessionNumber int) ([]model.Question, error) {
	if sessionNumber < 1 {
		return nil, util.ErrInvalidSessionNumber
	}
	if _, err := s.contentRepo.GetSkillByID(skillID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}
	return s.contentRepo.GetQuestionsForSession(skillID, sessionNumber, s.quiz.SessionSize)
}

// seedFile 本地种子文件的结构，与同步拉取的 data 字段同形
type seedFile struct {
	Subjects  []model.Subject  `json:"subjects"`
	Skills    []model.Skill    `json:"skills"`
	Questions []model.Question `json:"questions"`
}

// SeedFromFile 离线首启时灌入打包的内容，upsert 语义可重复执行
func (s *ContentService) SeedFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return err
	}

	if err := s.contentRepo.UpsertSubjects(seed.Subjects); err != nil {
		return err
	}
	if err := s.contentRepo.UpsertSkills(seed.Skills); err != nil {
		return err
	}
	if err := s.contentRepo.UpsertQuestions(seed.Questions); err != nil {
		return err
	}

	logger.Log.Info("content seeded",
		zap.Int("subjects", len(seed.Subjects)),
		zap.Int("skills", len(seed.Skills)),
		zap.Int("questions", len(seed.Questions)))
	return nil
}
