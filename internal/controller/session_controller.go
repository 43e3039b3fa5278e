package controller

import (
	"context"
	"errors"
	"strconv"

	"kidquiz_local/internal/service"
	"kidquiz_local/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	content  *service.ContentService
	progress *service.ProgressService
	sync     *service.SyncService
}

func NewSessionController(content *service.ContentService, progress *service.ProgressService, syncService *service.SyncService) *SessionController {
	return &SessionController{
		content:  content,
		progress: progress,
		sync:     syncService,
	}
}

func (ctrl *SessionController) GetQuestions(c *gin.Context) {
	sessionNumber, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		util.BadRequest(c, "invalid session number")
		return
	}

	questions, err := ctrl.content.GetQuestionsForSession(c.Param("skillId"), sessionNumber)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSkillNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrInvalidSessionNumber):
			util.BadRequest(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, questions)
}

type recordSessionRequest struct {
	SkillID          string `json:"skillId" binding:"required"`
	SessionNumber    int    `json:"sessionNumber" binding:"required"`
	Score            int    `json:"score"`
	CorrectCount     int    `json:"correctCount"`
	TotalCount       int    `json:"totalCount" binding:"required"`
	TimeTakenSeconds int    `json:"timeTakenSeconds"`
}

// RecordSession 本地写入失败必须让 UI 看到错误——那意味着进度没存上。
// 写入成功后在后台追一次同步，不阻塞响应。
func (ctrl *SessionController) RecordSession(c *gin.Context) {
	userID := c.Param("userId")

	var req recordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctrl.progress.RecordSession(
		userID,
		req.SkillID,
		req.SessionNumber,
		req.Score,
		req.CorrectCount,
		req.TotalCount,
		req.TimeTakenSeconds,
	)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSkillNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrInvalidSessionNumber):
			util.BadRequest(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}

	go ctrl.sync.Sync(context.Background())

	util.Created(c, result)
}

func (ctrl *SessionController) GetNextSession(c *gin.Context) {
	userID := c.Param("userId")
	skillID := c.Param("skillId")

	next, err := ctrl.progress.GetNextSessionToPlay(userID, skillID)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}

	last, err := ctrl.progress.GetLastSessionNumber(userID, skillID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"nextSession": next,
		"lastSession": last,
	})
}
