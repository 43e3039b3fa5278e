package controller

import (
	"errors"

	"kidquiz_local/internal/service"
	"kidquiz_local/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	content *service.ContentService
}

func NewContentController(content *service.ContentService) *ContentController {
	return &ContentController{content: content}
}

func (ctrl *ContentController) GetSubjects(c *gin.Context) {
	subjects, err := ctrl.content.GetSubjects()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, subjects)
}

type selectSubjectsRequest struct {
	SubjectIDs []string `json:"subjectIds" binding:"required"`
}

func (ctrl *ContentController) SelectSubjects(c *gin.Context) {
	userID := c.Param("userId")

	var req selectSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "subjectIds is required")
		return
	}

	if err := ctrl.content.SelectSubjects(userID, req.SubjectIDs); err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

func (ctrl *ContentController) GetUserSubjects(c *gin.Context) {
	subjects, err := ctrl.content.GetUserSubjects(c.Param("userId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, subjects)
}

func (ctrl *ContentController) GetSkills(c *gin.Context) {
	skills, err := ctrl.content.GetSkills(c.Param("subjectId"), c.Query("standard"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, skills)
}
