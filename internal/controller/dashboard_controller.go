package controller

import (
	"time"

	"kidquiz_local/internal/service"
	"kidquiz_local/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	dashboard *service.DashboardService
	progress  *service.ProgressService
}

func NewDashboardController(dashboard *service.DashboardService, progress *service.ProgressService) *DashboardController {
	return &DashboardController{
		dashboard: dashboard,
		progress:  progress,
	}
}

func (ctrl *DashboardController) GetStats(c *gin.Context) {
	stats, err := ctrl.dashboard.GetUserStats(c.Param("userId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, stats)
}

func (ctrl *DashboardController) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.dashboard.GetDashboard(c.Param("userId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, dashboard)
}

// GetReport from/to 按 RFC3339 解析，to 缺省为当前时间，from 缺省为 to 前 7 天
func (ctrl *DashboardController) GetReport(c *gin.Context) {
	to := time.Now()
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.BadRequest(c, "invalid to timestamp")
			return
		}
		to = parsed
	}

	from := to.AddDate(0, 0, -7)
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.BadRequest(c, "invalid from timestamp")
			return
		}
		from = parsed
	}

	report, err := ctrl.dashboard.GetPeriodReport(c.Param("userId"), from, to)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, report)
}

func (ctrl *DashboardController) GetRecommendedSkill(c *gin.Context) {
	recommended, err := ctrl.dashboard.GetRecommendedSkill(c.Param("userId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, recommended)
}

func (ctrl *DashboardController) GetRewards(c *gin.Context) {
	rewards, err := ctrl.dashboard.GetUserRewards(c.Param("userId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, rewards)
}

func (ctrl *DashboardController) GetProgress(c *gin.Context) {
	rows, err := ctrl.progress.ListProgress(c.Param("userId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, rows)
}
