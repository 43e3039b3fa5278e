package app

import (
	"kidquiz_local/internal/config"
	"kidquiz_local/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)

		api.PUT("/auth/token", c.auth.SetToken)
		api.DELETE("/auth/token", c.auth.ClearToken)

		api.GET("/subjects", c.content.GetSubjects)
		api.GET("/subjects/:subjectId/skills", c.content.GetSkills)

		api.GET("/skills/:skillId/sessions/:n/questions", c.session.GetQuestions)

		users := api.Group("/users/:userId")
		{
			users.PUT("/subjects", c.content.SelectSubjects)
			users.GET("/subjects", c.content.GetUserSubjects)

			users.POST("/sessions", c.session.RecordSession)
			users.GET("/skills/:skillId/next-session", c.session.GetNextSession)

			users.GET("/stats", c.dashboard.GetStats)
			users.GET("/dashboard", c.dashboard.GetDashboard)
			users.GET("/reports", c.dashboard.GetReport)
			users.GET("/recommended-skill", c.dashboard.GetRecommendedSkill)
			users.GET("/rewards", c.dashboard.GetRewards)
			users.GET("/progress", c.dashboard.GetProgress)
		}

		api.POST("/sync", c.sync.TriggerSync)

		// 调试接口，release 模式下 403
		api.POST("/admin/wipe", c.admin.WipeData)
	}
}
