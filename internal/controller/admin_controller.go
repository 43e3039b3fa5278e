package controller

import (
	"kidquiz_local/internal/config"
	"kidquiz_local/internal/repository"
	"kidquiz_local/internal/util"
	"kidquiz_local/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	cfg      *config.Config
	syncRepo *repository.SyncRepository
}

func NewAdminController(cfg *config.Config, syncRepo *repository.SyncRepository) *AdminController {
	return &AdminController{
		cfg:      cfg,
		syncRepo: syncRepo,
	}
}

// WipeData 清掉全部本地表，仅 debug 模式可用
func (ctrl *AdminController) WipeData(c *gin.Context) {
	if ctrl.cfg.Server.Mode != "debug" {
		util.Forbidden(c)
		return
	}
	if err := ctrl.syncRepo.WipeAll(); err != nil {
		util.LogInternalError(c, err)
		return
	}
	logger.Log.Warn("all local tables wiped")
	util.Success(c, nil)
}
