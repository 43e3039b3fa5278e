package controller

import (
	"kidquiz_local/internal/service"
	"kidquiz_local/internal/util"

	"github.com/gin-gonic/gin"
)

type SyncController struct {
	sync *service.SyncService
}

func NewSyncController(syncService *service.SyncService) *SyncController {
	return &SyncController{sync: syncService}
}

// TriggerSync 屏幕聚焦、答题结束等时机由 UI 调用。
// 同步失败对学习者不可见，这里只回报结果不报错。
func (ctrl *SyncController) TriggerSync(c *gin.Context) {
	ok := ctrl.sync.Sync(c.Request.Context())

	watermark, err := ctrl.sync.Watermark()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"synced":    ok,
		"watermark": watermark,
	})
}
