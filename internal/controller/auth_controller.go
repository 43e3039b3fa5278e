package controller

import (
	"kidquiz_local/internal/service"
	"kidquiz_local/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	tokens *service.TokenService
}

func NewAuthController(tokens *service.TokenService) *AuthController {
	return &AuthController{tokens: tokens}
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// SetToken 登录在远端完成，UI 把拿到的 Bearer token 交给核心保存
func (ctrl *AuthController) SetToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "token is required")
		return
	}
	if err := ctrl.tokens.Set(req.Token); err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}

func (ctrl *AuthController) ClearToken(c *gin.Context) {
	ctrl.tokens.Evict()
	util.Success(c, nil)
}
