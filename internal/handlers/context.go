package handlers

import (
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/utils"
	"github.com/gin-gonic/gin"
)

// currentUser 从认证中间件写入的 claims 还原当前用户
// 服务层按参数接收当前用户，不读全局状态
func currentUser(c *gin.Context) (*models.User, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return nil, false
	}
	return &models.User{
		ID:       userID,
		Username: c.GetString("username"),
		Email:    c.GetString("email"),
		Role:     utils.GetUserRoleFromContext(c),
	}, true
}
