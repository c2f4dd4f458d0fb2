package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/admin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService admin.UserService
}

func NewUserHandler(userService admin.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// @Summary 当前用户信息
// @Description 获取当前登录用户的资料
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "用户信息"
// @Failure 404 {object} xerr.Response "用户不存在"
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetUserProfile(user.ID)
	if err != nil {
		if errors.Is(err, xerr.ErrUserNotFound) {
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
			return
		}
		logger.Error("GetProfile: 查询用户失败", zap.Uint64("userID", user.ID), zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "查询用户信息失败")
		return
	}

	xerr.Success(c, http.StatusOK, "查询成功", profile)
}

// @Summary 调整用户角色
// @Description 把指定用户设置为 user/manager/admin，仅限 admin
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "目标用户 ID"
// @Param data body UpdateRoleRequest true "新角色"
// @Success 200 {object} xerr.Response "调整成功"
// @Failure 400 {object} xerr.Response "无效角色"
// @Failure 403 {object} xerr.Response "仅限 admin"
// @Failure 404 {object} xerr.Response "用户不存在"
// @Router /api/v1/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "无效的用户 ID")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	user, err := h.userService.UpdateUserRole(operator, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, xerr.ErrRoleRequired):
			xerr.Error(c, http.StatusForbidden, xerr.RoleRequiredCode, err.Error())
		case errors.Is(err, xerr.ErrInvalidParams):
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "角色必须是 user/manager/admin")
		case errors.Is(err, xerr.ErrUserNotFound):
			xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
		default:
			logger.Error("UpdateRole: 调整角色失败", zap.Uint64("targetID", targetID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "调整角色失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "角色已调整", gin.H{
		"user_id": user.ID,
		"role":    user.Role,
	})
}
