package handlers

import (
	"errors"
	"net/http"

	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/erp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErpHandler struct {
	syncService erp.SyncService
}

func NewErpHandler(syncService erp.SyncService) *ErpHandler {
	return &ErpHandler{syncService: syncService}
}

// @Summary 同步 ERP 数据
// @Description 从 ERP 拉取公司与联系人并幂等写入本地库，仅限 admin
// @Tags ERP
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "同步统计"
// @Failure 403 {object} xerr.Response "角色不足"
// @Failure 500 {object} xerr.Response "ERP 接口调用失败"
// @Router /api/v1/erp/sync [post]
func (h *ErpHandler) Sync(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.syncService.Sync(c.Request.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, xerr.ErrRoleRequired):
			xerr.Error(c, http.StatusForbidden, xerr.RoleRequiredCode, err.Error())
		case errors.Is(err, xerr.ErrErpError):
			xerr.Error(c, http.StatusInternalServerError, xerr.ErpErrorCode, "ERP 接口调用失败")
		default:
			logger.Error("Sync: ERP 同步失败", zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "ERP 同步失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "同步完成", stats)
}
