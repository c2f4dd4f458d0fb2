package handlers

import (
	"errors"
	"net/http"

	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/cdn"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CdnHandler struct {
	cdnService cdn.CdnService
}

func NewCdnHandler(cdnService cdn.CdnService) *CdnHandler {
	return &CdnHandler{cdnService: cdnService}
}

// @Summary 批量引导存储目录
// @Description 为每个部门和在职用户创建 CDN 目录，全部成功 200，部分成功 207，全部失败 500，仅限 admin
// @Tags CDN
// @Produce json
// @Security BearerAuth
// @Success 200 {object} xerr.Response "全部创建成功"
// @Success 207 {object} xerr.Response "部分创建成功"
// @Failure 500 {object} xerr.Response "全部失败或存储密钥未配置"
// @Router /api/v1/cdn/generate-folders [post]
func (h *CdnHandler) GenerateFolders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.cdnService.GenerateFolders(c.Request.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, xerr.ErrRoleRequired):
			xerr.Error(c, http.StatusForbidden, xerr.RoleRequiredCode, err.Error())
		case errors.Is(err, xerr.ErrNoFolderTargets):
			xerr.Error(c, http.StatusBadRequest, xerr.NoFolderTargetsCode, err.Error())
		case errors.Is(err, xerr.ErrStorageKeyMissing):
			xerr.Error(c, http.StatusInternalServerError, xerr.StorageKeyMissingCode, err.Error())
		default:
			logger.Error("GenerateFolders: 目录引导失败", zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.StorageErrorCode, "目录引导失败")
		}
		return
	}

	switch {
	case result.Failed == 0:
		xerr.Success(c, http.StatusOK, "目录全部创建成功", result)
	case result.Succeeded > 0:
		xerr.ErrorWithData(c, http.StatusMultiStatus, xerr.PartialSuccessCode, "部分目录创建失败", result)
	default:
		xerr.ErrorWithData(c, http.StatusInternalServerError, xerr.StorageErrorCode, "目录全部创建失败", result)
	}
}

// @Summary 浏览目录
// @Description 列出 CDN 目录内容，路径不存在时返回最近可用的上级目录建议
// @Tags CDN
// @Produce json
// @Security BearerAuth
// @Param path query string false "目录路径，默认根目录"
// @Success 200 {object} xerr.Response "目录内容"
// @Failure 404 {object} xerr.Response "路径不存在，附上级目录建议"
// @Router /api/v1/cdn [get]
func (h *CdnHandler) ListDirectory(c *gin.Context) {
	listing, suggestion, err := h.cdnService.ListDirectory(c.Request.Context(), c.Query("path"))
	if err != nil {
		switch {
		case errors.Is(err, xerr.ErrCdnPathNotFound):
			xerr.ErrorWithData(c, http.StatusNotFound, xerr.CdnPathNotFoundCode, err.Error(), suggestion)
		case errors.Is(err, xerr.ErrStorageKeyMissing):
			xerr.Error(c, http.StatusInternalServerError, xerr.StorageKeyMissingCode, err.Error())
		default:
			logger.Error("ListDirectory: 列目录失败", zap.String("path", c.Query("path")), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.StorageErrorCode, "列目录失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "查询成功", listing)
}
