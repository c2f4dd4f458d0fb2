package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/notify"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/sharing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SharingHandler struct {
	gateService   sharing.GateService
	notifyService notify.NotifyService
}

func NewSharingHandler(gateService sharing.GateService, notifyService notify.NotifyService) *SharingHandler {
	return &SharingHandler{
		gateService:   gateService,
		notifyService: notifyService,
	}
}

type CreateShareRequest struct {
	ItemPath            string     `json:"item_path" binding:"required"`
	ItemName            string     `json:"item_name" binding:"required"`
	ItemType            string     `json:"item_type" binding:"required"`
	SharingType         string     `json:"sharing_type" binding:"required"`
	SharedWithUserID    *uint64    `json:"shared_with_user_id"`
	SharedWithContactID *uint64    `json:"shared_with_contact_id"`
	CanView             *bool      `json:"can_view"`
	CanDownload         bool       `json:"can_download"`
	CanEdit             bool       `json:"can_edit"`
	CanDelete           bool       `json:"can_delete"`
	Description         string     `json:"description"`
	ExpiresAt           *time.Time `json:"expires_at"`
	UserAcknowledged    bool       `json:"user_acknowledged"`
	UserJustification   string     `json:"user_justification"`
}

type SendShareEmailRequest struct {
	SharedItemID uint64 `json:"shared_item_id" binding:"required"`
}

// @Summary 创建分享
// @Description 创建文件或目录分享，文件分享先过 GDPR 合规检查，不合规时返回 403 和确认提示
// @Tags 分享
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body CreateShareRequest true "分享信息"
// @Success 200 {object} xerr.Response "分享创建成功"
// @Failure 400 {object} xerr.Response "参数错误或缺少绕过理由"
// @Failure 403 {object} xerr.Response "GDPR 合规拦截"
// @Failure 404 {object} xerr.Response "分享目标不存在"
// @Router /api/v1/sharing [post]
func (h *SharingHandler) CreateShare(c *gin.Context) {
	var req CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	// 查看权限默认开
	canView := true
	if req.CanView != nil {
		canView = *req.CanView
	}
	shareReq := &sharing.ShareRequest{
		ItemPath:            req.ItemPath,
		ItemName:            req.ItemName,
		ItemType:            req.ItemType,
		SharingType:         req.SharingType,
		SharedWithUserID:    req.SharedWithUserID,
		SharedWithContactID: req.SharedWithContactID,
		CanView:             canView,
		CanDownload:         req.CanDownload,
		CanEdit:             req.CanEdit,
		CanDelete:           req.CanDelete,
		Description:         req.Description,
		ExpiresAt:           req.ExpiresAt,
		UserAcknowledged:    req.UserAcknowledged,
		UserJustification:   req.UserJustification,
	}
	meta := sharing.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.gateService.Share(c.Request.Context(), user, shareReq, meta)
	if err != nil {
		h.respondShareError(c, err)
		return
	}

	if !result.Allowed {
		// 合规拦截：结构化 body 与普通 403 区分，前端据此弹确认框
		xerr.ErrorWithData(c, http.StatusForbidden, xerr.GdprBlockedCode, xerr.ErrGdprBlocked.Error(), gin.H{
			"gdpr_compliant":          false,
			"requires_acknowledgment": true,
			"scan_required":           result.ScanRequired,
			"blocked_reason":          result.BlockedReason,
			"risk_level":              result.RiskLevel,
			"personal_data_types":     result.PersonalDataTypes,
		})
		return
	}

	xerr.Success(c, http.StatusOK, "分享创建成功", gin.H{
		"item":           result.Item,
		"gdpr_compliant": result.GdprCompliant,
	})
}

// @Summary 分享列表
// @Description 按视角列出分享，type 取 shared-by-me 或 shared-with-me
// @Tags 分享
// @Produce json
// @Security BearerAuth
// @Param type query string true "列表视角" Enums(shared-by-me, shared-with-me)
// @Success 200 {object} xerr.Response "分享列表"
// @Failure 400 {object} xerr.Response "无效的列表视角"
// @Router /api/v1/sharing [get]
func (h *SharingHandler) ListShares(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.gateService.ListShares(c.Request.Context(), user.ID, c.Query("type"))
	if err != nil {
		if errors.Is(err, xerr.ErrInvalidParams) {
			xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "type 必须是 shared-by-me 或 shared-with-me")
			return
		}
		logger.Error("ListShares: 查询分享列表失败", zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.DatabaseErrorCode, "查询分享列表失败")
		return
	}

	xerr.Success(c, http.StatusOK, "查询成功", gin.H{"items": items})
}

// @Summary 撤销分享
// @Description 软撤销一条分享，仅限发起人
// @Tags 分享
// @Produce json
// @Security BearerAuth
// @Param id path int true "分享记录 ID"
// @Success 200 {object} xerr.Response "撤销成功"
// @Failure 403 {object} xerr.Response "非分享发起人"
// @Failure 404 {object} xerr.Response "分享记录不存在"
// @Router /api/v1/sharing/{id} [delete]
func (h *SharingHandler) RevokeShare(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	shareID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "无效的分享记录 ID")
		return
	}

	if err := h.gateService.RevokeShare(c.Request.Context(), user.ID, shareID); err != nil {
		switch {
		case errors.Is(err, xerr.ErrShareNotFound):
			xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, err.Error())
		case errors.Is(err, xerr.ErrPermissionDenied):
			xerr.Error(c, http.StatusForbidden, xerr.PermissionDeniedCode, err.Error())
		default:
			logger.Error("RevokeShare: 撤销分享失败", zap.Uint64("shareID", shareID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.DatabaseErrorCode, "撤销分享失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "分享已撤销", nil)
}

// @Summary 发送分享通知邮件
// @Description 给联系人分享发送外链通知邮件，仅限分享发起人
// @Tags 分享
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body SendShareEmailRequest true "分享记录"
// @Success 200 {object} xerr.Response "邮件已发送"
// @Failure 400 {object} xerr.Response "非联系人分享/缺少外链/联系人无邮箱"
// @Failure 403 {object} xerr.Response "非分享发起人"
// @Failure 404 {object} xerr.Response "分享记录不存在"
// @Failure 500 {object} xerr.Response "邮件发送失败"
// @Router /api/v1/sharing/send-email [post]
func (h *SharingHandler) SendShareEmail(c *gin.Context) {
	var req SendShareEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "请求参数解析失败: "+err.Error())
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.notifyService.SendShareEmail(c.Request.Context(), user, req.SharedItemID); err != nil {
		switch {
		case errors.Is(err, xerr.ErrShareNotFound):
			xerr.Error(c, http.StatusNotFound, xerr.ShareNotFoundCode, err.Error())
		case errors.Is(err, xerr.ErrPermissionDenied):
			xerr.Error(c, http.StatusForbidden, xerr.PermissionDeniedCode, err.Error())
		case errors.Is(err, xerr.ErrNotContactShare):
			xerr.Error(c, http.StatusBadRequest, xerr.NotContactShareCode, err.Error())
		case errors.Is(err, xerr.ErrShareLinkMissing):
			xerr.Error(c, http.StatusBadRequest, xerr.ShareLinkMissingCode, err.Error())
		case errors.Is(err, xerr.ErrContactNotFound):
			xerr.Error(c, http.StatusNotFound, xerr.ContactNotFoundCode, err.Error())
		case errors.Is(err, xerr.ErrContactNoEmail):
			xerr.Error(c, http.StatusBadRequest, xerr.ContactNoEmailCode, err.Error())
		case errors.Is(err, xerr.ErrSmtpError):
			xerr.Error(c, http.StatusInternalServerError, xerr.SmtpErrorCode, "邮件发送失败")
		default:
			logger.Error("SendShareEmail: 发送通知失败", zap.Uint64("sharedItemID", req.SharedItemID), zap.Error(err))
			xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "邮件发送失败")
		}
		return
	}

	xerr.Success(c, http.StatusOK, "邮件已发送", nil)
}

// respondShareError 网关错误到 HTTP 状态码的映射
func (h *SharingHandler) respondShareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, xerr.ErrInvalidParams):
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, err.Error())
	case errors.Is(err, xerr.ErrInvalidShareType):
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidShareTypeCode, err.Error())
	case errors.Is(err, xerr.ErrInvalidItemType):
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidItemTypeCode, err.Error())
	case errors.Is(err, xerr.ErrJustificationRequired):
		xerr.Error(c, http.StatusBadRequest, xerr.JustificationRequiredCode, err.Error())
	case errors.Is(err, xerr.ErrUserNotFound):
		xerr.Error(c, http.StatusNotFound, xerr.UserNotFoundCode, err.Error())
	case errors.Is(err, xerr.ErrContactNotFound):
		xerr.Error(c, http.StatusNotFound, xerr.ContactNotFoundCode, err.Error())
	default:
		logger.Error("CreateShare: 网关执行失败", zap.Error(err))
		xerr.Error(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "分享创建失败")
	}
}
