package sharing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/cache"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/utils"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 拦截原因
const (
	BlockedReasonRequiresScan = "requires scan"
)

// 分享列表视角
const (
	ListSharedByMe   = "shared-by-me"
	ListSharedWithMe = "shared-with-me"
)

// ShareRequest 一次分享请求的输入，目标字段按 SharingType 二选一
type ShareRequest struct {
	ItemPath            string
	ItemName            string
	ItemType            string
	SharingType         string
	SharedWithUserID    *uint64
	SharedWithContactID *uint64
	CanView             bool
	CanDownload         bool
	CanEdit             bool
	CanDelete           bool
	Description         string
	ExpiresAt           *time.Time
	UserAcknowledged    bool
	UserJustification   string
}

// RequestMeta 审计记录需要的请求来源信息
type RequestMeta struct {
	IP        string
	UserAgent string
}

// ShareResult 网关的判定结果
// Allowed=false 时 Item 为空，Handler 据此返回 403 结构化响应
type ShareResult struct {
	Allowed           bool               `json:"allowed"`
	GdprCompliant     bool               `json:"gdpr_compliant"`
	ScanRequired      bool               `json:"scan_required"`
	BlockedReason     string             `json:"blocked_reason,omitempty"`
	RiskLevel         string             `json:"risk_level,omitempty"`
	PersonalDataTypes []string           `json:"personal_data_types,omitempty"`
	Item              *models.SharedItem `json:"item,omitempty"`
}

// GateService 合规网关：每次分享请求先过 GDPR 检查再落库
type GateService interface {
	// Share 执行一次完整的网关判定，无论放行还是拦截都会留下审计记录
	Share(ctx context.Context, user *models.User, req *ShareRequest, meta RequestMeta) (*ShareResult, error)
	// ListShares 按视角列出分享，listType 取 shared-by-me 或 shared-with-me
	ListShares(ctx context.Context, userID uint64, listType string) ([]models.SharedItem, error)
	// RevokeShare 软撤销一条分享，仅限发起人
	RevokeShare(ctx context.Context, userID uint64, shareID uint64) error
}

type gateService struct {
	sharingRepo    repositories.SharingRepository
	scanResultRepo repositories.ScanResultRepository
	userRepo       repositories.UserRepository
	contactRepo    repositories.ContactRepository
	txManager      TransactionManager
	publisher      AttemptPublisher
	cacheService   cache.Cache
	cfg            *config.Config
}

var _ GateService = (*gateService)(nil)

// NewGateService 创建一个新的 GateService 实例
func NewGateService(
	sharingRepo repositories.SharingRepository,
	scanResultRepo repositories.ScanResultRepository,
	userRepo repositories.UserRepository,
	contactRepo repositories.ContactRepository,
	txManager TransactionManager,
	publisher AttemptPublisher,
	cacheService cache.Cache,
	cfg *config.Config,
) GateService {
	return &gateService{
		sharingRepo:    sharingRepo,
		scanResultRepo: scanResultRepo,
		userRepo:       userRepo,
		contactRepo:    contactRepo,
		txManager:      txManager,
		publisher:      publisher,
		cacheService:   cacheService,
		cfg:            cfg,
	}
}

func (s *gateService) Share(ctx context.Context, user *models.User, req *ShareRequest, meta RequestMeta) (*ShareResult, error) {
	if err := validateShareRequest(req); err != nil {
		return nil, err
	}

	targetID, err := s.resolveTarget(req)
	if err != nil {
		return nil, err
	}

	// 文件走合规检查，目录分享不做扫描（既有范围限制，保持不变）
	compliant := true
	scanRequired := false
	blockedReason := ""
	var scanResult *models.ScanResult
	if req.ItemType == models.ItemTypeFile {
		scanResult, err = s.latestFreshScan(ctx, req.ItemPath)
		if err != nil {
			return nil, err
		}
		switch {
		case scanResult == nil:
			compliant = false
			scanRequired = true
			blockedReason = BlockedReasonRequiresScan
		case scanResult.HasPersonalData:
			compliant = false
			blockedReason = fmt.Sprintf("personal data detected: risk level %s, types %s",
				scanResult.RiskLevel, strings.Join(scanResult.PersonalDataTypes, ", "))
		}
	}

	attempt := s.buildAttempt(user, req, meta, targetID, compliant, scanRequired, blockedReason, scanResult)

	// 未确认的不合规请求：只落审计，不建分享
	if !compliant && !req.UserAcknowledged {
		if err := s.sharingRepo.CreateAttempt(attempt); err != nil {
			logger.Error("写入拦截审计记录失败", zap.Uint64("userID", user.ID), zap.Error(err))
			return nil, xerr.ErrDatabaseError
		}
		s.publisher.PublishAttempt(attempt)
		return s.blockedResult(attempt, scanResult), nil
	}

	// 确认绕过必须带非空理由
	if !compliant && strings.TrimSpace(req.UserJustification) == "" {
		return nil, xerr.ErrJustificationRequired
	}

	item, err := s.buildSharedItem(user, req, targetID)
	if err != nil {
		return nil, err
	}

	// 放行路径的三步写入在一个事务内完成，崩溃不会留下半套记录
	err = s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.sharingRepo.WithTx(tx)
		if err := txRepo.CreateSharedItem(item); err != nil {
			return err
		}
		if err := txRepo.CreateAttempt(attempt); err != nil {
			return err
		}
		if req.SharingType == models.ShareTypeUser {
			return txRepo.UpsertUserSharedFolder(*req.SharedWithUserID, req.ItemPath)
		}
		return nil
	})
	if err != nil {
		logger.Error("分享写入事务失败",
			zap.Uint64("userID", user.ID), zap.String("itemPath", req.ItemPath), zap.Error(err))
		return nil, xerr.ErrDatabaseError
	}

	s.publisher.PublishAttempt(attempt)
	logger.Info("分享已创建",
		zap.Uint64("userID", user.ID),
		zap.Uint64("sharedItemID", item.ID),
		zap.String("sharingType", req.SharingType),
		zap.Bool("gdprCompliant", compliant))

	result := &ShareResult{
		Allowed:       true,
		GdprCompliant: compliant,
		ScanRequired:  scanRequired,
		Item:          item,
	}
	if scanResult != nil {
		result.RiskLevel = scanResult.RiskLevel
		result.PersonalDataTypes = scanResult.PersonalDataTypes
	}
	return result, nil
}

func (s *gateService) ListShares(ctx context.Context, userID uint64, listType string) ([]models.SharedItem, error) {
	switch listType {
	case ListSharedByMe:
		return s.sharingRepo.FindSharedByOwner(userID)
	case ListSharedWithMe:
		return s.sharingRepo.FindSharedWithUser(userID)
	default:
		return nil, xerr.ErrInvalidParams
	}
}

func (s *gateService) RevokeShare(ctx context.Context, userID uint64, shareID uint64) error {
	item, err := s.sharingRepo.FindSharedItemByID(shareID)
	if err != nil {
		return xerr.ErrDatabaseError
	}
	if item == nil || !item.IsActive {
		return xerr.ErrShareNotFound
	}
	if item.SharedByUserID != userID {
		return xerr.ErrPermissionDenied
	}
	if err := s.sharingRepo.DeactivateSharedItem(item); err != nil {
		logger.Error("撤销分享失败", zap.Uint64("sharedItemID", shareID), zap.Error(err))
		return xerr.ErrDatabaseError
	}
	logger.Info("分享已撤销", zap.Uint64("userID", userID), zap.Uint64("sharedItemID", shareID))
	return nil
}

func validateShareRequest(req *ShareRequest) error {
	if strings.TrimSpace(req.ItemPath) == "" || strings.TrimSpace(req.ItemName) == "" {
		return xerr.ErrInvalidParams
	}
	if req.ItemType != models.ItemTypeFile && req.ItemType != models.ItemTypeFolder {
		return xerr.ErrInvalidItemType
	}
	switch req.SharingType {
	case models.ShareTypeUser:
		if req.SharedWithUserID == nil {
			return xerr.ErrInvalidParams
		}
	case models.ShareTypeContact:
		if req.SharedWithContactID == nil {
			return xerr.ErrInvalidParams
		}
	default:
		return xerr.ErrInvalidShareType
	}
	return nil
}

func (s *gateService) resolveTarget(req *ShareRequest) (uint64, error) {
	if req.SharingType == models.ShareTypeUser {
		target, err := s.userRepo.GetUserByID(*req.SharedWithUserID)
		if err != nil {
			return 0, xerr.ErrDatabaseError
		}
		if target == nil {
			return 0, xerr.ErrUserNotFound
		}
		return target.ID, nil
	}
	target, err := s.contactRepo.FindByID(*req.SharedWithContactID)
	if err != nil {
		return 0, xerr.ErrDatabaseError
	}
	if target == nil {
		return 0, xerr.ErrContactNotFound
	}
	return target.ID, nil
}

// latestFreshScan 先查短缓存，未命中再查库，只认新鲜度窗口内的结果
func (s *gateService) latestFreshScan(ctx context.Context, filePath string) (*models.ScanResult, error) {
	since := time.Now().Add(-s.cfg.Share.ScanFreshness)

	if s.cacheService != nil {
		var cached models.ScanResult
		if err := s.cacheService.Get(ctx, cache.GenerateScanResultKey(filePath), &cached); err == nil {
			if cached.ScanDate.After(since) {
				return &cached, nil
			}
		}
	}

	result, err := s.scanResultRepo.FindLatestByPath(filePath, since)
	if err != nil {
		logger.Error("查询扫描结果失败", zap.String("filePath", filePath), zap.Error(err))
		return nil, xerr.ErrDatabaseError
	}
	return result, nil
}

func (s *gateService) buildAttempt(
	user *models.User,
	req *ShareRequest,
	meta RequestMeta,
	targetID uint64,
	compliant, scanRequired bool,
	blockedReason string,
	scanResult *models.ScanResult,
) *models.SharingAttempt {
	attempt := &models.SharingAttempt{
		UserID:           user.ID,
		ItemPath:         req.ItemPath,
		ItemName:         req.ItemName,
		ItemType:         req.ItemType,
		SharingType:      req.SharingType,
		TargetID:         targetID,
		TargetType:       req.SharingType,
		GdprCompliant:    compliant, // 绕过时保留原始扫描结论，审计里能看出谁绕过了拦截
		ScanRequired:     scanRequired,
		ScanCompleted:    scanResult != nil,
		UserAcknowledged: req.UserAcknowledged,
		AttemptDate:      time.Now(),
		RequestIP:        meta.IP,
		UserAgent:        meta.UserAgent,
	}
	if blockedReason != "" {
		attempt.BlockedReason = &blockedReason
	}
	if justification := strings.TrimSpace(req.UserJustification); justification != "" {
		attempt.UserJustification = &justification
	}
	if scanResult != nil {
		attempt.ScanResultID = &scanResult.ID
	}
	return attempt
}

func (s *gateService) buildSharedItem(user *models.User, req *ShareRequest, targetID uint64) (*models.SharedItem, error) {
	item := &models.SharedItem{
		ItemPath:       req.ItemPath,
		ItemName:       req.ItemName,
		ItemType:       req.ItemType,
		SharedByUserID: user.ID,
		SharingType:    req.SharingType,
		CanView:        req.CanView,
		CanDownload:    req.CanDownload,
		CanEdit:        req.CanEdit,
		CanDelete:      req.CanDelete,
		Description:    req.Description,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       true,
		SharedAt:       time.Now(),
	}
	switch req.SharingType {
	case models.ShareTypeUser:
		item.SharedWithUserID = &targetID
	case models.ShareTypeContact:
		item.SharedWithContactID = &targetID
		token, err := utils.GenerateShareToken()
		if err != nil {
			logger.Error("生成外链令牌失败", zap.Error(err))
			return nil, xerr.ErrInternalServer
		}
		item.ShareLink = &token
		linkExpiry := time.Now().Add(s.cfg.Share.LinkExpiresIn)
		item.ShareLinkExpiresAt = &linkExpiry
	}
	return item, nil
}

func (s *gateService) blockedResult(attempt *models.SharingAttempt, scanResult *models.ScanResult) *ShareResult {
	result := &ShareResult{
		Allowed:       false,
		GdprCompliant: false,
		ScanRequired:  attempt.ScanRequired,
	}
	if attempt.BlockedReason != nil {
		result.BlockedReason = *attempt.BlockedReason
	}
	if scanResult != nil {
		result.RiskLevel = scanResult.RiskLevel
		result.PersonalDataTypes = scanResult.PersonalDataTypes
	}
	return result
}
