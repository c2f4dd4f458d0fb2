package cdn

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/storage"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"go.uber.org/zap"
)

// FolderResult 单个目录的引导结果
type FolderResult struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GenerateFoldersResult 批量引导的汇总
// Succeeded==0 时整体失败，部分成功时调用方返回 207
type GenerateFoldersResult struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []FolderResult `json:"results"`
}

// DirectoryListing 目录列表响应
type DirectoryListing struct {
	Path    string               `json:"path"`
	Entries []storage.ObjectInfo `json:"entries"`
}

// PathSuggestion 路径不存在时给调用方的修正提示
type PathSuggestion struct {
	Path      string `json:"path"`
	Suggested string `json:"suggested"` // 最近的存在的上级目录
}

// CdnService CDN 目录引导与浏览
type CdnService interface {
	// GenerateFolders 为每个部门和在职用户引导存储目录，逐项记录结果
	GenerateFolders(ctx context.Context, user *models.User) (*GenerateFoldersResult, error)
	// ListDirectory 列出目录内容，路径不存在时返回 ErrCdnPathNotFound 和上级目录建议
	ListDirectory(ctx context.Context, dirPath string) (*DirectoryListing, *PathSuggestion, error)
}

type cdnService struct {
	userRepo       repositories.UserRepository
	storageService storage.StorageService
}

var _ CdnService = (*cdnService)(nil)

// NewCdnService 创建一个新的 CdnService 实例
func NewCdnService(userRepo repositories.UserRepository, storageService storage.StorageService) CdnService {
	return &cdnService{
		userRepo:       userRepo,
		storageService: storageService,
	}
}

func (s *cdnService) GenerateFolders(ctx context.Context, user *models.User) (*GenerateFoldersResult, error) {
	if user.Role != models.RoleAdmin {
		return nil, xerr.ErrRoleRequired
	}

	departments, err := s.userRepo.ListDepartments()
	if err != nil {
		return nil, xerr.ErrDatabaseError
	}
	users, err := s.userRepo.ListActiveUsers()
	if err != nil {
		return nil, xerr.ErrDatabaseError
	}

	paths := make([]string, 0, len(departments)+len(users))
	for _, dept := range departments {
		paths = append(paths, fmt.Sprintf("departments/%s", sanitizeSegment(dept.Name)))
	}
	for _, u := range users {
		paths = append(paths, fmt.Sprintf("users/%s", sanitizeSegment(u.Username)))
	}
	if len(paths) == 0 {
		return nil, xerr.ErrNoFolderTargets
	}

	result := &GenerateFoldersResult{
		Total:   len(paths),
		Results: make([]FolderResult, 0, len(paths)),
	}
	for _, folderPath := range paths {
		err := s.storageService.EnsureFolder(ctx, folderPath)
		if err != nil {
			// 密钥缺失是配置错误，逐项重试没有意义，直接整体失败
			if errors.Is(err, storage.ErrAccessKeyMissing) {
				return nil, xerr.ErrStorageKeyMissing
			}
			logger.Error("目录引导失败", zap.String("path", folderPath), zap.Error(err))
			result.Failed++
			result.Results = append(result.Results, FolderResult{
				Path:  folderPath,
				Error: err.Error(),
			})
			continue
		}
		result.Succeeded++
		result.Results = append(result.Results, FolderResult{
			Path:    folderPath,
			Success: true,
		})
	}

	logger.Info("目录引导完成",
		zap.Uint64("userID", user.ID),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *cdnService) ListDirectory(ctx context.Context, dirPath string) (*DirectoryListing, *PathSuggestion, error) {
	dirPath = strings.Trim(dirPath, "/")

	entries, err := s.storageService.List(ctx, dirPath)
	if err != nil {
		if errors.Is(err, storage.ErrPathNotFound) {
			suggestion := &PathSuggestion{
				Path:      dirPath,
				Suggested: s.nearestExistingParent(ctx, dirPath),
			}
			return nil, suggestion, xerr.ErrCdnPathNotFound
		}
		if errors.Is(err, storage.ErrAccessKeyMissing) {
			return nil, nil, xerr.ErrStorageKeyMissing
		}
		logger.Error("列目录失败", zap.String("path", dirPath), zap.Error(err))
		return nil, nil, xerr.ErrStorageError
	}

	return &DirectoryListing{Path: dirPath, Entries: entries}, nil, nil
}

// nearestExistingParent 逐级回退找到最近的存在的上级目录，根目录兜底
func (s *cdnService) nearestExistingParent(ctx context.Context, dirPath string) string {
	for parent := path.Dir(dirPath); parent != "." && parent != "/"; parent = path.Dir(parent) {
		if _, err := s.storageService.List(ctx, parent); err == nil {
			return parent
		}
	}
	return ""
}

// sanitizeSegment 目录名里不允许出现路径分隔符
func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	return name
}
