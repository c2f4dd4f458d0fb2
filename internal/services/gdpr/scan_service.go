package gdpr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/cache"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/storage"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"go.uber.org/zap"
)

// ScanService 定义了按需扫描文件并持久化结果的接口
type ScanService interface {
	// ScanFile 从 CDN 拉取文件内容，执行分类并写入一条新的扫描记录
	ScanFile(ctx context.Context, filePath string) (*models.ScanResult, error)
}

type scanService struct {
	scanner        *Scanner
	scanResultRepo repositories.ScanResultRepository
	storageService storage.StorageService
	cacheService   cache.Cache
	cfg            *config.Config
}

var _ ScanService = (*scanService)(nil)

// NewScanService 创建一个新的 ScanService 实例
func NewScanService(
	scanner *Scanner,
	scanResultRepo repositories.ScanResultRepository,
	storageService storage.StorageService,
	cacheService cache.Cache,
	cfg *config.Config,
) ScanService {
	return &scanService{
		scanner:        scanner,
		scanResultRepo: scanResultRepo,
		storageService: storageService,
		cacheService:   cacheService,
		cfg:            cfg,
	}
}

func (s *scanService) ScanFile(ctx context.Context, filePath string) (*models.ScanResult, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, xerr.ErrInvalidParams
	}

	started := time.Now()
	content, size, readErr := s.readContent(ctx, filePath)

	var classification Classification
	if readErr != nil {
		if errors.Is(readErr, storage.ErrPathNotFound) {
			return nil, xerr.ErrCdnPathNotFound
		}
		// 内容读取失败时保守分类，而不是静默放过
		logger.Warn("ScanFile: 读取文件内容失败，按高风险处理",
			zap.String("filePath", filePath), zap.Error(readErr))
		classification = Classification{
			HasPersonalData:   true,
			PersonalDataTypes: []string{CategoryUnreadable},
			RiskLevel:         models.RiskHigh,
			ScanErrors:        []string{readErr.Error()},
		}
	} else {
		classification = s.scanner.Classify(ScanInput{
			FilePath: filePath,
			FileName: path.Base(filePath),
			FileType: strings.TrimPrefix(path.Ext(filePath), "."),
			Content:  content,
		})
	}

	result := &models.ScanResult{
		FilePath:          filePath,
		FileName:          path.Base(filePath),
		ScanDate:          time.Now(),
		HasPersonalData:   classification.HasPersonalData,
		PersonalDataTypes: classification.PersonalDataTypes,
		RiskLevel:         classification.RiskLevel,
		FileType:          strings.TrimPrefix(path.Ext(filePath), "."),
		FileSize:          size,
		ScanDuration:      time.Since(started).Milliseconds(),
	}
	if len(classification.ScanErrors) > 0 {
		joined := strings.Join(classification.ScanErrors, "; ")
		result.ScanErrors = &joined
	}

	if err := s.scanResultRepo.Create(result); err != nil {
		logger.Error("ScanFile: 写入扫描记录失败", zap.String("filePath", filePath), zap.Error(err))
		return nil, fmt.Errorf("写入扫描记录失败: %w", err)
	}

	// 刷新网关使用的新鲜度缓存
	if s.cacheService != nil {
		key := cache.GenerateScanResultKey(filePath)
		if err := s.cacheService.Set(ctx, key, result, cache.ScanResultTTL); err != nil {
			logger.Warn("ScanFile: 更新扫描缓存失败", zap.String("filePath", filePath), zap.Error(err))
		}
	}

	logger.Info("ScanFile: 扫描完成",
		zap.String("filePath", filePath),
		zap.String("riskLevel", result.RiskLevel),
		zap.Bool("hasPersonalData", result.HasPersonalData))
	return result, nil
}

// readContent 拉取文件内容，超过配置上限时只读前缀
func (s *scanService) readContent(ctx context.Context, filePath string) ([]byte, int64, error) {
	reader, err := s.storageService.Download(ctx, filePath)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	limit := s.cfg.Share.ScanMaxFileBytes
	if limit <= 0 {
		limit = 4 << 20
	}
	content, err := io.ReadAll(io.LimitReader(reader, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("读取文件内容失败: %w", err)
	}
	return content, int64(len(content)), nil
}
