package setup

import (
	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/storage"
	"go.uber.org/zap"
)

// InitStorage 按配置初始化 CDN 存储后端
func InitStorage(cfg *config.Config) storage.StorageService {
	storageService, err := storage.NewStorageService(cfg)
	if err != nil {
		logger.Fatal("初始化 CDN 存储服务失败",
			zap.String("type", cfg.CDN.Type), zap.Error(err))
	}
	logger.Info("CDN 存储服务已初始化", zap.String("type", cfg.CDN.Type))
	return storageService
}
