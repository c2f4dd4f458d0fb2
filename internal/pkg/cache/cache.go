package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache 定义了服务层依赖的缓存操作接口
type Cache interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Get(ctx context.Context, key string, target any) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// 缓存键的 TTL
const (
	ScanResultTTL = 5 * time.Minute // 扫描新鲜度查询的短缓存
	ReportListTTL = 1 * time.Minute // 报告列表首页缓存
)

// GenerateScanResultKey 生成文件扫描结果的缓存键
func GenerateScanResultKey(filePath string) string {
	return fmt.Sprintf("gfiles:scan:latest:%s", filePath)
}

// GenerateReportListKey 生成报告列表的缓存键
func GenerateReportListKey(page, pageSize int) string {
	return fmt.Sprintf("gfiles:reports:list:%d:%d", page, pageSize)
}
