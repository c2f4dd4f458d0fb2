package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
)

// ErrPathNotFound 表示请求的存储路径不存在
var ErrPathNotFound = errors.New("存储路径不存在")

// ErrAccessKeyMissing 表示存储密钥未配置，调用方应返回 500
var ErrAccessKeyMissing = errors.New("存储访问密钥未配置")

// StorageService 定义了通用的 CDN 存储操作接口
type StorageService interface {
	// Upload 上传对象到指定路径
	Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error
	// Download 下载对象内容，调用方负责关闭读取器
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete 删除对象
	Delete(ctx context.Context, path string) error
	// List 列出目录内容，目录不存在时返回 ErrPathNotFound
	List(ctx context.Context, dirPath string) ([]ObjectInfo, error)
	// EnsureFolder 确保目录存在（目录引导使用），幂等
	EnsureFolder(ctx context.Context, dirPath string) error
	// ObjectURL 获取对象的公开访问URL（如果支持）
	ObjectURL(path string) string
}

// ObjectInfo 描述一个存储对象或目录
type ObjectInfo struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	IsDir        bool      `json:"is_dir"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// NewStorageService 按配置选择存储后端
func NewStorageService(cfg *config.Config) (StorageService, error) {
	switch cfg.CDN.Type {
	case "bunny":
		return NewBunnyStorageService(&cfg.CDN)
	case "minio":
		return NewMinIOStorageService(&cfg.MinIO)
	case "aliyun_oss":
		return NewAliyunOSSStorageService(&cfg.AliyunOSS)
	default:
		return nil, errors.New("invalid cdn storage type")
	}
}
