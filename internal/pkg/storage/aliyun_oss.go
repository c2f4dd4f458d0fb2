package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"go.uber.org/zap"
)

// AliyunOSSStorageService 使用阿里云 OSS 作为 CDN 存储后端
type AliyunOSSStorageService struct {
	client *oss.Client
	cfg    *config.AliyunOSSConfig
}

// NewAliyunOSSStorageService 创建并返回一个 AliyunOSSStorageService 实例
func NewAliyunOSSStorageService(cfg *config.AliyunOSSConfig) (*AliyunOSSStorageService, error) {
	// OSS Endpoint 应该包含 http:// 或 https:// 前缀
	ossClient, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		logger.Error("初始化阿里云OSS客户端失败", zap.Error(err))
		return nil, fmt.Errorf("无法初始化阿里云OSS客户端: %w", err)
	}
	logger.Info("阿里云OSS客户端初始化成功", zap.String("endpoint", cfg.Endpoint))
	return &AliyunOSSStorageService{
		client: ossClient,
		cfg:    cfg,
	}, nil
}

func (s *AliyunOSSStorageService) bucket() (*oss.Bucket, error) {
	if s.cfg.AccessKeyID == "" || s.cfg.SecretAccessKey == "" {
		return nil, ErrAccessKeyMissing
	}
	return s.client.Bucket(s.cfg.BucketName)
}

func (s *AliyunOSSStorageService) objectName(path string) string {
	return strings.TrimPrefix(path, "/")
}

func (s *AliyunOSSStorageService) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	bucket, err := s.bucket()
	if err != nil {
		return err
	}
	if err := bucket.PutObject(s.objectName(path), reader, oss.ContentType(contentType)); err != nil {
		return fmt.Errorf("阿里云OSS上传文件失败: %w", err)
	}
	return nil
}

func (s *AliyunOSSStorageService) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}
	reader, err := bucket.GetObject(s.objectName(path))
	if err != nil {
		if ossErr, ok := err.(oss.ServiceError); ok && ossErr.StatusCode == 404 {
			return nil, ErrPathNotFound
		}
		return nil, fmt.Errorf("阿里云OSS获取文件失败: %w", err)
	}
	return reader, nil
}

func (s *AliyunOSSStorageService) Delete(ctx context.Context, path string) error {
	bucket, err := s.bucket()
	if err != nil {
		return err
	}
	if err := bucket.DeleteObject(s.objectName(path)); err != nil {
		return fmt.Errorf("阿里云OSS删除文件失败: %w", err)
	}
	return nil
}

func (s *AliyunOSSStorageService) List(ctx context.Context, dirPath string) ([]ObjectInfo, error) {
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}

	prefix := s.objectName(dirPath)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	result, err := bucket.ListObjects(oss.Prefix(prefix), oss.Delimiter("/"))
	if err != nil {
		return nil, fmt.Errorf("阿里云OSS列目录失败: %w", err)
	}

	var infos []ObjectInfo
	for _, dir := range result.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(dir, prefix), "/")
		infos = append(infos, ObjectInfo{
			Path:  "/" + strings.TrimSuffix(dir, "/"),
			Name:  name,
			IsDir: true,
		})
	}
	for _, obj := range result.Objects {
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || name == ".keep" {
			continue
		}
		infos = append(infos, ObjectInfo{
			Path:         "/" + obj.Key,
			Name:         name,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	if len(infos) == 0 {
		return nil, ErrPathNotFound
	}
	return infos, nil
}

// EnsureFolder 上传零字节占位对象模拟目录
func (s *AliyunOSSStorageService) EnsureFolder(ctx context.Context, dirPath string) error {
	placeholder := strings.TrimSuffix(s.objectName(dirPath), "/") + "/.keep"
	return s.Upload(ctx, placeholder, strings.NewReader(""), 0, "application/octet-stream")
}

func (s *AliyunOSSStorageService) ObjectURL(path string) string {
	scheme := "https"
	if !s.cfg.UseSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.cfg.BucketName, s.cfg.Endpoint, s.objectName(path))
}
