package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOStorageService 自建部署时使用 MinIO 作为 CDN 存储后端
type MinIOStorageService struct {
	client *minio.Client
	cfg    *config.MinIOConfig
}

// NewMinIOStorageService 创建并返回一个 MinIOStorageService 实例
func NewMinIOStorageService(cfg *config.MinIOConfig) (*MinIOStorageService, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL, // 根据配置决定是否使用 HTTPS
	})
	if err != nil {
		logger.Error("初始化 MinIO 客户端失败", zap.Error(err))
		return nil, fmt.Errorf("无法初始化 MinIO 客户端: %w", err)
	}

	logger.Info("MinIO 客户端初始化成功", zap.String("endpoint", cfg.Endpoint))
	return &MinIOStorageService{
		client: minioClient,
		cfg:    cfg,
	}, nil
}

func (s *MinIOStorageService) objectName(path string) string {
	return strings.TrimPrefix(path, "/")
}

func (s *MinIOStorageService) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	if s.cfg.AccessKeyID == "" || s.cfg.SecretAccessKey == "" {
		return ErrAccessKeyMissing
	}
	_, err := s.client.PutObject(ctx, s.cfg.BucketName, s.objectName(path), reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("MinIO 上传文件失败: %w", err)
	}
	return nil
}

func (s *MinIOStorageService) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.BucketName, s.objectName(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("MinIO 获取文件失败: %w", err)
	}
	// GetObject 是懒加载的，Stat 一次确认对象存在
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return nil, ErrPathNotFound
		}
		return nil, fmt.Errorf("MinIO 获取文件失败: %w", err)
	}
	return obj, nil
}

func (s *MinIOStorageService) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.cfg.BucketName, s.objectName(path), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("MinIO 删除文件失败: %w", err)
	}
	return nil
}

func (s *MinIOStorageService) List(ctx context.Context, dirPath string) ([]ObjectInfo, error) {
	prefix := s.objectName(dirPath)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var infos []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.cfg.BucketName, minio.ListObjectsOptions{
		Prefix: prefix,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("MinIO 列目录失败: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == ".keep" {
			continue // 目录占位对象不对外暴露
		}
		infos = append(infos, ObjectInfo{
			Path:         "/" + obj.Key,
			Name:         strings.TrimSuffix(name, "/"),
			Size:         obj.Size,
			IsDir:        strings.HasSuffix(obj.Key, "/"),
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	if len(infos) == 0 {
		// 对象存储没有真正的目录，空前缀视为路径不存在
		return nil, ErrPathNotFound
	}
	return infos, nil
}

// EnsureFolder 上传零字节占位对象模拟目录
func (s *MinIOStorageService) EnsureFolder(ctx context.Context, dirPath string) error {
	placeholder := strings.TrimSuffix(s.objectName(dirPath), "/") + "/.keep"
	return s.Upload(ctx, placeholder, strings.NewReader(""), 0, "application/octet-stream")
}

func (s *MinIOStorageService) ObjectURL(path string) string {
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.BucketName, s.objectName(path))
}
