package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"go.uber.org/zap"
)

// BunnyStorageService 通过存储区 HTTP API 访问 CDN 存储
// 所有请求携带 AccessKey 请求头，目录通过上传占位对象隐式创建
type BunnyStorageService struct {
	httpClient *http.Client
	cfg        *config.CDNConfig
}

// bunnyObject 是存储区 List 接口返回的对象描述
type bunnyObject struct {
	ObjectName  string `json:"ObjectName"`
	Length      int64  `json:"Length"`
	IsDirectory bool   `json:"IsDirectory"`
	ContentType string `json:"ContentType"`
	LastChanged string `json:"LastChanged"`
	Path        string `json:"Path"`
}

// NewBunnyStorageService 创建并返回一个 BunnyStorageService 实例
func NewBunnyStorageService(cfg *config.CDNConfig) (*BunnyStorageService, error) {
	if cfg.StorageZone == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("CDN 存储区配置不完整")
	}
	logger.Info("CDN 存储客户端初始化成功",
		zap.String("endpoint", cfg.Endpoint), zap.String("zone", cfg.StorageZone))
	return &BunnyStorageService{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        cfg,
	}, nil
}

// objectURL 拼接存储区 API 地址
func (s *BunnyStorageService) apiURL(path string) string {
	return fmt.Sprintf("https://%s/%s/%s", s.cfg.Endpoint, s.cfg.StorageZone, strings.TrimPrefix(path, "/"))
}

func (s *BunnyStorageService) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	// 密钥缺失在调用时报告，让接口层返回 500 而不是启动时崩溃
	if s.cfg.AccessKey == "" {
		return nil, ErrAccessKeyMissing
	}
	req, err := http.NewRequestWithContext(ctx, method, s.apiURL(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("AccessKey", s.cfg.AccessKey)
	return req, nil
}

func (s *BunnyStorageService) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	req, err := s.newRequest(ctx, http.MethodPut, path, reader)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("CDN 上传文件失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("CDN 上传文件失败: 状态码 %d", resp.StatusCode)
	}
	return nil
}

func (s *BunnyStorageService) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := s.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CDN 下载文件失败: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrPathNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("CDN 下载文件失败: 状态码 %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *BunnyStorageService) Delete(ctx context.Context, path string) error {
	req, err := s.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("CDN 删除文件失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrPathNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("CDN 删除文件失败: 状态码 %d", resp.StatusCode)
	}
	return nil
}

// List 列出目录内容，目录路径必须以 / 结尾
func (s *BunnyStorageService) List(ctx context.Context, dirPath string) ([]ObjectInfo, error) {
	if !strings.HasSuffix(dirPath, "/") {
		dirPath += "/"
	}
	req, err := s.newRequest(ctx, http.MethodGet, dirPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CDN 列目录失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrPathNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CDN 列目录失败: 状态码 %d", resp.StatusCode)
	}

	var objects []bunnyObject
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("解析 CDN 目录列表失败: %w", err)
	}

	infos := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		modified, _ := time.Parse("2006-01-02T15:04:05", obj.LastChanged)
		infos = append(infos, ObjectInfo{
			Path:         strings.TrimSuffix(dirPath, "/") + "/" + obj.ObjectName,
			Name:         obj.ObjectName,
			Size:         obj.Length,
			IsDir:        obj.IsDirectory,
			ContentType:  obj.ContentType,
			LastModified: modified,
		})
	}
	return infos, nil
}

// EnsureFolder 上传一个占位对象，存储区会隐式创建目录，重复调用幂等
func (s *BunnyStorageService) EnsureFolder(ctx context.Context, dirPath string) error {
	placeholder := strings.TrimSuffix(dirPath, "/") + "/.keep"
	return s.Upload(ctx, placeholder, strings.NewReader(""), 0, "application/octet-stream")
}

// ObjectURL 返回经由拉取区的公开访问地址
func (s *BunnyStorageService) ObjectURL(path string) string {
	if s.cfg.PullZoneURL == "" {
		return ""
	}
	return strings.TrimSuffix(s.cfg.PullZoneURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
