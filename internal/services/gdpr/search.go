package gdpr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/mq/worker"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// AttemptSearchResult 审计检索结果
type AttemptSearchResult struct {
	Total    int64                   `json:"total"`
	Attempts []models.SharingAttempt `json:"attempts"`
}

// SearchService 基于 Elasticsearch 的审计全文检索
type SearchService interface {
	// SearchAttempts 对审计索引做全文检索，仅限 manager/admin 角色
	SearchAttempts(ctx context.Context, user *models.User, query string, size int) (*AttemptSearchResult, error)
}

type searchService struct {
	esClient *elasticsearch.Client
}

var _ SearchService = (*searchService)(nil)

// NewSearchService 创建一个新的 SearchService 实例
func NewSearchService(esClient *elasticsearch.Client) SearchService {
	return &searchService{esClient: esClient}
}

func (s *searchService) SearchAttempts(ctx context.Context, user *models.User, query string, size int) (*AttemptSearchResult, error) {
	if !user.IsManagerOrAdmin() {
		return nil, xerr.ErrRoleRequired
	}
	if strings.TrimSpace(query) == "" {
		return nil, xerr.ErrInvalidParams
	}
	if s.esClient == nil {
		return nil, xerr.ErrSearchError
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"item_path", "item_name", "blocked_reason", "user_justification"},
			},
		},
		"sort": []map[string]any{
			{"attempt_date": map[string]any{"order": "desc", "unmapped_type": "date"}},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("构造检索请求失败: %w", err)
	}

	res, err := s.esClient.Search(
		s.esClient.Search.WithContext(ctx),
		s.esClient.Search.WithIndex(worker.AuditIndexName),
		s.esClient.Search.WithBody(&buf),
	)
	if err != nil {
		logger.Error("审计检索请求失败", zap.String("query", query), zap.Error(err))
		return nil, xerr.ErrSearchError
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Error("审计检索被 Elasticsearch 拒绝",
			zap.String("query", query), zap.String("status", res.Status()))
		return nil, xerr.ErrSearchError
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.SharingAttempt `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		logger.Error("解析检索响应失败", zap.Error(err))
		return nil, xerr.ErrSearchError
	}

	result := &AttemptSearchResult{
		Total:    parsed.Hits.Total.Value,
		Attempts: make([]models.SharingAttempt, 0, len(parsed.Hits.Hits)),
	}
	for _, hit := range parsed.Hits.Hits {
		result.Attempts = append(result.Attempts, hit.Source)
	}
	return result, nil
}
