package setup

import (
	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

var EsClient *elasticsearch.Client

// InitElasticsearchClient 初始化审计检索用的 Elasticsearch 客户端
// ES 只服务审计管道，连不上时不中止进程，检索接口会降级报错
func InitElasticsearchClient(cfg *config.ElasticsearchConfig) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	var err error
	if EsClient, err = elasticsearch.NewClient(esCfg); err != nil {
		logger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}

	// 尝试连接并获取集群信息，验证连接是否成功
	res, err := EsClient.Info()
	if err != nil {
		logger.Error("Failed to connect to Elasticsearch, audit search degraded", zap.Error(err))
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		logger.Error("Error connecting to Elasticsearch", zap.String("status", res.Status()))
		return
	}

	logger.Info("Elasticsearch client initialized successfully.")
}
