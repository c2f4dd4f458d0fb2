package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/logger"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/mq"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/mq/worker"
	"github.com/cloudzeus/prismafiles-sub000/internal/router"
	"github.com/cloudzeus/prismafiles-sub000/internal/setup"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	mqClient   *mq.RabbitMQClient
}

// NewServer 负责构建所有依赖
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化数据库连接
	setup.InitMySQL(&cfg.MySQL)

	// 初始化 Redis 连接
	setup.InitRedis(context.Background(), cfg)

	// 初始化 Elasticsearch（审计检索）
	setup.InitElasticsearchClient(&cfg.Elasticsearch)

	// 初始化 CDN 存储后端
	storageService := setup.InitStorage(cfg)

	// 初始化 RabbitMQ，审计事件管道依赖它
	// 连不上时降级为无发布器，网关主流程不受影响
	mqClient, err := mq.NewRabbitMQClient(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, audit pipeline disabled", zap.Error(err))
		mqClient = nil
	}

	// 启动审计索引 Worker
	if mqClient != nil && setup.EsClient != nil {
		worker.StartAllWorkers(mqClient, setup.EsClient)
	}

	// 初始化 Gin 引擎和注册路由
	routerCfg := router.NewRouterConfig(
		setup.DB, setup.RedisClientGlobal, storageService, setup.EsClient, mqClient, cfg,
	)
	engine := router.InitRouter(routerCfg)

	addr := ":" + cfg.Server.Port
	logger.Info(fmt.Sprintf("Server is running on %s", addr))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	return &Server{
		engine:     engine,
		httpServer: httpServer,
		mqClient:   mqClient,
	}, nil
}

// Run 启动服务器并处理优雅关机
func (s *Server) Run(ctx context.Context, stopChan chan os.Signal) {
	defer setup.CloseMySQLDB()
	defer setup.CloseRedis()
	if s.mqClient != nil {
		defer s.mqClient.Close()
	}

	// 启动 HTTP 服务器
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// 等待停止信号
	<-stopChan
	logger.Info("Shutting down server...")

	// 优雅关机
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited gracefully")
}
