package router

import (
	"net/http"

	_ "github.com/cloudzeus/prismafiles-sub000/docs"
	"github.com/cloudzeus/prismafiles-sub000/internal/config"
	"github.com/cloudzeus/prismafiles-sub000/internal/handlers"
	"github.com/cloudzeus/prismafiles-sub000/internal/middlewares"
	"github.com/cloudzeus/prismafiles-sub000/internal/models"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/cache"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/mq"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/storage"
	"github.com/cloudzeus/prismafiles-sub000/internal/pkg/xerr"
	"github.com/cloudzeus/prismafiles-sub000/internal/repositories"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/admin"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/cdn"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/erp"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/gdpr"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/notify"
	"github.com/cloudzeus/prismafiles-sub000/internal/services/sharing"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterConfig 包含初始化路由所需的所有依赖
type RouterConfig struct {
	db             *gorm.DB
	redisClient    *redis.Client
	storageService storage.StorageService
	esClient       *elasticsearch.Client
	mqClient       *mq.RabbitMQClient
	cfg            *config.Config
}

func NewRouterConfig(
	db *gorm.DB,
	redisClient *redis.Client,
	storageService storage.StorageService,
	esClient *elasticsearch.Client,
	mqClient *mq.RabbitMQClient,
	cfg *config.Config,
) *RouterConfig {
	return &RouterConfig{
		db:             db,
		redisClient:    redisClient,
		storageService: storageService,
		esClient:       esClient,
		mqClient:       mqClient,
		cfg:            cfg,
	}
}

func InitRouter(routerCfg *RouterConfig) *gin.Engine {
	router := gin.Default() // 使用默认的 Gin 引擎，包含 Logger 和 Recovery 中间件
	router.Use(middlewares.RequestID())

	// Health Check 路由
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 仓库与公共服务
	cacheService := cache.NewRedisCache(routerCfg.redisClient)
	userRepo := repositories.NewUserRepository(routerCfg.db)
	contactRepo := repositories.NewContactRepository(routerCfg.db)
	companyRepo := repositories.NewCompanyRepository(routerCfg.db)
	scanResultRepo := repositories.NewScanResultRepository(routerCfg.db)
	sharingRepo := repositories.NewSharingRepository(routerCfg.db)
	reportRepo := repositories.NewReportRepository(routerCfg.db)

	var publisher sharing.AttemptPublisher = sharing.NoopAttemptPublisher{}
	if routerCfg.mqClient != nil {
		publisher = sharing.NewAttemptPublisher(routerCfg.mqClient)
	}

	txManager := sharing.NewTransactionManager(routerCfg.db)
	gateService := sharing.NewGateService(
		sharingRepo, scanResultRepo, userRepo, contactRepo,
		txManager, publisher, cacheService, routerCfg.cfg,
	)
	scanner := gdpr.NewScanner()
	scanService := gdpr.NewScanService(scanner, scanResultRepo, routerCfg.storageService, cacheService, routerCfg.cfg)
	reportService := gdpr.NewReportService(reportRepo, sharingRepo, scanResultRepo, cacheService)
	searchService := gdpr.NewSearchService(routerCfg.esClient)
	notifyService := notify.NewNotifyService(sharingRepo, contactRepo, notify.NewSMTPSender(routerCfg.cfg), routerCfg.cfg)
	erpService := erp.NewSyncService(erp.NewClient(routerCfg.cfg), companyRepo, contactRepo)
	cdnService := cdn.NewCdnService(userRepo, routerCfg.storageService)

	authHandler := handlers.NewAuthHandler(admin.NewAuthService(userRepo, routerCfg.cfg))
	userHandler := handlers.NewUserHandler(admin.NewUserService(userRepo))
	sharingHandler := handlers.NewSharingHandler(gateService, notifyService)
	gdprHandler := handlers.NewGdprHandler(scanService, reportService, searchService)
	cdnHandler := handlers.NewCdnHandler(cdnService)
	erpHandler := handlers.NewErpHandler(erpService)

	v1 := router.Group("/api/v1")
	{
		// 认证相关路由 (无需认证)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// 需要认证的路由组
		authenticated := v1.Group("/")
		authenticated.Use(middlewares.AuthMiddleware(routerCfg.cfg))

		// 用户相关路由
		userGroup := authenticated.Group("/users")
		{
			userGroup.GET("/me", userHandler.GetProfile)
			userGroup.PUT("/:id/role",
				middlewares.RequireRoles(models.RoleAdmin), userHandler.UpdateRole)
		}

		// 分享网关路由
		sharingGroup := authenticated.Group("/sharing")
		{
			sharingGroup.POST("", sharingHandler.CreateShare)
			sharingGroup.GET("", sharingHandler.ListShares)
			sharingGroup.DELETE("/:id", sharingHandler.RevokeShare)
			sharingGroup.POST("/send-email", sharingHandler.SendShareEmail)
		}

		// GDPR 合规路由
		gdprGroup := authenticated.Group("/gdpr")
		{
			gdprGroup.POST("/scan", gdprHandler.ScanFile)

			reportGroup := gdprGroup.Group("")
			reportGroup.Use(middlewares.RequireRoles(models.RoleManager, models.RoleAdmin))
			{
				reportGroup.POST("/reports", gdprHandler.GenerateReport)
				reportGroup.GET("/reports", gdprHandler.ListReports)
				reportGroup.GET("/reports/:id/export", gdprHandler.ExportReport)
				reportGroup.GET("/attempts/search", gdprHandler.SearchAttempts)
			}
		}

		// CDN 目录路由
		cdnGroup := authenticated.Group("/cdn")
		{
			cdnGroup.GET("", cdnHandler.ListDirectory)
			cdnGroup.POST("/generate-folders",
				middlewares.RequireRoles(models.RoleAdmin), cdnHandler.GenerateFolders)
		}

		// ERP 同步路由
		erpGroup := authenticated.Group("/erp")
		erpGroup.Use(middlewares.RequireRoles(models.RoleAdmin))
		{
			erpGroup.POST("/sync", erpHandler.Sync)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		xerr.Error(c, http.StatusNotFound, http.StatusNotFound, "Route not found")
	})

	return router
}
