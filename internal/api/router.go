package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shopping-planner/internal/api/handlers/health"
	"shopping-planner/internal/api/handlers/shoppinglist"
	"shopping-planner/internal/api/middleware"
	"shopping-planner/internal/core/mealplan"
	"shopping-planner/internal/core/shopping"
	"shopping-planner/internal/infrastructure/config"
	"shopping-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，週計畫文件遠小於此
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, planStore *mealplan.Store, service *shopping.Service) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 重複請求去重（POST）
	router.Use(middleware.Deduplication(cfg))

	if planStore == nil || service == nil {
		common.LogError("Failed to setup router: service not initialized",
			zap.Bool("plan_store_initialized", planStore != nil),
			zap.Bool("shopping_service_initialized", service != nil),
		)
		return nil, fmt.Errorf("failed to setup router: service not initialized")
	}

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		// 創建新的請求上下文
		req := c.Request.WithContext(ctx)
		c.Request = req

		// 設置配置與服務
		c.Set("config", cfg)
		c.Set("plan_store", planStore)
		c.Set("shopping_service", service)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組，全部需要 bearer 憑證
	api := router.Group("/api/v1")
	api.Use(middleware.BearerAuth(cfg.Auth.Token))
	{
		handler := shoppinglist.NewHandler(planStore, service)

		planGroup := api.Group("/meal-plans/:id")
		{
			// 登錄週計畫
			planGroup.PUT("", handler.HandleRegisterPlan)

			// 購物清單
			listGroup := planGroup.Group("/shopping-list")
			{
				listGroup.GET("/categorized", handler.HandleCategorized)
				listGroup.GET("/status", handler.HandleStatus)
				listGroup.PATCH("/check", handler.HandleCheck)
				listGroup.POST("/reset", handler.HandleReset)
				listGroup.GET("/printable", handler.HandlePrintable)
			}
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
