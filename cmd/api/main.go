package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopping-planner/internal/api"
	"shopping-planner/internal/core/mealplan"
	"shopping-planner/internal/core/shopping"
	"shopping-planner/internal/infrastructure/config"
	"shopping-planner/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("normalizer_base_url", cfg.Normalizer.BaseURL),
		zap.Bool("normalizer_enabled", cfg.Normalizer.Enabled),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 初始化週計畫儲存
	planStore := mealplan.NewStore(cfg)

	// 初始化名稱正規化客戶端
	var normalizer shopping.Normalizer
	if cfg.Normalizer.Enabled {
		normalizer = shopping.NewHTTPNormalizer(cfg)
	} else {
		normalizer = shopping.NoopNormalizer{}
	}

	// 初始化勾選狀態儲存，Redis 停用時退回記憶體實作
	var repo shopping.CheckStateRepository
	if cfg.Redis.Enabled {
		redisRepo, err := shopping.NewRedisCheckStateRepository(&cfg.Redis)
		if err != nil {
			common.LogFatal("Failed to connect to check state store", zap.Error(err))
		}
		defer redisRepo.Close()
		repo = redisRepo
	} else {
		repo = shopping.NewMemoryCheckStateRepository()
	}

	// 初始化購物清單引擎
	service := shopping.NewService(planStore, normalizer, shopping.NewCheckStateStore(repo))

	// 設置路由
	router, err := api.SetupRouter(cfg, planStore, service)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
