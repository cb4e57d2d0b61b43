package main

import (
	"log"
	"time"

	config "foot-traffic-api/configs"
	"foot-traffic-api/pkg/handlers"
	"foot-traffic-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	// Ginルーターの初期化
	r := gin.Default()

	// サービスの初期化。スタッフィングモデルはここで一度だけ読み込み、
	// 以後のリクエストでは読み取り専用で共有する。
	monitoringService := services.NewMonitoringService()
	calendarService := services.NewCalendarService()
	ingestService := services.NewIngestService()
	forecastService := services.NewForecastService(calendarService, time.Duration(cfg.FitTimeoutSeconds)*time.Second)
	staffingService := services.NewStaffingService(cfg.PedestrianModelPath, cfg.ScalerPath)

	// ハンドラーの初期化
	forecastHandler := handlers.NewForecastHandler(ingestService, forecastService)
	staffingHandler := handlers.NewStaffingHandler(staffingService)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// ミドルウェアの登録
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	// レートリミット（予測はCPUバウンドなので流量を絞る）
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	// ヘルスチェックエンドポイント
	r.GET("/health", staffingHandler.Health)

	// モニタリングAPI
	r.GET("/monitoring/logs", monitoringHandler.GetLogs)

	// 予測API
	predict := r.Group("/predict")
	predict.Use(handlers.RateLimitMiddleware(limiter))
	{
		predict.POST("", forecastHandler.Predict)
		predict.POST("/upload", forecastHandler.PredictFromFile)
	}

	// スタッフィングAPI
	r.POST("/staffing", handlers.RateLimitMiddleware(limiter), staffingHandler.Staffing)

	log.Printf("Starting %s server on :%s", handlers.ServiceName, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
