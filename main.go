package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"workdesk/backend/internal/cache"
	"workdesk/backend/internal/config"
	"workdesk/backend/internal/database"
	"workdesk/backend/internal/handlers"
	"workdesk/backend/internal/middleware"
	"workdesk/backend/internal/monitoring"
	"workdesk/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisCache := connectRedis(cfg)
	multiCache := cache.NewMultiLevelCache(redisCache)

	todoService := services.NewCachedTodoService(services.NewTodoService(), multiCache)
	sessionService := services.NewSessionService(cfg.ReportingLocation())
	healthLogService := services.NewHealthLogService()

	registerHealthChecks(db, redisCache)

	warmCtx, cancelWarming := context.WithCancel(context.Background())
	todoService.StartWarming(warmCtx, db)

	router := setupRouter(cfg, db, todoService, sessionService, healthLogService)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	cancelWarming()
	todoService.StopWarming()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}

	multiCache.Close()
	log.Println("stopped")
}

// connectRedis returns nil on failure so the cache runs memory-only
// instead of aborting startup.
func connectRedis(cfg *config.Config) *cache.RedisCache {
	if !cfg.Redis.Enabled {
		return nil
	}

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	if err := redisCache.Health(); err != nil {
		log.Printf("redis unavailable, caching in memory only: %v", err)
		redisCache.Close()
		return nil
	}
	return redisCache
}

func registerHealthChecks(db *gorm.DB, redisCache *cache.RedisCache) {
	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	if redisCache != nil {
		monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return redisCache.Health()
		})
	}
}

func setupRouter(
	cfg *config.Config,
	db *gorm.DB,
	todoService services.TodoService,
	sessionService services.SessionService,
	healthLogService services.HealthLogService,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(monitoring.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.App.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstSize,
			cfg.RateLimit.CleanupInterval,
		)
		router.Use(limiter.Middleware())
	}

	todoHandler := handlers.NewTodoHandler(db, todoService)
	sessionHandler := handlers.NewSessionHandler(db, sessionService)
	healthLogHandler := handlers.NewHealthLogHandler(db, healthLogService, cfg.ReportingLocation())

	todos := router.Group("/todos")
	{
		todos.GET("", todoHandler.ListTodos)
		todos.GET("/tree", todoHandler.ListTodoTree)
		todos.GET("/:id", todoHandler.GetTodoByID)
		todos.POST("", todoHandler.CreateTodo)
		todos.PUT("/:id", todoHandler.UpdateTodo)
		todos.DELETE("/:id", todoHandler.DeleteTodo)
		todos.POST("/:id/delete", todoHandler.DeleteTodo)
	}

	sessions := router.Group("/sessions")
	{
		sessions.GET("", sessionHandler.ListSessions)
		sessions.POST("", sessionHandler.StartSession)
		sessions.PUT("/:id/stop", sessionHandler.StopSession)
	}

	healthlogs := router.Group("/healthlogs")
	{
		healthlogs.GET("", healthLogHandler.ListLogs)
		healthlogs.POST("", healthLogHandler.CreateLog)
		healthlogs.PUT("/:id", healthLogHandler.UpdateLog)
		healthlogs.DELETE("/:id", healthLogHandler.DeleteLog)
	}

	router.GET("/metrics", monitoring.MetricsHandler())
	router.GET("/health", monitoring.HealthHandler())
	router.GET("/ready", monitoring.ReadinessHandler())
	router.GET("/live", monitoring.LivenessHandler())

	return router
}
