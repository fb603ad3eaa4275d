package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/careerwise-ai/careerwise/internal/ai"
	"github.com/careerwise-ai/careerwise/internal/api"
	"github.com/careerwise-ai/careerwise/internal/auth"
	"github.com/careerwise-ai/careerwise/internal/cache"
	"github.com/careerwise-ai/careerwise/internal/chat"
	"github.com/careerwise-ai/careerwise/internal/db"
	"github.com/careerwise-ai/careerwise/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: failed to load: %v", err)
	}

	logger := utils.MustNewLogger(cfg.Logging)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	postgres, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		sugar.Fatalw("postgres connect failed", "error", err)
	}
	defer postgres.Close()

	if err := postgres.Ping(ctx); err != nil {
		sugar.Fatalw("postgres ping failed", "error", err)
	}
	if err := postgres.EnsureSchema(ctx); err != nil {
		sugar.Fatalw("postgres ensure schema failed", "error", err)
	}

	// Redis is best effort: without it the server runs uncached.
	redisClient, err := db.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		sugar.Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	store := cache.New(redisClient, sugar)

	var completer ai.Completer
	if cfg.OfflineMode() {
		sugar.Warnw("no completion api key configured, running in offline mock mode")
		completer = ai.NewMockCompleter()
	} else {
		completer = ai.NewProvider(cfg.Groq, sugar)
	}

	authService, err := auth.NewService(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		sugar.Fatalw("auth service init failed", "error", err)
	}

	chatService := chat.NewService(postgres, store, completer, sugar)

	router := setupRouter(cfg, chatService, postgres, store, authService, completer, sugar)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Streaming responses outlive a short write timeout.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server listening", "addr", server.Addr, "model", completer.Model(), "offline", completer.Offline())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server crashed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}

	chatService.WaitBackground()
	sugar.Infow("server stopped cleanly")
}

func setupRouter(cfg *utils.Config, chatService *chat.Service, postgres *db.Postgres, store *cache.Cache, authService *auth.Service, completer ai.Completer, sugar *zap.SugaredLogger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.NewHandler(chatService, postgres, store, authService, completer, sugar).RegisterRoutes(router)

	return router
}
