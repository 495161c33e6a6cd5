package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sgc-backend/internal/assistant"
	"sgc-backend/internal/config"
	"sgc-backend/internal/database"
	"sgc-backend/internal/handlers"
	"sgc-backend/internal/logger"
	"sgc-backend/internal/middleware"
	"sgc-backend/internal/repository"
	"sgc-backend/internal/router"
	"sgc-backend/internal/services"
	"sgc-backend/internal/websocket"
	"sgc-backend/internal/worker"
)

const (
	sessionTokenTTL = 24 * time.Hour
	reapInterval    = time.Minute
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()
	log.Info("starting SGC backend", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("PostgreSQL connection failed", zap.Error(err))
	}
	defer pool.Close()
	log.Info("PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClients.Close()
	log.Info("Redis connected")

	// ──── Step 4: Run Database Migrations ────
	applied, err := database.RunMigrations(ctx, pool, "migrations", log)
	if err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}
	log.Info("database migrations applied", zap.Int("new", applied))

	// ──── Step 5: Initialize Gemini Client ────
	geminiService := services.NewGeminiService(cfg.GeminiModel, cfg.GeminiConcurrentReqs, log.Named("gemini"))
	defer geminiService.Close()
	if os.Getenv(config.APIKeyEnv) == "" {
		log.Warn("API key is not set; the chat widget will report it is not configured",
			zap.String("key", config.APIKeyEnv))
	}

	// ──── Step 6: Assistant core ────
	publisher := services.NewConversationPublisher(redisClients.PubSub, log.Named("publisher"))
	sessions := assistant.NewSessions(publisher.ForSession)
	sessions.StartReaper(ctx, reapInterval, time.Duration(cfg.SessionIdleMinutes)*time.Minute, func(removed int) {
		log.Info("reaped idle assistant sessions", zap.Int("removed", removed))
	})
	chatAssistant := assistant.New(
		geminiService,
		assistant.EnvCredential(config.APIKeyEnv),
		log.Named("assistant"),
	)

	// ──── Initialize Repositories & Services ────
	contactRepo := repository.NewContactRepo(pool)
	jobRepo := repository.NewJobRepo(pool)
	jobQueue := services.NewRedisJobQueue(redisClients.Queue)

	sessionTokens := middleware.NewSessionTokens(cfg.SessionSecret, sessionTokenTTL)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SalesEmail, cfg.FrontendURL, log.Named("email"))
	contactService := services.NewContactService(contactRepo, jobRepo, jobQueue, log.Named("contact"))
	youtubeService := services.NewYouTubeService(log.Named("youtube"))

	// ──── Initialize Handlers ────
	assistantHandler := handlers.NewAssistantHandler(sessions, chatAssistant, sessionTokens, log.Named("http"))
	contactHandler := handlers.NewContactHandler(contactService)
	mediaHandler := handlers.NewMediaHandler(youtubeService)
	contentHandler := handlers.NewContentHandler()

	// ──── Step 7: Start Notification Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		jobQueue,
		contactRepo,
		jobRepo,
		emailService,
		log.Named("worker"),
		cfg.WorkerCount,
	)
	workerPool.Start()

	jobSweeper := services.NewJobSweeper(jobRepo, jobQueue, log.Named("sweeper"))
	jobSweeper.Start()

	// ──── Step 8: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, sessionTokens, log.Named("ws"))

	// ──── Step 9: Start HTTP Server ────
	r := router.New(
		sessionTokens,
		assistantHandler,
		contactHandler,
		mediaHandler,
		contentHandler,
		wsHub,
		cfg.FrontendURL,
		log.Named("http"),
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Message sends wait for the model reply.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP shutdown incomplete", zap.Error(err))
		}
		jobSweeper.Stop()
		workerPool.Stop()
	}()

	log.Info("SGC backend ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/v1/assistant/ws", cfg.Port)),
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server error", zap.Error(err))
	}
	<-shutdownDone
}
