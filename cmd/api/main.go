package main

import (
	"context"
	"go-job-intake/config"
	v1 "go-job-intake/internal/delivery/http/v1"
	"go-job-intake/internal/domain"
	"go-job-intake/internal/intake"
	"go-job-intake/internal/repository/kafka"
	"go-job-intake/internal/repository/postgres"
	"go-job-intake/internal/repository/storage"
	"go-job-intake/internal/usecase"
	"go-job-intake/pkg/auth"
	"go-job-intake/pkg/database"
	"go-job-intake/pkg/email"
	"go-job-intake/pkg/logger"
	"go-job-intake/pkg/redis"
	"go-job-intake/pkg/security"
	"go-job-intake/pkg/security/antivirus"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Job Application Intake API
// @version         1.0
// @description     Multi-step job application form sessions, document upload and submission.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey IntakeSession
// @in header
// @name X-Intake-Session
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	logger.Log.Info("Starting job intake service", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	probes := map[string]usecase.Probe{"redis": nil, "kafka": nil}

	// 3. Setup Redis (optional, rate limiting falls back to memory)
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", zap.Error(err))
		} else {
			probes["redis"] = redis.HealthCheck
		}
	}
	defer redis.Close()

	// 4. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer dbPool.Close()
	probes["database"] = dbPool.Ping

	// 5. Setup Document Storage
	uploader, storageProbe, err := storage.NewUploader(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up document storage", zap.String("provider", cfg.StorageProvider), zap.Error(err))
		os.Exit(1)
	}
	probes["storage"] = storageProbe

	// 6. Setup Document Scanning (optional)
	scanner := antivirus.New(cfg.ClamAVAddress)
	if cfg.ClamAVAddress != "" {
		if err := scanner.Ping(ctx); err != nil {
			logger.Log.Warn("Antivirus daemon not responding, uploads will be refused until it is", zap.Error(err))
		}
		probes["antivirus"] = scanner.Ping
	}
	quota := security.NewUploadQuota(cfg.UploadQuotaPerSession, time.Hour, redis.Client)

	// 7. Setup Submission Publishers (optional)
	var publishers usecase.Publishers
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		kp, err := kafka.NewSubmissionPublisher(brokers, cfg.KafkaTopic)
		if err != nil {
			logger.Log.Error("Failed to set up Kafka publisher", zap.Error(err))
			os.Exit(1)
		}
		defer kp.Close()
		publishers = append(publishers, kp)
		probes["kafka"] = kp.Ping
	} else {
		logger.Log.Warn("KAFKA_BROKERS not set - submitted events will not be published")
	}
	if mailer := email.NewEmailService(cfg.SMTPConfig()); mailer.IsConfigured() {
		publishers = append(publishers, usecase.NewConfirmationNotifier(mailer))
	} else {
		logger.Log.Warn("SMTP_HOST not set - applicants will not receive confirmation emails")
	}
	var publisher domain.SubmissionPublisher
	if len(publishers) > 0 {
		publisher = publishers
	}

	// 8. Setup UseCases
	tokens, err := auth.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL())
	if err != nil {
		logger.Log.Error("Failed to set up session tokens", zap.Error(err))
		os.Exit(1)
	}
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	orchestrator := intake.NewSubmissionOrchestrator(uploader, applicationRepo, intake.WithBucket(cfg.S3Bucket))
	intakeUC := usecase.NewIntakeUsecase(orchestrator, publisher, tokens, cfg.SessionIdleTimeout())
	exportUC := usecase.NewExportUsecase(applicationRepo)
	healthUC := usecase.NewHealthUsecase(probes)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		IntakeUC: intakeUC,
		ExportUC: exportUC,
		HealthUC: healthUC,
		Tokens:   tokens,
		Guards:   v1.DocumentGuards{Scanner: scanner, Quota: quota},
		Config:   cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	// Let in-flight submissions reach the database before the pool closes
	if err := intakeUC.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Submissions still running at shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting", zap.Int("open_sessions", intakeUC.ActiveSessions()))
}
