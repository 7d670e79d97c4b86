package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-job-intake/config"
	"go-job-intake/internal/delivery/cli"
	"go-job-intake/internal/domain"
	"go-job-intake/internal/intake"
	"go-job-intake/internal/repository/postgres"
	"go-job-intake/internal/repository/storage"
	"go-job-intake/pkg/database"
	"go-job-intake/pkg/logger"
	"go-job-intake/pkg/security/antivirus"

	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "validate and print the payload instead of uploading and saving")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var uploader domain.DocumentUploader
	var repo domain.ApplicationRepository
	if *dryRun {
		uploader = dryRunUploader{}
		repo = dryRunRepository{out: os.Stdout}
	} else {
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		uploader, _, err = storage.NewUploader(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to set up document storage: %v", err)
		}
		repo = postgres.NewApplicationRepository(pool)
	}

	orchestrator := intake.NewSubmissionOrchestrator(uploader, repo, intake.WithBucket(cfg.S3Bucket))
	wizard := cli.NewWizard(cli.NewSurveyDriver(os.Stdout), orchestrator,
		cli.WithMaxDocumentBytes(cfg.MaxDocumentBytes()),
		cli.WithScanner(antivirus.New(cfg.ClamAVAddress)),
	)

	fmt.Println("Job application form. Fields marked * are required; Ctrl+C to quit.")
	if err := wizard.Run(ctx); err != nil {
		if errors.Is(err, cli.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Println("\nAborted.")
			return
		}
		logger.Log.Error("Wizard failed", zap.Error(err))
		os.Exit(1)
	}
}
