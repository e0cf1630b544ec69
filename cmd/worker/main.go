package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/adapters/event"
	"github.com/khoahotran/resume-builder/adapters/llm"
	"github.com/khoahotran/resume-builder/adapters/persistence"
	uploadUC "github.com/khoahotran/resume-builder/internal/application/usecase/upload"
	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/pkg/logger"
	"github.com/khoahotran/resume-builder/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs KAFKA_BROKERS", nil)
	}
	if cfg.DB.DSN == "memory" {
		appLogger.Fatal("Worker needs a Postgres DB_DSN", nil)
	}
	appLogger.Info("Starting Resume Builder worker...", zap.String("topic", cfg.Kafka.UploadTopic))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg, appLogger, cfg.Tracing.ServiceName+"-worker")
	if err != nil {
		appLogger.Fatal("Failed to init tracing", err)
	}
	defer shutdownTracing(context.Background())

	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	gateway, err := llm.NewGateway(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize model gateway", err)
	}

	uploadRepo := persistence.NewPostgresUploadRepo(dbPool)
	analyzeUseCase := uploadUC.NewAnalyzeUploadUseCase(uploadRepo, gateway, appLogger)

	consumer := event.NewUploadConsumer(cfg, func(ctx context.Context, p event.ResumeUploadedPayload) error {
		_, err := analyzeUseCase.Execute(ctx, uploadUC.AnalyzeUploadInput{UploadID: p.UploadID, OwnerID: p.OwnerID})
		return err
	}, appLogger)
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Consumer stopped", err)
	}
	appLogger.Info("Worker stopped")
}
