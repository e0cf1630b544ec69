package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/khoahotran/resume-builder/adapters/event"
	"github.com/khoahotran/resume-builder/adapters/extractor"
	httpAdapter "github.com/khoahotran/resume-builder/adapters/http"
	"github.com/khoahotran/resume-builder/adapters/llm"
	"github.com/khoahotran/resume-builder/adapters/media_storage"
	"github.com/khoahotran/resume-builder/adapters/persistence"
	"github.com/khoahotran/resume-builder/adapters/persistence/memory"
	"github.com/khoahotran/resume-builder/adapters/render"
	"github.com/khoahotran/resume-builder/internal/application/service"
	aiUC "github.com/khoahotran/resume-builder/internal/application/usecase/ai"
	authUC "github.com/khoahotran/resume-builder/internal/application/usecase/auth"
	resumeUC "github.com/khoahotran/resume-builder/internal/application/usecase/resume"
	uploadUC "github.com/khoahotran/resume-builder/internal/application/usecase/upload"
	"github.com/khoahotran/resume-builder/internal/config"
	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/internal/domain/user"
	"github.com/khoahotran/resume-builder/pkg/auth"
	"github.com/khoahotran/resume-builder/pkg/logger"
	"github.com/khoahotran/resume-builder/pkg/metrics"
	"github.com/khoahotran/resume-builder/pkg/tracing"
)

// DB_DSN=memory keeps everything in process.
const memoryDSN = "memory"

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
	appLogger.Info("Starting Resume Builder API server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg, appLogger, cfg.Tracing.ServiceName)
	if err != nil {
		appLogger.Fatal("Failed to init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Persistence
	var (
		userRepo   user.Repository
		resumeRepo resume.Repository
		uploadRepo upload.Repository
		tokenStore service.TokenStore
	)
	if cfg.DB.DSN == memoryDSN {
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		userRepo = memory.NewUserRepo()
		resumeRepo = memory.NewResumeRepo()
		uploadRepo = memory.NewUploadRepo()
	} else {
		if cfg.DB.AutoMigrate {
			if err := persistence.RunMigrations(cfg.DB.DSN); err != nil {
				appLogger.Fatal("Failed to run migrations", err)
			}
			appLogger.Info("Database migrations applied")
		}
		dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Postgres", err)
		}
		defer dbPool.Close()

		userRepo = persistence.NewPostgresUserRepo(dbPool)
		resumeRepo = persistence.NewPostgresResumeRepo(dbPool)
		uploadRepo = persistence.NewPostgresUploadRepo(dbPool)
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		tokenStore = persistence.NewRedisTokenStore(redisClient)
	} else {
		appLogger.Warn("REDIS_ADDR not set, token revocation is process-local")
		tokenStore = memory.NewTokenStore()
	}

	// Events
	var publisher service.UploadEventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("KAFKA_BROKERS not set, uploads will not be analysed in the background")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewUploader(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	gateway, err := llm.NewGateway(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize model gateway", err)
	}
	gateway = llm.WithMetrics(gateway, collector)
	textExtractor := extractor.NewTextExtractor()

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	logoutUseCase := authUC.NewLogoutUseCase(tokenStore)
	currentUserUseCase := authUC.NewGetCurrentUserUseCase(userRepo)

	createResumeUseCase := resumeUC.NewCreateResumeUseCase(resumeRepo, uploadRepo, appLogger)
	getResumeUseCase := resumeUC.NewGetResumeUseCase(resumeRepo)
	listResumesUseCase := resumeUC.NewListResumesUseCase(resumeRepo)
	updateResumeUseCase := resumeUC.NewUpdateResumeUseCase(resumeRepo)
	deleteResumeUseCase := resumeUC.NewDeleteResumeUseCase(resumeRepo)
	exportResumeUseCase := resumeUC.NewExportResumeUseCase(resumeRepo, render.NewPDFRenderer(true))

	uploadResumeUseCase := uploadUC.NewUploadResumeUseCase(uploadRepo, textExtractor, uploader, publisher, cfg.Storage.Folder, appLogger)
	latestUploadUseCase := uploadUC.NewGetLatestUploadUseCase(uploadRepo)

	aiUseCase := aiUC.NewAIUseCase(gateway, uploadRepo, appLogger)

	// HTTP Handlers
	var rateLimiter *httpAdapter.RateLimiter
	if cfg.AI.RatePerMinute > 0 {
		rateLimiter = httpAdapter.NewRateLimiter(cfg.AI.RatePerMinute, cfg.AI.Burst, 10*time.Minute, appLogger)
		defer rateLimiter.Stop()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Logger:      appLogger,
		JWT:         jwtSvc,
		TokenStore:  tokenStore,
		FrontendURL: cfg.App.FrontendURL,
		Auth:        httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, logoutUseCase, currentUserUseCase),
		Resume: httpAdapter.NewResumeHandler(httpAdapter.ResumeHandlerDeps{
			Create:         createResumeUseCase,
			Get:            getResumeUseCase,
			List:           listResumesUseCase,
			Update:         updateResumeUseCase,
			Delete:         deleteResumeUseCase,
			Export:         exportResumeUseCase,
			Upload:         uploadResumeUseCase,
			MaxUploadBytes: cfg.MaxUploadBytes(),
			Metrics:        collector,
		}),
		Upload:      httpAdapter.NewUploadHandler(latestUploadUseCase),
		AI:          httpAdapter.NewAIHandler(aiUseCase, render.NewMarkdownRenderer()),
		RateLimiter: rateLimiter,
		Metrics:     collector,
		Gatherer:    registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
