package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agroskills-platform/config"
	_ "agroskills-platform/docs" // Important for Swagger
	"agroskills-platform/internal/analysis"
	v1 "agroskills-platform/internal/delivery/http/v1"
	"agroskills-platform/internal/repository/postgres"
	"agroskills-platform/internal/usecase"
	"agroskills-platform/pkg/auth"
	"agroskills-platform/pkg/database"
	"agroskills-platform/pkg/email"
	"agroskills-platform/pkg/logger"
	"agroskills-platform/pkg/opengraph"
	"agroskills-platform/pkg/questionbank"
	"agroskills-platform/pkg/redis"
	"agroskills-platform/pkg/security"
	"agroskills-platform/pkg/storage"
	"agroskills-platform/pkg/validation"
)

// @title           AgroSkills API
// @version         1.0
// @description     Job board, candidate profiles and AI-scored mock interviews for agribusiness.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.AppEnv)
	logger.Log.Info("Starting agroskills api", "port", cfg.Port, "env", cfg.AppEnv)
	secLog := security.InitSecurityLogger("agroskills-api", cfg.AppEnv)
	defer secLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	var eventRepo *security.EventRepository
	if cfg.SecurityLogToDB {
		eventRepo = security.NewEventRepository(dbPool)
		secLog.SetPersistFunc(eventRepo.PersistEvent)
	}

	// 4. Setup Redis (optional)
	var redisPing usecase.Pinger
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory fallbacks", "error", err)
	} else {
		redisPing = redis.HealthCheck
		defer redis.Close()
	}

	// 5. Setup Object Storage
	store, localDir, err := newStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialise object storage", "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	candidacyRepo := postgres.NewCandidacyRepository(dbPool)
	interestRepo := postgres.NewInterestRepository(dbPool)
	interviewRepo := postgres.NewMockInterviewRepository(dbPool)
	feedRepo := postgres.NewFeedRepository(dbPool)
	progressRepo := postgres.NewProgressRepository(dbPool)

	// 7. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - password reset links will only be logged")
	}

	// 8. Setup Interview Analysis
	questions, err := questionbank.Load(cfg.QuestionBankPath)
	if err != nil {
		logger.Log.Error("Failed to load question bank", "error", err)
		os.Exit(1)
	}

	var analyzer analysis.Analyzer = analysis.HeuristicAnalyzer{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := analysis.NewGeminiAnalyzer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.Warn("Gemini unavailable, scoring answers heuristically", "error", err)
		} else {
			analyzer = gemini
		}
	}
	pool := analysis.NewPool(analysis.PoolConfig{
		Repo:      interviewRepo,
		Store:     store,
		Analyzer:  analyzer,
		Fallback:  analysis.HeuristicAnalyzer{},
		Workers:   cfg.AnalysisWorkers,
		QueueSize: cfg.AnalysisQueue,
	})
	poolDone := make(chan error, 1)
	go func() { poolDone <- pool.Run(ctx) }()

	// 9. Setup UseCases
	validate := validation.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
	}, secLog)

	authUC := usecase.NewAuthUsecase(userRepo, tokens, tracker, emailService, validate, cfg.FrontendURL)
	profileUC := usecase.NewProfileUsecase(profileRepo, store, validate, int64(cfg.MaxImageSizeMB)<<20)
	companyUC := usecase.NewCompanyUsecase(companyRepo, validate)
	jobUC := usecase.NewJobUsecase(jobRepo, companyRepo, validate)
	candidacyUC := usecase.NewCandidacyUsecase(candidacyRepo, jobRepo, validate)
	interestUC := usecase.NewInterestUsecase(interestRepo, jobRepo)
	feedUC := usecase.NewFeedUsecase(feedRepo, redis.NewCache("feed"), opengraph.NewFetcher(nil), validate, cfg.FeedCacheTTL)
	progressUC := usecase.NewProgressUsecase(progressRepo, validate)
	mockInterviewUC := usecase.NewMockInterviewUsecase(usecase.MockInterviewDeps{
		Repo:          interviewRepo,
		Questions:     questions,
		Store:         store,
		Queue:         pool,
		UploadLimiter: security.NewUploadLimiter(cfg.UploadsPerMinute, cfg.UploadsPerDay),
		Validate:      validate,
		MaxVideoBytes: int64(cfg.MaxVideoSizeMB) << 20,
	})
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database": dbPool.Ping,
		"redis":    redisPing,
	})

	// 10. Setup Router
	deps := v1.RouterDeps{
		AuthUC:          authUC,
		ProfileUC:       profileUC,
		CompanyUC:       companyUC,
		JobUC:           jobUC,
		CandidacyUC:     candidacyUC,
		InterestUC:      interestUC,
		MockInterviewUC: mockInterviewUC,
		FeedUC:          feedUC,
		ProgressUC:      progressUC,
		HealthUC:        healthUC,
		Tokens:          tokens,
		Config:          cfg,
		LocalMediaDir:   localDir,
	}
	if eventRepo != nil {
		deps.SecurityEvents = eventRepo
	}
	router := v1.NewRouter(deps)

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := <-poolDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Error("Analysis workers stopped with error", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// newStore picks the object store. The returned directory is non-empty when
// objects live on local disk and must be served by the API itself.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, string, error) {
	if cfg.StorageDriver == "s3" {
		s3, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		return s3, "", err
	}
	local, err := storage.NewLocalStore(cfg.LocalStorageDir, cfg.LocalStorageURL)
	if err != nil {
		return nil, "", err
	}
	return local, cfg.LocalStorageDir, nil
}
