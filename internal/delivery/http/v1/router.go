package v1

import (
	"net/http"
	"time"

	"agroskills-platform/config"
	"agroskills-platform/internal/delivery/http/middleware"
	"agroskills-platform/internal/delivery/http/response"
	"agroskills-platform/internal/delivery/http/security"
	"agroskills-platform/internal/domain"
	"agroskills-platform/internal/usecase"
	"agroskills-platform/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC          domain.AuthUsecase
	ProfileUC       domain.ProfileUsecase
	CompanyUC       domain.CompanyUsecase
	JobUC           domain.JobUsecase
	CandidacyUC     domain.CandidacyUsecase
	InterestUC      domain.InterestUsecase
	MockInterviewUC domain.MockInterviewUsecase
	FeedUC          domain.FeedUsecase
	ProgressUC      domain.ProgressUsecase
	HealthUC        usecase.HealthUsecase
	SecurityEvents  security.EventReader // nil when events are not persisted
	Tokens          *auth.TokenManager
	Config          *config.Config
	// LocalMediaDir is served under Config.LocalStorageURL when set.
	LocalMediaDir string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.S3PublicBaseURL))
	r.Use(middleware.ErrorHandler())

	if deps.LocalMediaDir != "" {
		r.Static(cfg.LocalStorageURL, deps.LocalMediaDir)
	}

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	if cfg.SwaggerEnabled {
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	credentials := api.Group("")
	credentials.Use(middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, window)))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewAuthHandler(credentials, protected, deps.AuthUC)
		NewProfileHandler(protected, deps.ProfileUC)
		NewCompanyHandler(protected, deps.CompanyUC)
		NewJobHandler(api, protected, deps.JobUC)
		NewCandidacyHandler(protected, deps.CandidacyUC, deps.InterestUC)
		NewMockInterviewHandler(protected, deps.MockInterviewUC, int64(cfg.MaxVideoSizeMB)<<20)
		NewFeedHandler(api, protected, deps.FeedUC)
		NewProgressHandler(protected, deps.ProgressUC)
	}

	if deps.HealthUC != nil {
		NewHealthHandler(api, deps.HealthUC)
	} else {
		api.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, "System operational", nil)
		})
	}

	if deps.SecurityEvents != nil {
		admin := protected.Group("/admin/security")
		admin.Use(middleware.RequireRole(domain.RoleAdmin))
		security.NewEventsHandler(deps.SecurityEvents).RegisterRoutes(admin)
	}

	return r
}
