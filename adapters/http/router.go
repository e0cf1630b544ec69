package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/khoahotran/resume-builder/internal/application/service"
	"github.com/khoahotran/resume-builder/pkg/auth"
	"github.com/khoahotran/resume-builder/pkg/logger"
	"github.com/khoahotran/resume-builder/pkg/metrics"
)

type RouterDeps struct {
	Logger      logger.Logger
	JWT         *auth.JWTService
	TokenStore  service.TokenStore
	FrontendURL string

	Auth   *AuthHandler
	Resume *ResumeHandler
	Upload *UploadHandler
	AI     *AIHandler

	// Optional.
	RateLimiter *RateLimiter
	Metrics     *metrics.Collector
	Gatherer    prometheus.Gatherer
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(d.Logger))
	if d.Metrics != nil {
		router.Use(MetricsMiddleware(d.Metrics))
	}
	router.Use(CORSMiddleware(d.FrontendURL))
	// innermost, so the logger and metrics see the final status
	router.Use(ErrorMiddleware(d.Logger))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Resume Builder Backend Running")
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	authMiddleware := AuthMiddleware(d.JWT, d.TokenStore, d.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", d.Auth.Register)
			authGroup.POST("/login", d.Auth.Login)
			authGroup.POST("/logout", authMiddleware, d.Auth.Logout)
			authGroup.GET("/me", authMiddleware, d.Auth.Me)
		}

		resumeGroup := api.Group("/resume")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.POST("", d.Resume.CreateResume)
			resumeGroup.GET("", d.Resume.ListResumes)
			resumeGroup.POST("/upload", d.Resume.UploadResume)
			resumeGroup.GET("/:id", d.Resume.GetResume)
			resumeGroup.PUT("/:id", d.Resume.UpdateResume)
			resumeGroup.DELETE("/:id", d.Resume.DeleteResume)
			resumeGroup.GET("/:id/pdf", d.Resume.ExportPDF)
		}

		uploadGroup := api.Group("/uploads")
		uploadGroup.Use(authMiddleware)
		{
			uploadGroup.GET("/latest", d.Upload.Latest)
		}

		aiGroup := api.Group("/ai")
		aiGroup.Use(authMiddleware)
		if d.RateLimiter != nil {
			aiGroup.Use(d.RateLimiter.Middleware())
		}
		{
			aiGroup.POST("/summary", d.AI.Summary)
			aiGroup.POST("/cover-letter", d.AI.CoverLetter)
			aiGroup.POST("/ats-score", d.AI.ATSScore)
			aiGroup.POST("/ats-score/latest", d.AI.ATSScoreLatest)
			aiGroup.POST("/analytics", d.AI.Analytics)
		}
	}

	return router
}
