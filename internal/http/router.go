package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/CazadorHJT/MCAT-Prep-App/internal/http/handlers"
	httpMW "github.com/CazadorHJT/MCAT-Prep-App/internal/http/middleware"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	CORSOrigins []string
	// TracingService enables otelgin spans under that service name.
	TracingService string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	CatalogHandler  *httpH.CatalogHandler
	QuestionHandler *httpH.QuestionHandler
	ProgressHandler *httpH.ProgressHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Catalog
	if cfg.CatalogHandler != nil {
		r.GET("/books", cfg.CatalogHandler.ListBooks)
		r.GET("/books/:book_id/chapters", cfg.CatalogHandler.ListChapters)
		r.GET("/chapters/:chapter_id/questions", cfg.CatalogHandler.ListQuestions)
	}

	// Questions
	if cfg.QuestionHandler != nil {
		r.POST("/questions/regenerate", cfg.QuestionHandler.Regenerate)
	}

	// Progress requires a verified caller; without auth the routes stay unregistered.
	if cfg.ProgressHandler != nil && cfg.AuthMiddleware != nil {
		protected := r.Group("/progress")
		protected.Use(cfg.AuthMiddleware.RequireAuth())
		{
			protected.POST("", cfg.ProgressHandler.RecordAnswer)
			protected.GET("/stats", cfg.ProgressHandler.Stats)
			protected.GET("/mastery", cfg.ProgressHandler.Mastery)
		}
	}

	return r
}
