package app

import (
	"github.com/gin-gonic/gin"

	"github.com/CazadorHJT/MCAT-Prep-App/internal/data/store"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/generation"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/http"
	httpH "github.com/CazadorHJT/MCAT-Prep-App/internal/http/handlers"
	httpMW "github.com/CazadorHJT/MCAT-Prep-App/internal/http/middleware"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/observability"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/platform/logger"
	"github.com/CazadorHJT/MCAT-Prep-App/internal/services"
)

type Services struct {
	Catalog  services.CatalogService
	Question services.QuestionService
	Progress services.ProgressService
	// Auth is nil when no JWT secret is configured.
	Auth services.AuthService
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Catalog  *httpH.CatalogHandler
	Question *httpH.QuestionHandler
	Progress *httpH.ProgressHandler
}

func wireServices(log *logger.Logger, cfg Config, st store.Store, gen generation.Generator) (Services, error) {
	log.Info("Wiring services...")
	out := Services{
		Catalog:  services.NewCatalogService(st, log),
		Question: services.NewQuestionService(st, gen, log),
		Progress: services.NewProgressService(st, log),
	}
	if cfg.JWTSecret != "" {
		auth, err := services.NewAuthService(services.AuthConfig{
			JWTSecret: cfg.JWTSecret,
			Audience:  cfg.JWTAudience,
		}, log)
		if err != nil {
			return Services{}, err
		}
		out.Auth = auth
	} else {
		log.Warn("SUPABASE_JWT_SECRET not set; progress routes disabled")
	}
	return out, nil
}

func wireMiddleware(log *logger.Logger, svcs Services) Middleware {
	log.Info("Wiring middleware...")
	if svcs.Auth == nil {
		return Middleware{}
	}
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, svcs.Auth)}
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Catalog:  httpH.NewCatalogHandler(log, svcs.Catalog),
		Question: httpH.NewQuestionHandler(log, svcs.Question),
		Progress: httpH.NewProgressHandler(log, svcs.Progress),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	rc := http.RouterConfig{
		Log:             log,
		CORSOrigins:     cfg.CORSOrigins,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		CatalogHandler:  handlers.Catalog,
		QuestionHandler: handlers.Question,
		ProgressHandler: handlers.Progress,
	}
	if observability.Enabled() {
		rc.TracingService = observability.ServiceName(observability.OtelConfig{})
	}
	return http.NewServer(rc)
}
