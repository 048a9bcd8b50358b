package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seedtrial/seedtrial/internal/api/handlers"
	"github.com/seedtrial/seedtrial/internal/api/middleware"
	"github.com/seedtrial/seedtrial/internal/logging"
	"github.com/seedtrial/seedtrial/internal/metrics"
)

type Router struct {
	engine          *gin.Engine
	logger          *slog.Logger
	metrics         *metrics.HTTPMetrics
	authMiddleware  *middleware.AuthMiddleware
	authHandler     *handlers.AuthHandler
	seedHandler     *handlers.SeedHandler
	plotHandler     *handlers.PlotHandler
	trialHandler    *handlers.TrialHandler
	incidentHandler *handlers.IncidentHandler
	profileHandler  *handlers.ProfileHandler
}

// Handlers groups the per-resource handlers the router mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Seed     *handlers.SeedHandler
	Plot     *handlers.PlotHandler
	Trial    *handlers.TrialHandler
	Incident *handlers.IncidentHandler
	Profile  *handlers.ProfileHandler
}

func NewRouter(
	logger *slog.Logger,
	m *metrics.HTTPMetrics,
	tokens middleware.TokenValidator,
	h Handlers,
) *Router {
	return &Router{
		logger:          logger,
		metrics:         m,
		authMiddleware:  middleware.NewAuthMiddleware(tokens),
		authHandler:     h.Auth,
		seedHandler:     h.Seed,
		plotHandler:     h.Plot,
		trialHandler:    h.Trial,
		incidentHandler: h.Incident,
		profileHandler:  h.Profile,
	}
}

func (r *Router) Setup(mode string) *gin.Engine {
	gin.SetMode(mode)
	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	r.engine.Use(logging.GinLogger(r.logger))
	if r.metrics != nil {
		r.engine.Use(r.metrics.Middleware())
	}
	r.engine.Use(middleware.ErrorHandler(r.logger))

	r.setupRoutes()
	return r.engine
}

func (r *Router) setupRoutes() {
	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}

	api := r.engine.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (public)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", r.authHandler.Login)
		authRoutes.POST("/refresh", r.authHandler.Refresh)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())
	{
		protected.GET("/auth/me", r.authHandler.Me)

		seeds := protected.Group("/seeds")
		{
			seeds.GET("", r.seedHandler.List)
			seeds.POST("", r.seedHandler.Create)
			seeds.GET("/search", r.seedHandler.Search)
			seeds.GET("/:id", r.seedHandler.Get)
			seeds.PUT("/:id", r.seedHandler.Update)
			seeds.PATCH("/:id", r.seedHandler.Update)
			seeds.DELETE("/:id", r.seedHandler.Delete)
			seeds.GET("/:id/trials", r.seedHandler.Trials)
			seeds.GET("/:id/performance", r.seedHandler.Performance)
		}

		plots := protected.Group("/plots")
		{
			plots.GET("", r.plotHandler.List)
			plots.POST("", r.plotHandler.Create)
			plots.GET("/search", r.plotHandler.Search)
			plots.GET("/:id", r.plotHandler.Get)
			plots.PUT("/:id", r.plotHandler.Update)
			plots.PATCH("/:id", r.plotHandler.Update)
			plots.DELETE("/:id", r.plotHandler.Delete)
			plots.GET("/:id/active_trials", r.plotHandler.ActiveTrials)
			plots.GET("/:id/incidents", r.plotHandler.Incidents)
		}

		trials := protected.Group("/trials")
		{
			trials.GET("", r.trialHandler.List)
			trials.POST("", r.trialHandler.Create)
			trials.GET("/search", r.trialHandler.Search)
			trials.GET("/summary", r.trialHandler.Summary)
			trials.GET("/:id", r.trialHandler.Get)
			trials.PUT("/:id", r.trialHandler.Update)
			trials.PATCH("/:id", r.trialHandler.Update)
			trials.DELETE("/:id", r.trialHandler.Delete)
			trials.GET("/:id/incidents", r.trialHandler.Incidents)
			trials.POST("/:id/add_incident", r.trialHandler.AddIncident)
		}

		incidents := protected.Group("/incidents")
		{
			incidents.GET("", r.incidentHandler.List)
			incidents.POST("", r.incidentHandler.Create)
			incidents.GET("/summary", r.incidentHandler.Summary)
			incidents.GET("/:id", r.incidentHandler.Get)
			incidents.PUT("/:id", r.incidentHandler.Update)
			incidents.PATCH("/:id", r.incidentHandler.Update)
			incidents.DELETE("/:id", r.incidentHandler.Delete)
		}

		profiles := protected.Group("/profiles")
		{
			profiles.GET("", r.profileHandler.List)
			profiles.POST("", r.profileHandler.Create)
			profiles.GET("/:id", r.profileHandler.Get)
			profiles.PUT("/:id", r.profileHandler.Update)
			profiles.PATCH("/:id", r.profileHandler.Update)
			profiles.DELETE("/:id", r.profileHandler.Delete)
			profiles.GET("/:id/trials", r.profileHandler.Trials)
			profiles.GET("/:id/incidents", r.profileHandler.Incidents)
		}
	}
}
