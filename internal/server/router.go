package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/confpulse/confpulse-backend/internal/handlers"
	"github.com/confpulse/confpulse-backend/internal/middleware"
)

type RouterConfig struct {
	IngestHandler  *handlers.IngestHandler
	SessionHandler *handlers.SessionHandler
	FacetHandler   *handlers.FacetHandler
	VoteHandler    *handlers.VoteHandler
	CleanupHandler *handlers.CleanupHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware("confpulse-backend"))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Ingestion triggers are POST-only; GET answers with a usage hint.
		api.POST("/ingest", cfg.IngestHandler.IngestIgnite)
		api.GET("/ingest", cfg.IngestHandler.IngestIgniteHint)
		api.POST("/ingest-reinvent", cfg.IngestHandler.IngestReinvent)
		api.GET("/ingest-reinvent", cfg.IngestHandler.IngestReinventHint)
		api.POST("/update-reinvent-videos", cfg.IngestHandler.UpdateReinventVideos)
		api.GET("/update-reinvent-videos", cfg.IngestHandler.UpdateReinventVideosHint)

		api.GET("/sessions", cfg.SessionHandler.List)
		api.GET("/facets", cfg.FacetHandler.Get)
		api.POST("/vote", cfg.VoteHandler.Cast)
		api.POST("/cleanup-companies", cfg.CleanupHandler.CleanupCompanies)
	}

	return router
}
