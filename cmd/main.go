package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/confpulse/confpulse-backend/internal/clients/ignite"
	"github.com/confpulse/confpulse-backend/internal/db"
	"github.com/confpulse/confpulse-backend/internal/handlers"
	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/observability"
	"github.com/confpulse/confpulse-backend/internal/repos"
	"github.com/confpulse/confpulse-backend/internal/server"
	"github.com/confpulse/confpulse-backend/internal/services"
	"github.com/confpulse/confpulse-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "confpulse-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(ctx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	sessionRepo := repos.NewSessionRepo(thePG, log)
	taxonomyRepo := repos.NewTaxonomyRepo(thePG, log)
	linkRepo := repos.NewSessionLinkRepo(thePG, log)
	speakerRepo := repos.NewSpeakerRepo(thePG, log)
	voteRepo := repos.NewVoteRepo(thePG, log)
	runRepo := repos.NewIngestionRunRepo(thePG, log)

	// Facet cache
	facetCache, err := services.NewRedisFacetCache(log)
	if err != nil {
		log.Warn("Redis unavailable, facet caching disabled", "error", err)
		facetCache = services.NewNoopFacetCache()
	}

	// Services
	log.Info("Setting up Services from main...")
	igniteClient := ignite.NewClient(log)
	ingestionService := services.NewIngestionService(sessionRepo, taxonomyRepo, linkRepo, speakerRepo, runRepo, igniteClient, facetCache, log)
	catalogService := services.NewCatalogService(sessionRepo, taxonomyRepo, voteRepo, facetCache, log)
	voteService := services.NewVoteService(sessionRepo, voteRepo, log)
	cleanupService := services.NewCleanupService(speakerRepo, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	ingestHandler := handlers.NewIngestHandler(ingestionService)
	sessionHandler := handlers.NewSessionHandler(catalogService)
	facetHandler := handlers.NewFacetHandler(catalogService)
	voteHandler := handlers.NewVoteHandler(voteService)
	cleanupHandler := handlers.NewCleanupHandler(cleanupService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		IngestHandler:  ingestHandler,
		SessionHandler: sessionHandler,
		FacetHandler:   facetHandler,
		VoteHandler:    voteHandler,
		CleanupHandler: cleanupHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
