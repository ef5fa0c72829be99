package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/confpulse/confpulse-backend/internal/services"
)

type IngestHandler struct {
	ingestion *services.IngestionService
}

func NewIngestHandler(ingestion *services.IngestionService) *IngestHandler {
	return &IngestHandler{ingestion: ingestion}
}

func (ih *IngestHandler) IngestIgnite(c *gin.Context) {
	summary, err := ih.ingestion.IngestIgnite(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (ih *IngestHandler) IngestIgniteHint(c *gin.Context) {
	RespondMethodHint(c, "Use POST to trigger Ignite ingestion")
}

func (ih *IngestHandler) IngestReinvent(c *gin.Context) {
	summary, err := ih.ingestion.IngestReinvent(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (ih *IngestHandler) IngestReinventHint(c *gin.Context) {
	RespondMethodHint(c, "Use POST to trigger re:Invent ingestion")
}

func (ih *IngestHandler) UpdateReinventVideos(c *gin.Context) {
	summary, err := ih.ingestion.BackfillReinventVideos(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (ih *IngestHandler) UpdateReinventVideosHint(c *gin.Context) {
	RespondMethodHint(c, "Use POST to backfill re:Invent video URLs")
}
