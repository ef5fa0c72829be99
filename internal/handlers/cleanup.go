package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/confpulse/confpulse-backend/internal/services"
)

type CleanupHandler struct {
	cleanup *services.CleanupService
}

func NewCleanupHandler(cleanup *services.CleanupService) *CleanupHandler {
	return &CleanupHandler{cleanup: cleanup}
}

func (ch *CleanupHandler) CleanupCompanies(c *gin.Context) {
	summary, err := ch.cleanup.CleanupCompanies(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, summary)
}
