package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/confpulse/confpulse-backend/internal/services"
)

type FacetHandler struct {
	catalog *services.CatalogService
}

func NewFacetHandler(catalog *services.CatalogService) *FacetHandler {
	return &FacetHandler{catalog: catalog}
}

func (fh *FacetHandler) Get(c *gin.Context) {
	facets, err := fh.catalog.Facets(c.Request.Context(), c.Query("eventSource"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, facets)
}
