package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/confpulse/confpulse-backend/internal/services"
)

type SessionHandler struct {
	catalog *services.CatalogService
}

func NewSessionHandler(catalog *services.CatalogService) *SessionHandler {
	return &SessionHandler{catalog: catalog}
}

func (sh *SessionHandler) List(c *gin.Context) {
	query := services.SessionQuery{
		EventSource:  c.Query("eventSource"),
		Search:       c.Query("search"),
		Topic:        c.Query("topic"),
		Tag:          c.Query("tag"),
		SessionType:  c.Query("sessionType"),
		Level:        c.Query("level"),
		AudienceType: c.Query("audienceType"),
		Industry:     c.Query("industry"),
		DeliveryType: c.Query("deliveryType"),
		VoteFilter:   c.Query("voteFilter"),
	}

	switch c.Query("hasOnDemand") {
	case "true":
		yes := true
		query.HasOnDemand = &yes
	case "false":
		no := false
		query.HasOnDemand = &no
	}

	var err error
	if query.Page, err = intQuery(c, "page", 1); err != nil {
		RespondBadRequest(c, "invalid_pagination", err)
		return
	}
	if query.Limit, err = intQuery(c, "limit", 20); err != nil {
		RespondBadRequest(c, "invalid_pagination", err)
		return
	}

	page, err := sh.catalog.ListSessions(c.Request.Context(), query)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return value, nil
}
