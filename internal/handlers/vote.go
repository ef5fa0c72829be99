package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/confpulse/confpulse-backend/internal/services"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

func (vh *VoteHandler) Cast(c *gin.Context) {
	var req struct {
		SessionID      *uint   `json:"sessionId"`
		Value          *int    `json:"value"`
		UserIdentifier *string `json:"userIdentifier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid_session_id", fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.SessionID == nil {
		RespondBadRequest(c, "invalid_session_id", fmt.Errorf("sessionId is required and must be a number"))
		return
	}
	if req.Value == nil {
		RespondBadRequest(c, "invalid_vote_value", fmt.Errorf("value is required and must be 1 or -1"))
		return
	}
	if req.UserIdentifier == nil {
		RespondBadRequest(c, "invalid_user_identifier", fmt.Errorf("userIdentifier is required"))
		return
	}

	result, err := vh.votes.CastVote(c.Request.Context(), *req.SessionID, *req.Value, *req.UserIdentifier)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}
