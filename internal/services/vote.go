package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/confpulse/confpulse-backend/internal/apierr"
	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/repos"
	"github.com/confpulse/confpulse-backend/internal/types"
)

// VoteResult reports what a cast did: "created" a new vote, "updated" the
// value, or "deleted" the existing one (same value cast twice). UserVote is
// the user's live vote after the cast, nil when deleted.
type VoteResult struct {
	Success    bool             `json:"success"`
	Action     string           `json:"action"`
	Vote       *types.Vote      `json:"vote,omitempty"`
	UserVote   *int             `json:"userVote"`
	VoteCounts types.VoteCounts `json:"voteCounts"`
}

type VoteService struct {
	sessions repos.SessionRepo
	votes    repos.VoteRepo
	log      *logger.Logger
}

func NewVoteService(sessions repos.SessionRepo, votes repos.VoteRepo, baseLog *logger.Logger) *VoteService {
	return &VoteService{
		sessions: sessions,
		votes:    votes,
		log:      baseLog.With("service", "VoteService"),
	}
}

// CastVote applies toggle semantics: no existing vote creates one, the same
// value removes it, the opposite value flips it.
func (s *VoteService) CastVote(ctx context.Context, sessionID uint, value int, userIdentifier string) (*VoteResult, error) {
	if value != 1 && value != -1 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_vote_value", fmt.Errorf("vote value must be 1 or -1, got %d", value))
	}
	userIdentifier = strings.TrimSpace(userIdentifier)
	if userIdentifier == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_user_identifier", fmt.Errorf("userIdentifier is required"))
	}
	if sessionID == 0 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_session_id", fmt.Errorf("sessionId is required"))
	}

	session, err := s.sessions.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apierr.New(http.StatusNotFound, "session_not_found", fmt.Errorf("session %d not found", sessionID))
	}

	existing, err := s.votes.Get(ctx, nil, sessionID, userIdentifier)
	if err != nil {
		return nil, err
	}

	result := &VoteResult{Success: true}
	switch {
	case existing == nil:
		vote := &types.Vote{SessionID: sessionID, UserIdentifier: userIdentifier, Value: value}
		if err := s.votes.Create(ctx, nil, vote); err != nil {
			return nil, err
		}
		result.Action = "created"
		result.Vote = vote
		result.UserVote = &vote.Value
	case existing.Value == value:
		if err := s.votes.Delete(ctx, nil, existing.ID); err != nil {
			return nil, err
		}
		result.Action = "deleted"
	default:
		vote, err := s.votes.UpdateValue(ctx, nil, existing.ID, value)
		if err != nil {
			return nil, err
		}
		result.Action = "updated"
		result.Vote = vote
		result.UserVote = &vote.Value
	}

	counts, err := s.votes.TallyForSession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	result.VoteCounts = counts

	s.log.Info("Vote cast",
		"sessionId", sessionID,
		"user_identifier", userIdentifier,
		"action", result.Action)
	return result, nil
}
