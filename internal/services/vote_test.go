package services

import (
	"context"
	"testing"

	"github.com/confpulse/confpulse-backend/internal/types"
)

func newVoteFixture(t *testing.T) (*VoteService, *testEnv, uint) {
	t.Helper()
	env := newTestEnv(t)
	ids := env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "v-1", title: "Votable"},
	})
	return NewVoteService(env.sessions, env.votes, env.log), env, ids["v-1"]
}

func TestCastVoteToggle(t *testing.T) {
	svc, _, sessionID := newVoteFixture(t)
	ctx := context.Background()

	// first cast creates
	result, err := svc.CastVote(ctx, sessionID, 1, "user-a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Action != "created" || result.UserVote == nil || *result.UserVote != 1 {
		t.Fatalf("result = %+v, want created with userVote 1", result)
	}
	if result.VoteCounts.Upvotes != 1 || result.VoteCounts.NetVotes != 1 {
		t.Fatalf("counts = %+v, want one upvote", result.VoteCounts)
	}

	// opposite value flips
	result, err = svc.CastVote(ctx, sessionID, -1, "user-a")
	if err != nil {
		t.Fatalf("flip: %v", err)
	}
	if result.Action != "updated" || *result.UserVote != -1 {
		t.Fatalf("result = %+v, want updated to -1", result)
	}
	if result.VoteCounts.Upvotes != 0 || result.VoteCounts.Downvotes != 1 {
		t.Fatalf("counts = %+v, want the single vote flipped", result.VoteCounts)
	}

	// same value removes
	result, err = svc.CastVote(ctx, sessionID, -1, "user-a")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if result.Action != "deleted" || result.UserVote != nil {
		t.Fatalf("result = %+v, want deleted with no live vote", result)
	}
	if result.VoteCounts != (types.VoteCounts{}) {
		t.Fatalf("counts = %+v, want empty tally", result.VoteCounts)
	}
}

func TestCastVoteOneLivePerUser(t *testing.T) {
	svc, env, sessionID := newVoteFixture(t)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, sessionID, 1, "user-a"); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if _, err := svc.CastVote(ctx, sessionID, -1, "user-a"); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if count := rowCount(t, env.db, "vote"); count != 1 {
		t.Fatalf("vote rows = %d, want a single live vote per user", count)
	}
}

func TestCastVoteIndependentUsers(t *testing.T) {
	svc, _, sessionID := newVoteFixture(t)
	ctx := context.Background()

	if _, err := svc.CastVote(ctx, sessionID, 1, "user-a"); err != nil {
		t.Fatalf("cast a: %v", err)
	}
	result, err := svc.CastVote(ctx, sessionID, -1, "user-b")
	if err != nil {
		t.Fatalf("cast b: %v", err)
	}
	if result.VoteCounts.Upvotes != 1 || result.VoteCounts.Downvotes != 1 || result.VoteCounts.NetVotes != 0 {
		t.Fatalf("counts = %+v, want 1 up 1 down", result.VoteCounts)
	}
}

func TestCastVoteValidation(t *testing.T) {
	svc, _, sessionID := newVoteFixture(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, sessionID, 2, "user-a")
	assertAPIError(t, err, 400, "invalid_vote_value")

	_, err = svc.CastVote(ctx, sessionID, 0, "user-a")
	assertAPIError(t, err, 400, "invalid_vote_value")

	_, err = svc.CastVote(ctx, sessionID, 1, "   ")
	assertAPIError(t, err, 400, "invalid_user_identifier")

	_, err = svc.CastVote(ctx, 0, 1, "user-a")
	assertAPIError(t, err, 400, "invalid_session_id")

	_, err = svc.CastVote(ctx, 99999, 1, "user-a")
	assertAPIError(t, err, 404, "session_not_found")
}
