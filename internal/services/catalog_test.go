package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/confpulse/confpulse-backend/internal/types"
)

type seedSession struct {
	source      string
	sessionID   string
	title       string
	hasOnDemand bool
	topics      []string
	levels      []string
	tags        []string
}

func (e *testEnv) seed(t *testing.T, seeds []seedSession) map[string]uint {
	t.Helper()
	ctx := context.Background()
	ids := make(map[string]uint, len(seeds))
	for _, seed := range seeds {
		session := &types.Session{
			EventSource: seed.source,
			SessionID:   seed.sessionID,
			Title:       seed.title,
			HasOnDemand: seed.hasOnDemand,
		}
		if _, err := e.sessions.Upsert(ctx, nil, session); err != nil {
			t.Fatalf("seed session %s: %v", seed.sessionID, err)
		}
		ids[seed.sessionID] = session.ID
		for _, topic := range seed.topics {
			row, err := e.taxonomy.UpsertTopic(ctx, nil, topic, topic)
			if err != nil {
				t.Fatalf("seed topic %s: %v", topic, err)
			}
			if err := e.links.LinkTopic(ctx, nil, session.ID, row.ID); err != nil {
				t.Fatalf("link topic: %v", err)
			}
		}
		for _, level := range seed.levels {
			row, err := e.taxonomy.UpsertLevel(ctx, nil, level, level)
			if err != nil {
				t.Fatalf("seed level %s: %v", level, err)
			}
			if err := e.links.LinkLevel(ctx, nil, session.ID, row.ID); err != nil {
				t.Fatalf("link level: %v", err)
			}
		}
		for _, tag := range seed.tags {
			row, err := e.taxonomy.UpsertTag(ctx, nil, tag, tag)
			if err != nil {
				t.Fatalf("seed tag %s: %v", tag, err)
			}
			if err := e.links.LinkTag(ctx, nil, session.ID, row.ID); err != nil {
				t.Fatalf("link tag: %v", err)
			}
		}
	}
	return ids
}

func TestListSessionsPagination(t *testing.T) {
	env := newTestEnv(t)
	var seeds []seedSession
	for i := 0; i < 5; i++ {
		seeds = append(seeds, seedSession{
			source:    EventSourceIgnite,
			sessionID: fmt.Sprintf("s-%d", i),
			title:     fmt.Sprintf("Session %d", i),
		})
	}
	env.seed(t, seeds)
	svc := env.catalog(t)
	ctx := context.Background()

	page, err := svc.ListSessions(ctx, SessionQuery{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Sessions) != 2 {
		t.Errorf("page 1 size = %d, want 2", len(page.Sessions))
	}
	if page.Pagination.Total != 5 || page.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want total 5, totalPages 3", page.Pagination)
	}

	last, err := svc.ListSessions(ctx, SessionQuery{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last.Sessions) != 1 {
		t.Errorf("page 3 size = %d, want remainder 1", len(last.Sessions))
	}

	beyond, err := svc.ListSessions(ctx, SessionQuery{Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("list beyond: %v", err)
	}
	if len(beyond.Sessions) != 0 || beyond.Pagination.Total != 5 {
		t.Errorf("out-of-range page = %d sessions total %d, want 0 and 5", len(beyond.Sessions), beyond.Pagination.Total)
	}
}

func TestListSessionsRecordedFirst(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "plain", title: "Plain"},
		{source: EventSourceIgnite, sessionID: "recorded", title: "Recorded", hasOnDemand: true},
	})
	svc := env.catalog(t)

	page, err := svc.ListSessions(context.Background(), SessionQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(page.Sessions))
	}
	if !page.Sessions[0].HasOnDemand {
		t.Error("recorded session must sort first")
	}
}

func TestListSessionsSearchIsLiteral(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "pct", title: "Shipping at 100% Confidence"},
		{source: EventSourceIgnite, sessionID: "days", title: "100 Days of Cloud"},
		{source: EventSourceIgnite, sessionID: "us", title: "snake_case APIs"},
	})
	svc := env.catalog(t)
	ctx := context.Background()

	page, err := svc.ListSessions(ctx, SessionQuery{Search: "100%"})
	if err != nil {
		t.Fatalf("search percent: %v", err)
	}
	if len(page.Sessions) != 1 || page.Sessions[0].SessionID != "pct" {
		t.Errorf("search %q matched %d sessions, want only the literal percent title", "100%", len(page.Sessions))
	}

	under, err := svc.ListSessions(ctx, SessionQuery{Search: "snake_case"})
	if err != nil {
		t.Fatalf("search underscore: %v", err)
	}
	if len(under.Sessions) != 1 || under.Sessions[0].SessionID != "us" {
		t.Errorf("underscore search matched %d sessions, want 1", len(under.Sessions))
	}
}

func TestListSessionsCategoryExpansion(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "ai-1", title: "Agents", topics: []string{"ai-agents"}},
		{source: EventSourceIgnite, sessionID: "ai-2", title: "Copilot", topics: []string{"copilot-studio"}},
		{source: EventSourceIgnite, sessionID: "sec-1", title: "Zero Trust", topics: []string{"security"}},
		{source: EventSourceIgnite, sessionID: "odd-1", title: "Oddball", topics: []string{"weird-literal"}},
	})
	svc := env.catalog(t)
	ctx := context.Background()

	// Both raw AI topics categorize into ai-machine-learning.
	page, err := svc.ListSessions(ctx, SessionQuery{Topic: "ai-machine-learning"})
	if err != nil {
		t.Fatalf("list ai: %v", err)
	}
	if len(page.Sessions) != 2 {
		t.Errorf("ai category matched %d sessions, want 2", len(page.Sessions))
	}

	// A value no raw topic categorizes into falls back to a literal match.
	literal, err := svc.ListSessions(ctx, SessionQuery{Topic: "weird-literal"})
	if err != nil {
		t.Fatalf("list literal: %v", err)
	}
	if len(literal.Sessions) != 1 || literal.Sessions[0].SessionID != "odd-1" {
		t.Errorf("literal topic matched %d sessions, want odd-1 only", len(literal.Sessions))
	}
}

func TestListSessionsLevelExpansion(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "b-1", title: "Basics", levels: []string{"beginner"}},
		{source: EventSourceIgnite, sessionID: "b-2", title: "Level 100", levels: []string{"100"}},
		{source: EventSourceIgnite, sessionID: "a-1", title: "Deep", levels: []string{"advanced"}},
	})
	svc := env.catalog(t)

	page, err := svc.ListSessions(context.Background(), SessionQuery{Level: "beginner-100"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Sessions) != 2 {
		t.Errorf("beginner-100 matched %d sessions, want 2 (both raw beginner values)", len(page.Sessions))
	}
}

func TestListSessionsVoteSignFilter(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "up", title: "Loved"},
		{source: EventSourceIgnite, sessionID: "down", title: "Panned"},
		{source: EventSourceIgnite, sessionID: "quiet", title: "Quiet"},
	})
	ctx := context.Background()
	mustVote := func(sessionID uint, user string, value int) {
		t.Helper()
		if err := env.votes.Create(ctx, nil, &types.Vote{SessionID: sessionID, UserIdentifier: user, Value: value}); err != nil {
			t.Fatalf("seed vote: %v", err)
		}
	}
	mustVote(ids["up"], "u1", 1)
	mustVote(ids["up"], "u2", 1)
	mustVote(ids["down"], "u1", -1)

	svc := env.catalog(t)
	high, err := svc.ListSessions(ctx, SessionQuery{VoteFilter: "high"})
	if err != nil {
		t.Fatalf("list high: %v", err)
	}
	if len(high.Sessions) != 1 || high.Sessions[0].SessionID != "up" {
		t.Errorf("high filter returned %d sessions, want only the upvoted one", len(high.Sessions))
	}
	if high.Sessions[0].VoteCounts.NetVotes != 2 {
		t.Errorf("netVotes = %d, want 2", high.Sessions[0].VoteCounts.NetVotes)
	}

	none, err := svc.ListSessions(ctx, SessionQuery{VoteFilter: "none"})
	if err != nil {
		t.Fatalf("list none: %v", err)
	}
	if len(none.Sessions) != 1 || none.Sessions[0].SessionID != "quiet" {
		t.Errorf("none filter returned %d sessions, want only the unvoted one", len(none.Sessions))
	}
}

func TestFacets(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "f-1", title: "Agents", hasOnDemand: true,
			topics: []string{"ai-agents"}, levels: []string{"advanced"}, tags: []string{"copilot"}},
		{source: EventSourceIgnite, sessionID: "f-2", title: "Zero Trust",
			topics: []string{"security"}, levels: []string{"beginner"}, tags: []string{"copilot", "zero-trust"}},
		{source: EventSourceReinvent, sessionID: "f-3", title: "Lambda",
			topics: []string{"Serverless"}},
	})
	svc := env.catalog(t)
	ctx := context.Background()

	facets, err := svc.Facets(ctx, "")
	if err != nil {
		t.Fatalf("facets: %v", err)
	}

	if facets.RecordedCount != 1 || facets.NonRecordedCount != 2 {
		t.Errorf("recorded/nonRecorded = %d/%d, want 1/2", facets.RecordedCount, facets.NonRecordedCount)
	}
	if len(facets.EventSources) != 2 {
		t.Errorf("eventSources = %v, want both sources", facets.EventSources)
	}

	topicSeen := map[string]int64{}
	for _, entry := range facets.Topics {
		if entry.Count == 0 {
			t.Errorf("zero-count topic %s must be omitted", entry.LogicalValue)
		}
		topicSeen[entry.LogicalValue] = entry.Count
	}
	if topicSeen["ai-machine-learning"] != 1 || topicSeen["security-compliance"] != 1 {
		t.Errorf("topics = %v, want ai and security categories counted", topicSeen)
	}

	// Levels come back in ascending numeric order.
	for i := 1; i < len(facets.Levels); i++ {
		if levelSuffix(facets.Levels[i-1].LogicalValue) > levelSuffix(facets.Levels[i].LogicalValue) {
			t.Errorf("levels out of order: %v", facets.Levels)
		}
	}

	if len(facets.PopularTags) == 0 {
		t.Fatal("expected popular tags")
	}
	if facets.PopularTags[0].LogicalValue != "copilot" || facets.PopularTags[0].Count != 2 {
		t.Errorf("top tag = %+v, want copilot with usage 2", facets.PopularTags[0])
	}
}

func TestFacetsEventSourceScoped(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []seedSession{
		{source: EventSourceIgnite, sessionID: "i-1", title: "Ignite", hasOnDemand: true},
		{source: EventSourceReinvent, sessionID: "r-1", title: "ReInvent"},
	})
	svc := env.catalog(t)

	facets, err := svc.Facets(context.Background(), EventSourceIgnite)
	if err != nil {
		t.Fatalf("facets: %v", err)
	}
	if facets.RecordedCount != 1 || facets.NonRecordedCount != 0 {
		t.Errorf("scoped counts = %d/%d, want 1/0", facets.RecordedCount, facets.NonRecordedCount)
	}
}

func TestUpsertOverwritesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := &types.Session{EventSource: EventSourceIgnite, SessionID: "x", Title: "Old", Description: strPtr("stale")}
	created, err := env.sessions.Upsert(ctx, nil, first)
	if err != nil || !created {
		t.Fatalf("first upsert created=%v err=%v", created, err)
	}

	second := &types.Session{EventSource: EventSourceIgnite, SessionID: "x", Title: "New"}
	created, err = env.sessions.Upsert(ctx, nil, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert must report updated, not created")
	}
	if second.ID != first.ID {
		t.Errorf("id changed %d -> %d on update", first.ID, second.ID)
	}

	stored, err := env.sessions.GetByID(ctx, nil, first.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Title != "New" {
		t.Errorf("title = %q, want overwritten", stored.Title)
	}
	if stored.Description != nil {
		t.Errorf("description = %v, want cleared by full overwrite", stored.Description)
	}
}
