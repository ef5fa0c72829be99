package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/confpulse/confpulse-backend/internal/clients/ignite"
)

func igniteFixture() []ignite.Session {
	return []ignite.Session{
		{
			SessionID:     "ms-1",
			Title:         "Intro to Copilot",
			Description:   strPtr("Build with Copilot"),
			StartDateTime: strPtr("2025-11-18T09:00:00Z"),
			SessionType:   &ignite.Option{LogicalValue: "breakout", DisplayValue: "Breakout"},
			Topic: []ignite.Option{
				{LogicalValue: "ai-agents", DisplayValue: "AI Agents"},
			},
			Tags: []ignite.Option{
				{LogicalValue: "copilot", DisplayValue: "Copilot"},
			},
			SessionLevel: []ignite.Option{
				{LogicalValue: "beginner", DisplayValue: "Beginner"},
			},
			ViewingOptions: []ignite.Option{
				{LogicalValue: "recorded", DisplayValue: "Recorded"},
			},
			SpeakerNames:        strPtr("Jane Doe - Contoso, John Roe"),
			SpeakerIDs:          []string{"spk-1", "spk-2"},
			AssociatedCompanies: []string{"Fabrikam", "2c9e1a44-93b1-4f0e-8d11-1f4c2a6b9e01"},
		},
		{
			SessionID:   "ms-2",
			Title:       "Securing the Estate",
			SessionType: &ignite.Option{LogicalValue: "keynote", DisplayValue: "Keynote"},
			Topic: []ignite.Option{
				{LogicalValue: "security", DisplayValue: "Security"},
			},
		},
	}
}

func TestIngestIgniteIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestion(t, fakeIgnite{sessions: igniteFixture()})
	ctx := context.Background()

	first, err := svc.IngestIgnite(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Total != 2 || first.Created != 2 || first.Updated != 0 {
		t.Fatalf("first run = %+v, want total 2 created 2 updated 0", first)
	}

	second, err := svc.IngestIgnite(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Created != 0 || second.Updated != 2 {
		t.Fatalf("second run = %+v, want created 0 updated 2", second)
	}

	for _, table := range []string{"session", "topic", "tag", "level", "speaker", "company", "session_topic", "session_speaker"} {
		before := rowCount(t, env.db, table)
		if _, err := svc.IngestIgnite(ctx); err != nil {
			t.Fatalf("third run: %v", err)
		}
		if after := rowCount(t, env.db, table); after != before {
			t.Errorf("table %s grew from %d to %d on re-run", table, before, after)
		}
	}
}

func TestIngestIgniteFields(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestion(t, fakeIgnite{sessions: igniteFixture()})
	ctx := context.Background()

	if _, err := svc.IngestIgnite(ctx); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	session, err := env.sessions.GetBySourceKey(ctx, nil, EventSourceIgnite, "ms-1")
	if err != nil || session == nil {
		t.Fatalf("lookup ms-1: session=%v err=%v", session, err)
	}
	if !session.HasOnDemand {
		t.Error("ms-1 has a Recorded viewing option, want hasOnDemand true")
	}
	if session.SessionTypeLogical == nil || *session.SessionTypeLogical != "breakout" {
		t.Errorf("sessionTypeLogical = %v, want breakout", session.SessionTypeLogical)
	}
	if session.StartDateTime == nil {
		t.Error("startDateTime not parsed")
	}

	other, err := env.sessions.GetBySourceKey(ctx, nil, EventSourceIgnite, "ms-2")
	if err != nil || other == nil {
		t.Fatalf("lookup ms-2: %v", err)
	}
	if other.HasOnDemand {
		t.Error("ms-2 has no recording signals, want hasOnDemand false")
	}

	// Jane Doe's company comes from the " - " split; the UUID associated
	// company must be filtered out, Fabrikam kept.
	companies, err := env.speakers.ListCompanies(ctx, nil)
	if err != nil {
		t.Fatalf("list companies: %v", err)
	}
	names := map[string]bool{}
	for _, company := range companies {
		names[company.Name] = true
	}
	if !names["Contoso"] || !names["Fabrikam"] {
		t.Errorf("companies = %v, want Contoso and Fabrikam", names)
	}
	if len(names) != 2 {
		t.Errorf("companies = %v, UUID company must be filtered", names)
	}
}

func TestComputeHasOnDemand(t *testing.T) {
	tests := []struct {
		name   string
		record ignite.Session
		want   bool
	}{
		{"explicit flag", ignite.Session{HasOnDemand: boolPtr(true)}, true},
		{"onDemand url", ignite.Session{OnDemand: strPtr("https://example.com/v")}, true},
		{"download link", ignite.Session{DownloadVideoLink: strPtr("https://example.com/d")}, true},
		{"recorded option", ignite.Session{ViewingOptions: []ignite.Option{{DisplayValue: "Recorded"}}}, true},
		{"recorded logical", ignite.Session{ViewingOptions: []ignite.Option{{LogicalValue: "Recorded"}}}, true},
		{"lowercase option does not match", ignite.Session{ViewingOptions: []ignite.Option{{LogicalValue: "recorded", DisplayValue: "recorded"}}}, false},
		{"no signals", ignite.Session{HasOnDemand: boolPtr(false), OnDemand: strPtr("  ")}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := computeHasOnDemand(tc.record); got != tc.want {
				t.Errorf("computeHasOnDemand = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIngestIgniteSkipsIncomplete(t *testing.T) {
	env := newTestEnv(t)
	records := []ignite.Session{
		{SessionID: "ok-1", Title: "Valid"},
		{SessionID: "", Title: "No identifier"},
		{SessionID: "no-title", Title: "  "},
	}
	svc := env.ingestion(t, fakeIgnite{sessions: records})

	summary, err := svc.IngestIgnite(context.Background())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.Total != 1 || summary.Created != 1 {
		t.Fatalf("summary = %+v, want total 1 created 1", summary)
	}
	if count := rowCount(t, env.db, "session"); count != 1 {
		t.Fatalf("session rows = %d, want 1", count)
	}
}

func TestIngestRunRecorded(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestion(t, fakeIgnite{sessions: igniteFixture()})

	if _, err := svc.IngestIgnite(context.Background()); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	runs, err := env.runs.ListRecent(context.Background(), nil, 5)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Source != EventSourceIgnite || runs[0].Created != 2 {
		t.Errorf("run = %+v, want Ignite source with 2 created", runs[0])
	}
}

const reinventCatalog = `{
  "catalog": [
    {
      "id": "aws-1",
      "shortId": "SVS301",
      "title": "Serverless Patterns",
      "abstract": "Event-driven design",
      "startDateTime": "2025-12-01T10:00:00Z",
      "type": {"id": "t1", "displayName": "Breakout Session"},
      "level": {"id": "l1", "displayName": "Advanced (300)"},
      "services": [{"id": "s1", "displayName": "Lambda"}],
      "topics": [{"id": "tp1", "displayName": "Serverless"}],
      "areaOfInterest": [{"id": "a1", "displayName": "Architecture"}],
      "speakers": [{"id": "sp1", "displayName": "Ana Lima", "company": "Initech"}],
      "youtubeUrl": "https://youtube.com/watch?v=abc123"
    },
    {
      "id": "aws-2",
      "title": "Keynote",
      "speakers": [],
      "youtubeUrl": ""
    }
  ]
}`

func writeReinventCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "reinvent.json"), []byte(reinventCatalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return dir
}

func TestIngestReinvent(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("REINVENT_DIR", writeReinventCatalog(t))
	svc := env.ingestion(t, fakeIgnite{})
	ctx := context.Background()

	summary, err := svc.IngestReinvent(ctx)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.Total != 2 || summary.Created != 2 || summary.Source != EventSourceReinvent {
		t.Fatalf("summary = %+v, want 2 created from ReInvent", summary)
	}

	session, err := env.sessions.GetBySourceKey(ctx, nil, EventSourceReinvent, "aws-1")
	if err != nil || session == nil {
		t.Fatalf("lookup aws-1: %v", err)
	}
	if session.HasOnDemand {
		t.Error("ingest must not mark re:Invent sessions on-demand, that is the backfill's job")
	}
	if session.Description == nil || *session.Description != "Event-driven design" {
		t.Errorf("description = %v, want abstract mapped", session.Description)
	}

	// topics fold in both topics and services
	topics, err := env.taxonomy.ListTopics(ctx, nil)
	if err != nil {
		t.Fatalf("list topics: %v", err)
	}
	seen := map[string]bool{}
	for _, topic := range topics {
		seen[topic.DisplayValue] = true
	}
	if !seen["Serverless"] || !seen["Lambda"] {
		t.Errorf("topics = %v, want Serverless and Lambda", seen)
	}
}

func TestBackfillReinventVideos(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("REINVENT_DIR", writeReinventCatalog(t))
	svc := env.ingestion(t, fakeIgnite{})
	ctx := context.Background()

	if _, err := svc.IngestReinvent(ctx); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	result, err := svc.BackfillReinventVideos(ctx)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("updated = %d, want 1 (only aws-1 has a video)", result.Updated)
	}

	session, err := env.sessions.GetBySourceKey(ctx, nil, EventSourceReinvent, "aws-1")
	if err != nil || session == nil {
		t.Fatalf("lookup aws-1: %v", err)
	}
	if !session.HasOnDemand || session.OnDemandURL == nil {
		t.Errorf("aws-1 = hasOnDemand %v url %v, want marked on-demand", session.HasOnDemand, session.OnDemandURL)
	}
}

func TestIngestReinventMissingCatalog(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("REINVENT_DIR", t.TempDir())
	svc := env.ingestion(t, fakeIgnite{})

	_, err := svc.IngestReinvent(context.Background())
	assertAPIError(t, err, 400, "catalog_file_missing")
}

func TestIngestIgniteUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	svc := env.ingestion(t, fakeIgnite{err: errUpstream})

	_, err := svc.IngestIgnite(context.Background())
	assertAPIError(t, err, 502, "upstream_fetch_failed")
}
