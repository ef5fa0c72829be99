package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/confpulse/confpulse-backend/internal/apierr"
	"github.com/confpulse/confpulse-backend/internal/clients/ignite"
	"github.com/confpulse/confpulse-backend/internal/db"
	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/repos"
)

var testDBSeq atomic.Int64

// Each test gets its own named shared in-memory database. The shared cache
// matters: queries fan out over the connection pool, and an unshared
// ":memory:" DSN would hand every pooled connection an empty schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(db.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

type testEnv struct {
	db       *gorm.DB
	sessions repos.SessionRepo
	taxonomy repos.TaxonomyRepo
	links    repos.SessionLinkRepo
	speakers repos.SpeakerRepo
	votes    repos.VoteRepo
	runs     repos.IngestionRunRepo
	log      *logger.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	return &testEnv{
		db:       gdb,
		sessions: repos.NewSessionRepo(gdb, log),
		taxonomy: repos.NewTaxonomyRepo(gdb, log),
		links:    repos.NewSessionLinkRepo(gdb, log),
		speakers: repos.NewSpeakerRepo(gdb, log),
		votes:    repos.NewVoteRepo(gdb, log),
		runs:     repos.NewIngestionRunRepo(gdb, log),
		log:      log,
	}
}

func (e *testEnv) ingestion(t *testing.T, fetcher IgniteFetcher) *IngestionService {
	t.Helper()
	return NewIngestionService(e.sessions, e.taxonomy, e.links, e.speakers, e.runs, fetcher, NewNoopFacetCache(), e.log)
}

func (e *testEnv) catalog(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(e.sessions, e.taxonomy, e.votes, NewNoopFacetCache(), e.log)
}

type fakeIgnite struct {
	sessions []ignite.Session
	err      error
}

func (f fakeIgnite) FetchSessions(ctx context.Context) ([]ignite.Session, error) {
	return f.sessions, f.err
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

var errUpstream = errors.New("upstream unavailable")

func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var tagged *apierr.Error
	if !errors.As(err, &tagged) {
		t.Fatalf("error %v is not tagged with a status", err)
	}
	if tagged.Status != status || tagged.Code != code {
		t.Fatalf("error = %d/%s, want %d/%s", tagged.Status, tagged.Code, status, code)
	}
}

func rowCount(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	if err := gdb.Table(table).Count(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
