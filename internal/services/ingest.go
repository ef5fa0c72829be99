package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/confpulse/confpulse-backend/internal/apierr"
	"github.com/confpulse/confpulse-backend/internal/clients/ignite"
	"github.com/confpulse/confpulse-backend/internal/clients/reinvent"
	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/repos"
	"github.com/confpulse/confpulse-backend/internal/types"
	"github.com/confpulse/confpulse-backend/internal/utils"
)

const (
	EventSourceIgnite   = "Ignite"
	EventSourceReinvent = "ReInvent"
)

// IngestSummary is the response body for an ingestion run.
type IngestSummary struct {
	Total   int    `json:"total"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Source  string `json:"source,omitempty"`
}

// BackfillSummary is the response body for the re:Invent video backfill.
type BackfillSummary struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

type IgniteFetcher interface {
	FetchSessions(ctx context.Context) ([]ignite.Session, error)
}

// IngestionService pulls both vendor catalogs into the local schema. Runs are
// idempotent: sessions upsert on (eventSource, sessionId), taxonomy entities
// upsert on logical value, and link rows are insert-or-ignore.
type IngestionService struct {
	sessions    repos.SessionRepo
	taxonomy    repos.TaxonomyRepo
	links       repos.SessionLinkRepo
	speakers    repos.SpeakerRepo
	runs        repos.IngestionRunRepo
	ignite      IgniteFetcher
	reinventDir string
	cache       FacetCache
	tracer      trace.Tracer
	log         *logger.Logger
}

func NewIngestionService(
	sessions repos.SessionRepo,
	taxonomy repos.TaxonomyRepo,
	links repos.SessionLinkRepo,
	speakers repos.SpeakerRepo,
	runs repos.IngestionRunRepo,
	igniteClient IgniteFetcher,
	cache FacetCache,
	baseLog *logger.Logger,
) *IngestionService {
	return &IngestionService{
		sessions:    sessions,
		taxonomy:    taxonomy,
		links:       links,
		speakers:    speakers,
		runs:        runs,
		ignite:      igniteClient,
		reinventDir: utils.GetEnv("REINVENT_DIR", ".", baseLog),
		cache:       cache,
		tracer:      otel.Tracer("confpulse/ingestion"),
		log:         baseLog.With("service", "IngestionService"),
	}
}

// IngestIgnite fetches the Ignite catalog and upserts every record.
func (s *IngestionService) IngestIgnite(ctx context.Context) (*IngestSummary, error) {
	ctx, span := s.tracer.Start(ctx, "IngestIgnite")
	defer span.End()

	startedAt := time.Now().UTC()
	records, err := s.ignite.FetchSessions(ctx)
	if err != nil {
		return nil, apierr.New(http.StatusBadGateway, "upstream_fetch_failed", err)
	}

	summary := &IngestSummary{Total: len(records)}
	var skipped []string
	for _, record := range records {
		if strings.TrimSpace(record.SessionID) == "" || strings.TrimSpace(record.Title) == "" {
			summary.Total--
			skipped = append(skipped, record.SessionID)
			continue
		}
		created, err := s.upsertIgniteRecord(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("ingest ignite session %s: %w", record.SessionID, err)
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	s.finishRun(ctx, EventSourceIgnite, summary, skipped, startedAt)
	return summary, nil
}

// IngestReinvent loads the local re:Invent catalog export and upserts every
// record. Video availability is left to the backfill pass.
func (s *IngestionService) IngestReinvent(ctx context.Context) (*IngestSummary, error) {
	ctx, span := s.tracer.Start(ctx, "IngestReinvent")
	defer span.End()

	startedAt := time.Now().UTC()
	records, err := s.loadReinventCatalog()
	if err != nil {
		return nil, err
	}

	summary := &IngestSummary{Total: len(records), Source: EventSourceReinvent}
	var skipped []string
	for _, record := range records {
		if strings.TrimSpace(record.ID) == "" || strings.TrimSpace(record.Title) == "" {
			summary.Total--
			skipped = append(skipped, record.ID)
			continue
		}
		created, err := s.upsertReinventRecord(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("ingest reinvent session %s: %w", record.ID, err)
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	s.finishRun(ctx, EventSourceReinvent, summary, skipped, startedAt)
	return summary, nil
}

// BackfillReinventVideos re-reads the catalog and marks sessions with a
// published recording as on-demand.
func (s *IngestionService) BackfillReinventVideos(ctx context.Context) (*BackfillSummary, error) {
	ctx, span := s.tracer.Start(ctx, "BackfillReinventVideos")
	defer span.End()

	records, err := s.loadReinventCatalog()
	if err != nil {
		return nil, err
	}

	updated := 0
	for _, record := range records {
		if record.YoutubeURL == "" {
			continue
		}
		session, err := s.sessions.GetBySourceKey(ctx, nil, EventSourceReinvent, record.ID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			continue
		}
		if err := s.sessions.SetOnDemand(ctx, nil, session.ID, record.YoutubeURL); err != nil {
			return nil, err
		}
		updated++
	}

	s.cache.Invalidate(ctx)
	s.log.Info("Backfilled re:Invent videos", "updated", updated)
	return &BackfillSummary{
		Message: fmt.Sprintf("Updated %d sessions with video URLs", updated),
		Updated: updated,
	}, nil
}

func (s *IngestionService) loadReinventCatalog() ([]reinvent.Session, error) {
	records, err := reinvent.Load(s.reinventDir)
	if err != nil {
		switch {
		case errors.Is(err, reinvent.ErrCatalogNotFound):
			return nil, apierr.New(http.StatusBadRequest, "catalog_file_missing", err)
		case errors.Is(err, reinvent.ErrCatalogInvalid):
			return nil, apierr.New(http.StatusBadRequest, "catalog_file_invalid", err)
		}
		return nil, err
	}
	return records, nil
}

func (s *IngestionService) finishRun(ctx context.Context, source string, summary *IngestSummary, skipped []string, startedAt time.Time) {
	detail, _ := json.Marshal(map[string]any{"skippedIds": skipped})
	run := &types.IngestionRun{
		Source:     source,
		Total:      summary.Total,
		Created:    summary.Created,
		Updated:    summary.Updated,
		Skipped:    len(skipped),
		Detail:     datatypes.JSON(detail),
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}
	if err := s.runs.Create(ctx, nil, run); err != nil {
		s.log.Warn("Failed to record ingestion run", "source", source, "error", err)
	}
	s.cache.Invalidate(ctx)

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("ingest.total", summary.Total),
		attribute.Int("ingest.created", summary.Created),
		attribute.Int("ingest.updated", summary.Updated),
	)
	s.log.Info("Ingestion run complete",
		"source", source,
		"total", summary.Total,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", len(skipped))
}

func (s *IngestionService) upsertIgniteRecord(ctx context.Context, record ignite.Session) (bool, error) {
	session := &types.Session{
		EventSource:       EventSourceIgnite,
		SessionID:         record.SessionID,
		SessionInstanceID: record.SessionInstanceID,
		LocalizedID:       record.LocalizedID,
		SessionCode:       record.SessionCode,
		LangLocale:        record.LangLocale,
		Title:             record.Title,
		SortTitle:         record.SortTitle,
		Description:       record.Description,
		AIDescription:     record.AIDescription,
		Location:          record.Location,
		TimeSlot:          record.TimeSlot,
		StartDateTime:     parseTime(record.StartDateTime),
		EndDateTime:       parseTime(record.EndDateTime),
		DurationInMinutes: record.DurationInMinutes,
		ReportingTopic:    record.ReportingTopic,
		OnDemandURL:       emptyToNil(record.OnDemand),
		DownloadVideoURL:  emptyToNil(record.DownloadVideoLink),
		CaptionFileURL:    emptyToNil(record.CaptionFileLink),
		ThumbnailURL:      emptyToNil(record.OnDemandThumbnail),
		RegistrationLink:  emptyToNil(record.RegistrationLink),
		HasOnDemand:       computeHasOnDemand(record),
		IsPopular:         record.IsPopular != nil && *record.IsPopular,
		HeroSession:       record.HeroSession != nil && *record.HeroSession,
	}
	if record.SessionType != nil {
		if logical, display, ok := normalizeOption(*record.SessionType); ok {
			session.SessionTypeLogical = &logical
			session.SessionTypeDisplay = &display
		}
	}

	created, err := s.sessions.Upsert(ctx, nil, session)
	if err != nil {
		return false, err
	}

	if err := s.linkOptions(ctx, session.ID, record.Topic, s.topicID, s.links.LinkTopic); err != nil {
		return false, err
	}
	if err := s.linkOptions(ctx, session.ID, record.Tags, s.tagID, s.links.LinkTag); err != nil {
		return false, err
	}
	if err := s.linkOptions(ctx, session.ID, record.SessionLevel, s.levelID, s.links.LinkLevel); err != nil {
		return false, err
	}
	if err := s.linkOptions(ctx, session.ID, record.AudienceTypes, s.audienceTypeID, s.links.LinkAudienceType); err != nil {
		return false, err
	}
	if err := s.linkOptions(ctx, session.ID, record.Industry, s.industryID, s.links.LinkIndustry); err != nil {
		return false, err
	}
	if err := s.linkOptions(ctx, session.ID, record.DeliveryTypes, s.deliveryTypeID, s.links.LinkDeliveryType); err != nil {
		return false, err
	}
	if err := s.linkOptions(ctx, session.ID, record.ViewingOptions, s.viewingOptionID, s.links.LinkViewingOption); err != nil {
		return false, err
	}

	if err := s.linkIgniteSpeakers(ctx, session.ID, record); err != nil {
		return false, err
	}
	return created, nil
}

// linkIgniteSpeakers pairs the comma-separated speakerNames list with the
// speakerIds list by position. Each name may carry a company after " - ";
// associatedCompanies on the record are linked to every speaker on it.
func (s *IngestionService) linkIgniteSpeakers(ctx context.Context, sessionID uint, record ignite.Session) error {
	var names []string
	if record.SpeakerNames != nil {
		names = strings.Split(*record.SpeakerNames, ",")
	}

	for i, externalID := range record.SpeakerIDs {
		if strings.TrimSpace(externalID) == "" || i >= len(names) {
			continue
		}
		parts := strings.Split(strings.TrimSpace(names[i]), " - ")
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}
		var company *string
		if len(parts) > 1 {
			company = cleanCompanyName(parts[1])
		}

		speaker, err := s.speakers.UpsertSpeaker(ctx, nil, externalID, name, company)
		if err != nil {
			return err
		}
		if err := s.links.LinkSpeaker(ctx, nil, sessionID, speaker.ID); err != nil {
			return err
		}

		if company != nil {
			if err := s.linkCompany(ctx, speaker.ID, *company); err != nil {
				return err
			}
		}
		for _, associated := range record.AssociatedCompanies {
			cleaned := cleanCompanyName(associated)
			if cleaned == nil {
				continue
			}
			if err := s.linkCompany(ctx, speaker.ID, *cleaned); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *IngestionService) linkCompany(ctx context.Context, speakerID uint, name string) error {
	company, err := s.speakers.UpsertCompany(ctx, nil, name)
	if err != nil {
		return err
	}
	return s.speakers.LinkSpeakerCompany(ctx, nil, speakerID, company.ID)
}

func (s *IngestionService) upsertReinventRecord(ctx context.Context, record reinvent.Session) (bool, error) {
	session := &types.Session{
		EventSource:   EventSourceReinvent,
		SessionID:     record.ID,
		SessionCode:   emptyToNilValue(record.ShortID),
		Title:         record.Title,
		Description:   emptyToNilValue(record.Abstract),
		Location:      emptyToNilValue(record.VenueRoomName),
		TimeSlot:      emptyToNilValue(record.Day),
		StartDateTime: parseTime(record.StartDateTime),
		EndDateTime:   parseTime(record.EndDateTime),
	}
	if record.Type != nil {
		if display := strings.TrimSpace(record.Type.Display()); display != "" {
			session.SessionTypeLogical = &display
			session.SessionTypeDisplay = &display
		}
	}

	created, err := s.sessions.Upsert(ctx, nil, session)
	if err != nil {
		return false, err
	}

	topicRefs := append(append([]reinvent.Ref{}, record.Topics...), record.Services...)
	if err := s.linkRefs(ctx, session.ID, topicRefs, s.topicID, s.links.LinkTopic); err != nil {
		return false, err
	}
	if err := s.linkRefs(ctx, session.ID, record.AreaOfInterest, s.tagID, s.links.LinkTag); err != nil {
		return false, err
	}
	if record.Level != nil {
		if err := s.linkRefs(ctx, session.ID, []reinvent.Ref{*record.Level}, s.levelID, s.links.LinkLevel); err != nil {
			return false, err
		}
	}
	if err := s.linkRefs(ctx, session.ID, record.Role, s.audienceTypeID, s.links.LinkAudienceType); err != nil {
		return false, err
	}
	if err := s.linkRefs(ctx, session.ID, record.Industry, s.industryID, s.links.LinkIndustry); err != nil {
		return false, err
	}
	if record.Segment != nil {
		if err := s.linkRefs(ctx, session.ID, []reinvent.Ref{*record.Segment}, s.deliveryTypeID, s.links.LinkDeliveryType); err != nil {
			return false, err
		}
	}

	for _, speaker := range record.Speakers {
		name := strings.TrimSpace(speaker.DisplayName)
		if name == "" {
			name = strings.TrimSpace(speaker.Name)
		}
		if speaker.ID == "" || name == "" {
			continue
		}
		company := cleanCompanyName(speaker.Company)
		row, err := s.speakers.UpsertSpeaker(ctx, nil, speaker.ID, name, company)
		if err != nil {
			return false, err
		}
		if err := s.links.LinkSpeaker(ctx, nil, session.ID, row.ID); err != nil {
			return false, err
		}
		if company != nil {
			if err := s.linkCompany(ctx, row.ID, *company); err != nil {
				return false, err
			}
		}
	}
	return created, nil
}

type upsertEntityFunc func(ctx context.Context, logical, display string) (uint, error)
type linkEntityFunc func(ctx context.Context, tx *gorm.DB, sessionID, entityID uint) error

func (s *IngestionService) linkOptions(ctx context.Context, sessionID uint, options []ignite.Option, upsert upsertEntityFunc, link linkEntityFunc) error {
	for _, option := range options {
		logical, display, ok := normalizeOption(option)
		if !ok {
			continue
		}
		entityID, err := upsert(ctx, logical, display)
		if err != nil {
			return err
		}
		if err := link(ctx, nil, sessionID, entityID); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestionService) linkRefs(ctx context.Context, sessionID uint, refs []reinvent.Ref, upsert upsertEntityFunc, link linkEntityFunc) error {
	for _, ref := range refs {
		display := strings.TrimSpace(ref.Display())
		if display == "" {
			continue
		}
		entityID, err := upsert(ctx, display, display)
		if err != nil {
			return err
		}
		if err := link(ctx, nil, sessionID, entityID); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestionService) topicID(ctx context.Context, logical, display string) (uint, error) {
	row, err := s.taxonomy.UpsertTopic(ctx, nil, logical, display)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *IngestionService) tagID(ctx context.Context, logical, display string) (uint, error) {
	row, err := s.taxonomy.UpsertTag(ctx, nil, logical, display)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *IngestionService) levelID(ctx context.Context, logical, display string) (uint, error) {
	row, err := s.taxonomy.UpsertLevel(ctx, nil, logical, display)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *IngestionService) audienceTypeID(ctx context.Context, logical, display string) (uint, error) {
	row, err := s.taxonomy.UpsertAudienceType(ctx, nil, logical, display)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *IngestionService) industryID(ctx context.Context, logical, display string) (uint, error) {
	row, err := s.taxonomy.UpsertIndustry(ctx, nil, logical, display)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *IngestionService) deliveryTypeID(ctx context.Context, logical, display string) (uint, error) {
	row, err := s.taxonomy.UpsertDeliveryType(ctx, nil, logical, display)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *IngestionService) viewingOptionID(ctx context.Context, logical, display string) (uint, error) {
	row, err := s.taxonomy.UpsertViewingOption(ctx, nil, logical, display)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// normalizeOption fills a missing side of a vendor option from the other side.
func normalizeOption(option ignite.Option) (logical, display string, ok bool) {
	logical = strings.TrimSpace(option.LogicalValue)
	display = strings.TrimSpace(option.DisplayValue)
	if logical == "" {
		logical = display
	}
	if display == "" {
		display = logical
	}
	return logical, display, logical != ""
}

// computeHasOnDemand treats a session as recorded when the catalog says so
// explicitly, carries a video URL, or lists a "Recorded" viewing option.
func computeHasOnDemand(record ignite.Session) bool {
	if record.HasOnDemand != nil && *record.HasOnDemand {
		return true
	}
	if record.OnDemand != nil && strings.TrimSpace(*record.OnDemand) != "" {
		return true
	}
	if record.DownloadVideoLink != nil && strings.TrimSpace(*record.DownloadVideoLink) != "" {
		return true
	}
	for _, option := range record.ViewingOptions {
		if option.LogicalValue == "Recorded" || option.DisplayValue == "Recorded" {
			return true
		}
	}
	return false
}

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func parseTime(raw *string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(*raw)); err == nil {
			return &parsed
		}
	}
	return nil
}

func emptyToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}

func emptyToNilValue(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
