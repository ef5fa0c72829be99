package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/confpulse/confpulse-backend/internal/categorize"
	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/repos"
	"github.com/confpulse/confpulse-backend/internal/types"
)

const (
	defaultPageLimit = 20
	popularTagCount  = 10
)

// SessionQuery is the parsed session listing request. Taxonomy fields hold a
// single requested value; category expansion happens here, not in the repo.
type SessionQuery struct {
	EventSource string
	Search      string
	HasOnDemand *bool

	Topic        string
	Tag          string
	SessionType  string
	Level        string
	AudienceType string
	Industry     string
	DeliveryType string

	// VoteFilter is "high", "low" or "none" (by net votes), or empty.
	VoteFilter string

	Page  int
	Limit int
}

// SessionView is a session plus its vote tally.
type SessionView struct {
	*types.Session
	VoteCounts types.VoteCounts `json:"voteCounts"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type SessionPage struct {
	Sessions   []SessionView `json:"sessions"`
	Pagination Pagination    `json:"pagination"`
}

// FacetEntry is one categorized facet value with its distinct session count.
type FacetEntry struct {
	ID           int    `json:"id"`
	LogicalValue string `json:"logicalValue"`
	DisplayValue string `json:"displayValue"`
	Count        int64  `json:"count"`
}

// RawFacet is an uncategorized taxonomy value.
type RawFacet struct {
	ID           int    `json:"id"`
	LogicalValue string `json:"logicalValue"`
	DisplayValue string `json:"displayValue"`
}

type FacetSet struct {
	Topics           []FacetEntry `json:"topics"`
	SessionTypes     []FacetEntry `json:"sessionTypes"`
	Levels           []FacetEntry `json:"levels"`
	PopularTags      []FacetEntry `json:"popularTags"`
	RemainingTags    []FacetEntry `json:"remainingTags"`
	AudienceTypes    []RawFacet   `json:"audienceTypes"`
	Industries       []RawFacet   `json:"industries"`
	DeliveryTypes    []RawFacet   `json:"deliveryTypes"`
	RecordedCount    int64        `json:"recordedCount"`
	NonRecordedCount int64        `json:"nonRecordedCount"`
	EventSources     []string     `json:"eventSources"`
}

// CatalogService answers the session listing and facet queries.
type CatalogService struct {
	sessions repos.SessionRepo
	taxonomy repos.TaxonomyRepo
	votes    repos.VoteRepo
	cache    FacetCache
	log      *logger.Logger
}

func NewCatalogService(
	sessions repos.SessionRepo,
	taxonomy repos.TaxonomyRepo,
	votes repos.VoteRepo,
	cache FacetCache,
	baseLog *logger.Logger,
) *CatalogService {
	return &CatalogService{
		sessions: sessions,
		taxonomy: taxonomy,
		votes:    votes,
		cache:    cache,
		log:      baseLog.With("service", "CatalogService"),
	}
}

// ListSessions runs the filtered, paginated session query. Sessions come back
// recorded-first, newest-first, each annotated with its vote tally.
func (s *CatalogService) ListSessions(ctx context.Context, query SessionQuery) (*SessionPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}

	filter, err := s.buildFilter(ctx, query)
	if err != nil {
		return nil, err
	}

	if query.VoteFilter != "" {
		return s.listByVoteSign(ctx, filter, query.VoteFilter, page, limit)
	}

	total, err := s.sessions.Count(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.Find(ctx, nil, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	tallies, err := s.votes.TalliesForSessions(ctx, nil, ids)
	if err != nil {
		return nil, err
	}

	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, SessionView{Session: session, VoteCounts: tallies[session.ID]})
	}
	return &SessionPage{
		Sessions:   views,
		Pagination: paginate(page, limit, total),
	}, nil
}

// listByVoteSign filters by net-vote sign in memory over the full filtered
// set. Vote tallies are not a session column, so this stays out of SQL; the
// catalog is small enough that the full scan is acceptable.
func (s *CatalogService) listByVoteSign(ctx context.Context, filter repos.SessionFilter, voteFilter string, page, limit int) (*SessionPage, error) {
	sessions, err := s.sessions.Find(ctx, nil, filter, 0, -1)
	if err != nil {
		return nil, err
	}
	tallies, err := s.votes.TalliesForAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	matched := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		counts := tallies[session.ID]
		keep := false
		switch voteFilter {
		case "high":
			keep = counts.NetVotes > 0
		case "low":
			keep = counts.NetVotes < 0
		case "none":
			keep = counts.NetVotes == 0
		}
		if keep {
			matched = append(matched, SessionView{Session: session, VoteCounts: counts})
		}
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return &SessionPage{
		Sessions:   matched[start:end],
		Pagination: paginate(page, limit, total),
	}, nil
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// buildFilter expands requested topic/sessionType/level categories into the
// raw stored values that categorize into them. A value no category matches is
// passed through as a literal raw value.
func (s *CatalogService) buildFilter(ctx context.Context, query SessionQuery) (repos.SessionFilter, error) {
	filter := repos.SessionFilter{
		EventSource:       query.EventSource,
		Search:            query.Search,
		HasOnDemand:       query.HasOnDemand,
		TagValue:          query.Tag,
		AudienceTypeValue: query.AudienceType,
		IndustryValue:     query.Industry,
		DeliveryTypeValue: query.DeliveryType,
	}

	if query.Topic != "" {
		values, err := s.expandTopic(ctx, query.Topic)
		if err != nil {
			return filter, err
		}
		filter.TopicValues = values
	}
	if query.SessionType != "" {
		values, err := s.expandSessionType(ctx, query.EventSource, query.SessionType)
		if err != nil {
			return filter, err
		}
		filter.SessionTypeValues = values
	}
	if query.Level != "" {
		values, err := s.expandLevel(ctx, query.Level)
		if err != nil {
			return filter, err
		}
		filter.LevelValues = values
	}
	return filter, nil
}

func (s *CatalogService) expandTopic(ctx context.Context, category string) ([]string, error) {
	topics, err := s.taxonomy.ListTopics(ctx, nil)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, topic := range topics {
		if categorize.Topic(topic.LogicalValue, topic.DisplayValue).LogicalValue == category {
			values = append(values, topic.LogicalValue)
		}
	}
	if len(values) == 0 {
		return []string{category}, nil
	}
	return values, nil
}

func (s *CatalogService) expandSessionType(ctx context.Context, eventSource, category string) ([]string, error) {
	groups, err := s.sessions.DistinctSessionTypes(ctx, nil, eventSource)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, group := range groups {
		if categorize.SessionType(group.Logical, group.Display).LogicalValue == category {
			values = append(values, group.Logical)
		}
	}
	if len(values) == 0 {
		return []string{category}, nil
	}
	return values, nil
}

func (s *CatalogService) expandLevel(ctx context.Context, category string) ([]string, error) {
	levels, err := s.taxonomy.ListLevels(ctx, nil)
	if err != nil {
		return nil, err
	}
	var values []string
	for _, level := range levels {
		if categorize.Level(level.LogicalValue, level.DisplayValue).LogicalValue == category {
			values = append(values, level.LogicalValue)
		}
	}
	if len(values) == 0 {
		return []string{category}, nil
	}
	return values, nil
}

// Facets builds the full facet document for the event source (empty means all
// sources). The per-dimension loads fan out concurrently.
func (s *CatalogService) Facets(ctx context.Context, eventSource string) (*FacetSet, error) {
	cacheKey := eventSource
	if cacheKey == "" {
		cacheKey = "all"
	}
	var cached FacetSet
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	result := &FacetSet{EventSources: []string{EventSourceIgnite, EventSourceReinvent}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		entries, err := s.topicFacets(gctx, eventSource)
		result.Topics = entries
		return err
	})
	g.Go(func() error {
		entries, err := s.sessionTypeFacets(gctx, eventSource)
		result.SessionTypes = entries
		return err
	})
	g.Go(func() error {
		entries, err := s.levelFacets(gctx, eventSource)
		result.Levels = entries
		return err
	})
	g.Go(func() error {
		popular, remaining, err := s.tagFacets(gctx, eventSource)
		result.PopularTags = popular
		result.RemainingTags = remaining
		return err
	})
	g.Go(func() error {
		rows, err := s.taxonomy.ListAudienceTypes(gctx, nil)
		if err != nil {
			return err
		}
		for _, row := range rows {
			result.AudienceTypes = append(result.AudienceTypes, rawFacet(row.LogicalValue, row.DisplayValue))
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.taxonomy.ListIndustries(gctx, nil)
		if err != nil {
			return err
		}
		for _, row := range rows {
			result.Industries = append(result.Industries, rawFacet(row.LogicalValue, row.DisplayValue))
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.taxonomy.ListDeliveryTypes(gctx, nil)
		if err != nil {
			return err
		}
		for _, row := range rows {
			result.DeliveryTypes = append(result.DeliveryTypes, rawFacet(row.LogicalValue, row.DisplayValue))
		}
		return nil
	})
	g.Go(func() error {
		recorded := true
		count, err := s.sessions.Count(gctx, nil, repos.SessionFilter{EventSource: eventSource, HasOnDemand: &recorded})
		result.RecordedCount = count
		return err
	})
	g.Go(func() error {
		recorded := false
		count, err := s.sessions.Count(gctx, nil, repos.SessionFilter{EventSource: eventSource, HasOnDemand: &recorded})
		result.NonRecordedCount = count
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, result)
	return result, nil
}

func rawFacet(logical, display string) RawFacet {
	return RawFacet{ID: categorize.FacetID(logical), LogicalValue: logical, DisplayValue: display}
}

func facetEntry(category categorize.Category, count int64) FacetEntry {
	return FacetEntry{
		ID:           categorize.FacetID(category.LogicalValue),
		LogicalValue: category.LogicalValue,
		DisplayValue: category.DisplayValue,
		Count:        count,
	}
}

// topicFacets counts sessions per topic category. Raw topics are grouped by
// the category they fold into, then each category gets one distinct-session
// count. Empty categories are dropped.
func (s *CatalogService) topicFacets(ctx context.Context, eventSource string) ([]FacetEntry, error) {
	topics, err := s.taxonomy.ListTopics(ctx, nil)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]string)
	for _, topic := range topics {
		category := categorize.Topic(topic.LogicalValue, topic.DisplayValue)
		byCategory[category.LogicalValue] = append(byCategory[category.LogicalValue], topic.LogicalValue)
	}

	var entries []FacetEntry
	for _, category := range categorize.AllTopicCategories() {
		values := byCategory[category.LogicalValue]
		if len(values) == 0 {
			continue
		}
		count, err := s.sessions.Count(ctx, nil, repos.SessionFilter{EventSource: eventSource, TopicValues: values})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}
		entries = append(entries, facetEntry(category, count))
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	return entries, nil
}

func (s *CatalogService) sessionTypeFacets(ctx context.Context, eventSource string) ([]FacetEntry, error) {
	groups, err := s.sessions.DistinctSessionTypes(ctx, nil, eventSource)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, group := range groups {
		category := categorize.SessionType(group.Logical, group.Display)
		counts[category.LogicalValue] += group.Count
	}

	var entries []FacetEntry
	for _, category := range categorize.AllSessionTypeCategories() {
		count := counts[category.LogicalValue]
		if count == 0 {
			continue
		}
		entries = append(entries, facetEntry(category, count))
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Count > entries[j].Count })
	return entries, nil
}

// levelFacets folds raw level rows into categories and orders the result by
// the numeric suffix of the category value, so beginner-100 sorts before
// advanced-300 regardless of counts.
func (s *CatalogService) levelFacets(ctx context.Context, eventSource string) ([]FacetEntry, error) {
	levels, err := s.taxonomy.ListLevels(ctx, nil)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]string)
	displays := make(map[string]string)
	for _, level := range levels {
		category := categorize.Level(level.LogicalValue, level.DisplayValue)
		byCategory[category.LogicalValue] = append(byCategory[category.LogicalValue], level.LogicalValue)
		displays[category.LogicalValue] = category.DisplayValue
	}

	var entries []FacetEntry
	for logical, values := range byCategory {
		count, err := s.sessions.Count(ctx, nil, repos.SessionFilter{EventSource: eventSource, LevelValues: values})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}
		entries = append(entries, facetEntry(categorize.Category{LogicalValue: logical, DisplayValue: displays[logical]}, count))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return levelSuffix(entries[i].LogicalValue) < levelSuffix(entries[j].LogicalValue)
	})
	return entries, nil
}

func levelSuffix(logical string) int {
	idx := strings.LastIndex(logical, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(logical[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// tagFacets splits tags by usage into a popular head and the remaining tail.
// The usage join already excludes tags with no linked sessions.
func (s *CatalogService) tagFacets(ctx context.Context, eventSource string) (popular, remaining []FacetEntry, err error) {
	usage, err := s.taxonomy.TagUsage(ctx, nil, eventSource)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(usage, func(i, j int) bool { return usage[i].Count > usage[j].Count })

	entries := make([]FacetEntry, 0, len(usage))
	for _, tag := range usage {
		if tag.Count == 0 {
			continue
		}
		entries = append(entries, FacetEntry{
			ID:           categorize.FacetID(tag.LogicalValue),
			LogicalValue: tag.LogicalValue,
			DisplayValue: tag.DisplayValue,
			Count:        tag.Count,
		})
	}
	if len(entries) <= popularTagCount {
		return entries, nil, nil
	}
	return entries[:popularTagCount], entries[popularTagCount:], nil
}
