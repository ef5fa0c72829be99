package repos

import (
	"strings"

	"gorm.io/gorm"
)

// SessionFilter is the closed filter set for session queries. The
// HTTP layer fills it in, the catalog service expands category values into raw
// value sets, and Apply compiles it into one AND-of-ORs predicate. Vote-sign
// filtering is intentionally absent: tallies are not stored per session, so
// that filter runs in memory after the fetch.
type SessionFilter struct {
	EventSource string
	Search      string
	HasOnDemand *bool

	// Raw taxonomy logical values, post category expansion. A single literal
	// value is a one-element slice.
	TopicValues       []string
	SessionTypeValues []string
	LevelValues       []string

	TagValue          string
	AudienceTypeValue string
	IndustryValue     string
	DeliveryTypeValue string
}

// escapeLike makes search text a literal LIKE pattern fragment. Every LIKE in
// Apply carries ESCAPE '\' so the escaping holds on both postgres and sqlite.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Apply attaches the compiled predicate to db. Subqueries are built on fresh
// sessions so they do not inherit the outer conditions.
func (f SessionFilter) Apply(db *gorm.DB) *gorm.DB {
	fresh := func() *gorm.DB {
		return db.Session(&gorm.Session{NewDB: true})
	}

	if f.EventSource != "" {
		db = db.Where("session.event_source = ?", f.EventSource)
	}

	if f.Search != "" {
		like := "%" + escapeLike(f.Search) + "%"

		speakerSub := fresh().Table("session_speaker").
			Select("session_speaker.session_id").
			Joins("JOIN speaker ON speaker.id = session_speaker.speaker_id").
			Joins("LEFT JOIN speaker_company ON speaker_company.speaker_id = speaker.id").
			Joins("LEFT JOIN company ON company.id = speaker_company.company_id").
			Where("speaker.name LIKE ? ESCAPE '\\' OR speaker.company LIKE ? ESCAPE '\\' OR company.name LIKE ? ESCAPE '\\'", like, like, like)

		tagSub := fresh().Table("session_tag").
			Select("session_tag.session_id").
			Joins("JOIN tag ON tag.id = session_tag.tag_id").
			Where("tag.display_value LIKE ? ESCAPE '\\' OR tag.logical_value LIKE ? ESCAPE '\\'", like, like)

		topicSub := fresh().Table("session_topic").
			Select("session_topic.session_id").
			Joins("JOIN topic ON topic.id = session_topic.topic_id").
			Where("topic.display_value LIKE ? ESCAPE '\\' OR topic.logical_value LIKE ? ESCAPE '\\'", like, like)

		db = db.Where(
			"session.title LIKE ? ESCAPE '\\' OR session.description LIKE ? ESCAPE '\\' OR session.ai_description LIKE ? ESCAPE '\\' OR session.id IN (?) OR session.id IN (?) OR session.id IN (?)",
			like, like, like, speakerSub, tagSub, topicSub,
		)
	}

	if f.HasOnDemand != nil {
		db = db.Where("session.has_on_demand = ?", *f.HasOnDemand)
	}

	if len(f.TopicValues) > 0 {
		sub := fresh().Table("session_topic").
			Select("session_topic.session_id").
			Joins("JOIN topic ON topic.id = session_topic.topic_id").
			Where("topic.logical_value IN ?", f.TopicValues)
		db = db.Where("session.id IN (?)", sub)
	}

	if len(f.SessionTypeValues) > 0 {
		db = db.Where("session.session_type_logical IN ?", f.SessionTypeValues)
	}

	if len(f.LevelValues) > 0 {
		sub := fresh().Table("session_level").
			Select("session_level.session_id").
			Joins("JOIN level ON level.id = session_level.level_id").
			Where("level.logical_value IN ?", f.LevelValues)
		db = db.Where("session.id IN (?)", sub)
	}

	if f.TagValue != "" {
		sub := fresh().Table("session_tag").
			Select("session_tag.session_id").
			Joins("JOIN tag ON tag.id = session_tag.tag_id").
			Where("tag.logical_value = ?", f.TagValue)
		db = db.Where("session.id IN (?)", sub)
	}

	if f.AudienceTypeValue != "" {
		sub := fresh().Table("session_audience_type").
			Select("session_audience_type.session_id").
			Joins("JOIN audience_type ON audience_type.id = session_audience_type.audience_type_id").
			Where("audience_type.logical_value = ?", f.AudienceTypeValue)
		db = db.Where("session.id IN (?)", sub)
	}

	if f.IndustryValue != "" {
		sub := fresh().Table("session_industry").
			Select("session_industry.session_id").
			Joins("JOIN industry ON industry.id = session_industry.industry_id").
			Where("industry.logical_value = ?", f.IndustryValue)
		db = db.Where("session.id IN (?)", sub)
	}

	if f.DeliveryTypeValue != "" {
		sub := fresh().Table("session_delivery_type").
			Select("session_delivery_type.session_id").
			Joins("JOIN delivery_type ON delivery_type.id = session_delivery_type.delivery_type_id").
			Where("delivery_type.logical_value = ?", f.DeliveryTypeValue)
		db = db.Where("session.id IN (?)", sub)
	}

	return db
}
