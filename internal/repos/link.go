package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/types"
)

// SessionLinkRepo creates join rows between a session and its related
// entities. Links are write-once: the composite key conflict does nothing, so
// ingestion re-runs leave the join tables untouched.
type SessionLinkRepo interface {
	LinkTopic(ctx context.Context, tx *gorm.DB, sessionID, topicID uint) error
	LinkTag(ctx context.Context, tx *gorm.DB, sessionID, tagID uint) error
	LinkLevel(ctx context.Context, tx *gorm.DB, sessionID, levelID uint) error
	LinkAudienceType(ctx context.Context, tx *gorm.DB, sessionID, audienceTypeID uint) error
	LinkIndustry(ctx context.Context, tx *gorm.DB, sessionID, industryID uint) error
	LinkDeliveryType(ctx context.Context, tx *gorm.DB, sessionID, deliveryTypeID uint) error
	LinkViewingOption(ctx context.Context, tx *gorm.DB, sessionID, viewingOptionID uint) error
	LinkSpeaker(ctx context.Context, tx *gorm.DB, sessionID, speakerID uint) error
}

type sessionLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionLinkRepo(db *gorm.DB, baseLog *logger.Logger) SessionLinkRepo {
	return &sessionLinkRepo{db: db, log: baseLog.With("repo", "SessionLinkRepo")}
}

func (lr *sessionLinkRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return lr.db
}

func linkOnce(ctx context.Context, tx *gorm.DB, row any, keyColumns ...string) error {
	columns := make([]clause.Column, 0, len(keyColumns))
	for _, name := range keyColumns {
		columns = append(columns, clause.Column{Name: name})
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   columns,
		DoNothing: true,
	}).Create(row).Error
}

func (lr *sessionLinkRepo) LinkTopic(ctx context.Context, tx *gorm.DB, sessionID, topicID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionTopic{SessionID: sessionID, TopicID: topicID}, "session_id", "topic_id")
}

func (lr *sessionLinkRepo) LinkTag(ctx context.Context, tx *gorm.DB, sessionID, tagID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionTag{SessionID: sessionID, TagID: tagID}, "session_id", "tag_id")
}

func (lr *sessionLinkRepo) LinkLevel(ctx context.Context, tx *gorm.DB, sessionID, levelID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionLevel{SessionID: sessionID, LevelID: levelID}, "session_id", "level_id")
}

func (lr *sessionLinkRepo) LinkAudienceType(ctx context.Context, tx *gorm.DB, sessionID, audienceTypeID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionAudienceType{SessionID: sessionID, AudienceTypeID: audienceTypeID}, "session_id", "audience_type_id")
}

func (lr *sessionLinkRepo) LinkIndustry(ctx context.Context, tx *gorm.DB, sessionID, industryID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionIndustry{SessionID: sessionID, IndustryID: industryID}, "session_id", "industry_id")
}

func (lr *sessionLinkRepo) LinkDeliveryType(ctx context.Context, tx *gorm.DB, sessionID, deliveryTypeID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionDeliveryType{SessionID: sessionID, DeliveryTypeID: deliveryTypeID}, "session_id", "delivery_type_id")
}

func (lr *sessionLinkRepo) LinkViewingOption(ctx context.Context, tx *gorm.DB, sessionID, viewingOptionID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionViewingOption{SessionID: sessionID, ViewingOptionID: viewingOptionID}, "session_id", "viewing_option_id")
}

func (lr *sessionLinkRepo) LinkSpeaker(ctx context.Context, tx *gorm.DB, sessionID, speakerID uint) error {
	return linkOnce(ctx, lr.resolve(tx), &types.SessionSpeaker{SessionID: sessionID, SpeakerID: speakerID}, "session_id", "speaker_id")
}
