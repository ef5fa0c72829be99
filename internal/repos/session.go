package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/types"
)

// SessionTypeGroup is one distinct (logical, display) session type pair with
// its session count, used for both facet aggregation and category expansion.
type SessionTypeGroup struct {
	Logical string
	Display string
	Count   int64
}

type SessionRepo interface {
	// Upsert creates or fully overwrites the session keyed by
	// (eventSource, sessionId) and reports whether a row was created.
	Upsert(ctx context.Context, tx *gorm.DB, session *types.Session) (bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Session, error)
	GetBySourceKey(ctx context.Context, tx *gorm.DB, eventSource, sessionID string) (*types.Session, error)
	SetOnDemand(ctx context.Context, tx *gorm.DB, id uint, onDemandURL string) error
	Find(ctx context.Context, tx *gorm.DB, filter SessionFilter, offset, limit int) ([]*types.Session, error)
	Count(ctx context.Context, tx *gorm.DB, filter SessionFilter) (int64, error)
	DistinctSessionTypes(ctx context.Context, tx *gorm.DB, eventSource string) ([]SessionTypeGroup, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) Upsert(ctx context.Context, tx *gorm.DB, session *types.Session) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var existing types.Session
	err := transaction.WithContext(ctx).
		Where("event_source = ? AND session_id = ?", session.EventSource, session.SessionID).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}
		if err := transaction.WithContext(ctx).Omit(clause.Associations).Create(session).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	session.ID = existing.ID
	session.CreatedAt = existing.CreatedAt
	if err := transaction.WithContext(ctx).Omit(clause.Associations).Save(session).Error; err != nil {
		return false, err
	}
	return false, nil
}

func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Session
	err := transaction.WithContext(ctx).First(&result, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *sessionRepo) GetBySourceKey(ctx context.Context, tx *gorm.DB, eventSource, sessionID string) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Session
	err := transaction.WithContext(ctx).
		Where("event_source = ? AND session_id = ?", eventSource, sessionID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *sessionRepo) SetOnDemand(ctx context.Context, tx *gorm.DB, id uint, onDemandURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"on_demand_url": onDemandURL,
			"has_on_demand": true,
		}).Error
}

// Find returns filtered sessions with all taxonomy and speaker associations
// preloaded, recorded-first then newest-first. limit < 0 disables pagination
// (the vote-sign filter needs the full result set).
func (sr *sessionRepo) Find(ctx context.Context, tx *gorm.DB, filter SessionFilter, offset, limit int) ([]*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	query := filter.Apply(transaction.WithContext(ctx).Model(&types.Session{})).
		Preload("SessionTopics.Topic").
		Preload("SessionTags.Tag").
		Preload("SessionLevels.Level").
		Preload("SessionAudienceTypes.AudienceType").
		Preload("SessionIndustries.Industry").
		Preload("SessionDeliveryTypes.DeliveryType").
		Preload("SessionViewingOpts.ViewingOption").
		Preload("SessionSpeakers.Speaker.SpeakerCompanies.Company").
		Order("session.has_on_demand DESC").
		Order("session.start_date_time DESC")

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit >= 0 {
		query = query.Limit(limit)
	}

	var results []*types.Session
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) Count(ctx context.Context, tx *gorm.DB, filter SessionFilter) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	err := filter.Apply(transaction.WithContext(ctx).Model(&types.Session{})).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *sessionRepo) DistinctSessionTypes(ctx context.Context, tx *gorm.DB, eventSource string) ([]SessionTypeGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Session{}).
		Select("session_type_logical AS logical, session_type_display AS display, COUNT(*) AS count").
		Where("session_type_logical IS NOT NULL").
		Group("session_type_logical").
		Group("session_type_display")
	if eventSource != "" {
		query = query.Where("event_source = ?", eventSource)
	}

	var groups []SessionTypeGroup
	if err := query.Scan(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
