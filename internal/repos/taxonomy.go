package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/types"
)

// TagUsage is a tag with its distinct-session usage count, optionally scoped
// to one event source.
type TagUsage struct {
	ID           uint
	LogicalValue string
	DisplayValue string
	Count        int64
}

// TaxonomyRepo upserts and lists the seven taxonomy entities. Every upsert is
// keyed by logical_value with the display value overwritten on conflict, so
// re-running ingestion never grows these tables.
type TaxonomyRepo interface {
	UpsertTopic(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Topic, error)
	UpsertTag(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Tag, error)
	UpsertLevel(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Level, error)
	UpsertAudienceType(ctx context.Context, tx *gorm.DB, logical, display string) (*types.AudienceType, error)
	UpsertIndustry(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Industry, error)
	UpsertDeliveryType(ctx context.Context, tx *gorm.DB, logical, display string) (*types.DeliveryType, error)
	UpsertViewingOption(ctx context.Context, tx *gorm.DB, logical, display string) (*types.ViewingOption, error)

	ListTopics(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error)
	ListTags(ctx context.Context, tx *gorm.DB) ([]*types.Tag, error)
	ListLevels(ctx context.Context, tx *gorm.DB) ([]*types.Level, error)
	ListAudienceTypes(ctx context.Context, tx *gorm.DB) ([]*types.AudienceType, error)
	ListIndustries(ctx context.Context, tx *gorm.DB) ([]*types.Industry, error)
	ListDeliveryTypes(ctx context.Context, tx *gorm.DB) ([]*types.DeliveryType, error)

	TagUsage(ctx context.Context, tx *gorm.DB, eventSource string) ([]TagUsage, error)
}

type taxonomyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaxonomyRepo(db *gorm.DB, baseLog *logger.Logger) TaxonomyRepo {
	return &taxonomyRepo{db: db, log: baseLog.With("repo", "TaxonomyRepo")}
}

func (tr *taxonomyRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

// upsertOnLogical is the shared conflict clause. The entity's ID is not
// reliably backfilled on conflict across drivers, so callers re-read when it
// comes back zero.
func upsertOnLogical(ctx context.Context, tx *gorm.DB, entity any) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "logical_value"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_value", "updated_at"}),
	}).Create(entity).Error
}

func (tr *taxonomyRepo) UpsertTopic(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Topic, error) {
	transaction := tr.resolve(tx)
	entity := &types.Topic{LogicalValue: logical, DisplayValue: display}
	if err := upsertOnLogical(ctx, transaction, entity); err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		if err := transaction.WithContext(ctx).Where("logical_value = ?", logical).First(entity).Error; err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (tr *taxonomyRepo) UpsertTag(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Tag, error) {
	transaction := tr.resolve(tx)
	entity := &types.Tag{LogicalValue: logical, DisplayValue: display}
	if err := upsertOnLogical(ctx, transaction, entity); err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		if err := transaction.WithContext(ctx).Where("logical_value = ?", logical).First(entity).Error; err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (tr *taxonomyRepo) UpsertLevel(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Level, error) {
	transaction := tr.resolve(tx)
	entity := &types.Level{LogicalValue: logical, DisplayValue: display}
	if err := upsertOnLogical(ctx, transaction, entity); err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		if err := transaction.WithContext(ctx).Where("logical_value = ?", logical).First(entity).Error; err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (tr *taxonomyRepo) UpsertAudienceType(ctx context.Context, tx *gorm.DB, logical, display string) (*types.AudienceType, error) {
	transaction := tr.resolve(tx)
	entity := &types.AudienceType{LogicalValue: logical, DisplayValue: display}
	if err := upsertOnLogical(ctx, transaction, entity); err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		if err := transaction.WithContext(ctx).Where("logical_value = ?", logical).First(entity).Error; err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (tr *taxonomyRepo) UpsertIndustry(ctx context.Context, tx *gorm.DB, logical, display string) (*types.Industry, error) {
	transaction := tr.resolve(tx)
	entity := &types.Industry{LogicalValue: logical, DisplayValue: display}
	if err := upsertOnLogical(ctx, transaction, entity); err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		if err := transaction.WithContext(ctx).Where("logical_value = ?", logical).First(entity).Error; err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (tr *taxonomyRepo) UpsertDeliveryType(ctx context.Context, tx *gorm.DB, logical, display string) (*types.DeliveryType, error) {
	transaction := tr.resolve(tx)
	entity := &types.DeliveryType{LogicalValue: logical, DisplayValue: display}
	if err := upsertOnLogical(ctx, transaction, entity); err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		if err := transaction.WithContext(ctx).Where("logical_value = ?", logical).First(entity).Error; err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (tr *taxonomyRepo) UpsertViewingOption(ctx context.Context, tx *gorm.DB, logical, display string) (*types.ViewingOption, error) {
	transaction := tr.resolve(tx)
	entity := &types.ViewingOption{LogicalValue: logical, DisplayValue: display}
	if err := upsertOnLogical(ctx, transaction, entity); err != nil {
		return nil, err
	}
	if entity.ID == 0 {
		if err := transaction.WithContext(ctx).Where("logical_value = ?", logical).First(entity).Error; err != nil {
			return nil, err
		}
	}
	return entity, nil
}

func (tr *taxonomyRepo) ListTopics(ctx context.Context, tx *gorm.DB) ([]*types.Topic, error) {
	var results []*types.Topic
	err := tr.resolve(tx).WithContext(ctx).Order("display_value ASC").Find(&results).Error
	return results, err
}

func (tr *taxonomyRepo) ListTags(ctx context.Context, tx *gorm.DB) ([]*types.Tag, error) {
	var results []*types.Tag
	err := tr.resolve(tx).WithContext(ctx).Order("display_value ASC").Find(&results).Error
	return results, err
}

func (tr *taxonomyRepo) ListLevels(ctx context.Context, tx *gorm.DB) ([]*types.Level, error) {
	var results []*types.Level
	err := tr.resolve(tx).WithContext(ctx).Order("display_value ASC").Find(&results).Error
	return results, err
}

func (tr *taxonomyRepo) ListAudienceTypes(ctx context.Context, tx *gorm.DB) ([]*types.AudienceType, error) {
	var results []*types.AudienceType
	err := tr.resolve(tx).WithContext(ctx).Order("display_value ASC").Find(&results).Error
	return results, err
}

func (tr *taxonomyRepo) ListIndustries(ctx context.Context, tx *gorm.DB) ([]*types.Industry, error) {
	var results []*types.Industry
	err := tr.resolve(tx).WithContext(ctx).Order("display_value ASC").Find(&results).Error
	return results, err
}

func (tr *taxonomyRepo) ListDeliveryTypes(ctx context.Context, tx *gorm.DB) ([]*types.DeliveryType, error) {
	var results []*types.DeliveryType
	err := tr.resolve(tx).WithContext(ctx).Order("display_value ASC").Find(&results).Error
	return results, err
}

func (tr *taxonomyRepo) TagUsage(ctx context.Context, tx *gorm.DB, eventSource string) ([]TagUsage, error) {
	query := tr.resolve(tx).WithContext(ctx).
		Table("tag").
		Select("tag.id AS id, tag.logical_value AS logical_value, tag.display_value AS display_value, COUNT(DISTINCT session_tag.session_id) AS count").
		Joins("JOIN session_tag ON session_tag.tag_id = tag.id").
		Group("tag.id").
		Group("tag.logical_value").
		Group("tag.display_value")
	if eventSource != "" {
		query = query.
			Joins("JOIN session ON session.id = session_tag.session_id").
			Where("session.event_source = ?", eventSource)
	}

	var usage []TagUsage
	if err := query.Scan(&usage).Error; err != nil {
		return nil, err
	}
	return usage, nil
}
