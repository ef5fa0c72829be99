package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/types"
)

type IngestionRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.IngestionRun) error
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.IngestionRun, error)
}

type ingestionRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestionRunRepo(db *gorm.DB, baseLog *logger.Logger) IngestionRunRepo {
	return &ingestionRunRepo{db: db, log: baseLog.With("repo", "IngestionRunRepo")}
}

func (ir *ingestionRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.IngestionRun) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).Create(run).Error
}

func (ir *ingestionRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.IngestionRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if limit <= 0 {
		limit = 20
	}
	var runs []*types.IngestionRun
	err := transaction.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
