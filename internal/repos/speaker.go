package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/types"
)

type SpeakerRepo interface {
	UpsertSpeaker(ctx context.Context, tx *gorm.DB, externalID, name string, company *string) (*types.Speaker, error)
	UpsertCompany(ctx context.Context, tx *gorm.DB, name string) (*types.Company, error)
	LinkSpeakerCompany(ctx context.Context, tx *gorm.DB, speakerID, companyID uint) error

	ListCompanies(ctx context.Context, tx *gorm.DB) ([]*types.Company, error)
	DeleteCompanyWithLinks(ctx context.Context, tx *gorm.DB, companyID uint) error
	ListSpeakersWithCompany(ctx context.Context, tx *gorm.DB) ([]*types.Speaker, error)
	ClearSpeakerCompany(ctx context.Context, tx *gorm.DB, speakerID uint) error
}

type speakerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSpeakerRepo(db *gorm.DB, baseLog *logger.Logger) SpeakerRepo {
	return &speakerRepo{db: db, log: baseLog.With("repo", "SpeakerRepo")}
}

func (sr *speakerRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *speakerRepo) UpsertSpeaker(ctx context.Context, tx *gorm.DB, externalID, name string, company *string) (*types.Speaker, error) {
	transaction := sr.resolve(tx)

	speaker := &types.Speaker{SpeakerID: externalID, Name: name, Company: company}
	err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "speaker_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "company", "updated_at"}),
	}).Omit(clause.Associations).Create(speaker).Error
	if err != nil {
		return nil, err
	}
	if speaker.ID == 0 {
		if err := transaction.WithContext(ctx).Where("speaker_id = ?", externalID).First(speaker).Error; err != nil {
			return nil, err
		}
	}
	return speaker, nil
}

func (sr *speakerRepo) UpsertCompany(ctx context.Context, tx *gorm.DB, name string) (*types.Company, error) {
	transaction := sr.resolve(tx)

	company := &types.Company{Name: name}
	err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		if err := transaction.WithContext(ctx).Where("name = ?", name).First(company).Error; err != nil {
			return nil, err
		}
	}
	return company, nil
}

func (sr *speakerRepo) LinkSpeakerCompany(ctx context.Context, tx *gorm.DB, speakerID, companyID uint) error {
	return linkOnce(ctx, sr.resolve(tx), &types.SpeakerCompany{SpeakerID: speakerID, CompanyID: companyID}, "speaker_id", "company_id")
}

func (sr *speakerRepo) ListCompanies(ctx context.Context, tx *gorm.DB) ([]*types.Company, error) {
	var results []*types.Company
	err := sr.resolve(tx).WithContext(ctx).Find(&results).Error
	return results, err
}

func (sr *speakerRepo) DeleteCompanyWithLinks(ctx context.Context, tx *gorm.DB, companyID uint) error {
	transaction := sr.resolve(tx)

	if err := transaction.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&types.SpeakerCompany{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).Delete(&types.Company{}, companyID).Error
}

func (sr *speakerRepo) ListSpeakersWithCompany(ctx context.Context, tx *gorm.DB) ([]*types.Speaker, error) {
	var results []*types.Speaker
	err := sr.resolve(tx).WithContext(ctx).
		Where("company IS NOT NULL").
		Find(&results).Error
	return results, err
}

func (sr *speakerRepo) ClearSpeakerCompany(ctx context.Context, tx *gorm.DB, speakerID uint) error {
	return sr.resolve(tx).WithContext(ctx).
		Model(&types.Speaker{}).
		Where("id = ?", speakerID).
		Update("company", nil).Error
}
