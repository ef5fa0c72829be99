package services

import (
	"context"
	"fmt"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/repos"
)

// CleanupSummary reports what the company sweep removed.
type CleanupSummary struct {
	Message          string `json:"message"`
	DeletedCompanies int    `json:"deletedCompanies"`
	UpdatedSpeakers  int    `json:"updatedSpeakers"`
}

// CleanupService removes company rows that are really vendor identifiers.
// Earlier ingestion code stored whatever followed " - " in a speaker name, so
// old databases carry UUID and numeric "companies".
type CleanupService struct {
	speakers repos.SpeakerRepo
	log      *logger.Logger
}

func NewCleanupService(speakers repos.SpeakerRepo, baseLog *logger.Logger) *CleanupService {
	return &CleanupService{
		speakers: speakers,
		log:      baseLog.With("service", "CleanupService"),
	}
}

// CleanupCompanies deletes garbage company rows (with their speaker links) and
// clears the matching free-text company column on speakers.
func (s *CleanupService) CleanupCompanies(ctx context.Context) (*CleanupSummary, error) {
	companies, err := s.speakers.ListCompanies(ctx, nil)
	if err != nil {
		return nil, err
	}

	deleted := 0
	for _, company := range companies {
		if !looksLikeUUID(company.Name) && !looksLikeBareID(company.Name) {
			continue
		}
		if err := s.speakers.DeleteCompanyWithLinks(ctx, nil, company.ID); err != nil {
			return nil, err
		}
		deleted++
	}

	speakers, err := s.speakers.ListSpeakersWithCompany(ctx, nil)
	if err != nil {
		return nil, err
	}

	updated := 0
	for _, speaker := range speakers {
		if speaker.Company == nil {
			continue
		}
		if !looksLikeUUID(*speaker.Company) && !looksLikeBareID(*speaker.Company) {
			continue
		}
		if err := s.speakers.ClearSpeakerCompany(ctx, nil, speaker.ID); err != nil {
			return nil, err
		}
		updated++
	}

	s.log.Info("Company cleanup complete", "deleted", deleted, "updatedSpeakers", updated)
	return &CleanupSummary{
		Message:          fmt.Sprintf("Removed %d invalid companies and cleared %d speakers", deleted, updated),
		DeletedCompanies: deleted,
		UpdatedSpeakers:  updated,
	}, nil
}
