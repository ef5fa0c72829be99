package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/types"
	"github.com/confpulse/confpulse-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "confpulse", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(AllModels()...); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AllModels lists every persisted model; the sqlite-backed test harness uses
// the same list so both schemas stay in sync.
func AllModels() []any {
	return []any{
		&types.Session{},
		&types.Topic{},
		&types.SessionTopic{},
		&types.Tag{},
		&types.SessionTag{},
		&types.Level{},
		&types.SessionLevel{},
		&types.AudienceType{},
		&types.SessionAudienceType{},
		&types.Industry{},
		&types.SessionIndustry{},
		&types.DeliveryType{},
		&types.SessionDeliveryType{},
		&types.ViewingOption{},
		&types.SessionViewingOption{},
		&types.Speaker{},
		&types.SessionSpeaker{},
		&types.Company{},
		&types.SpeakerCompany{},
		&types.Vote{},
		&types.IngestionRun{},
	}
}
