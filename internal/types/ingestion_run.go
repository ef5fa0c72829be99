package types

import (
	"time"

	"gorm.io/datatypes"
)

// IngestionRun is an audit row written once per pipeline invocation.
type IngestionRun struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Source     string         `gorm:"not null;index" json:"source"`
	Total      int            `gorm:"not null" json:"total"`
	Created    int            `gorm:"not null" json:"created"`
	Updated    int            `gorm:"not null" json:"updated"`
	Skipped    int            `gorm:"not null" json:"skipped"`
	Detail     datatypes.JSON `gorm:"type:jsonb" json:"detail"`
	StartedAt  time.Time      `gorm:"not null" json:"startedAt"`
	FinishedAt time.Time      `gorm:"not null" json:"finishedAt"`
}

func (IngestionRun) TableName() string { return "ingestion_run" }
