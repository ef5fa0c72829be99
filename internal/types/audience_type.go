package types

import "time"

type AudienceType struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogicalValue string    `gorm:"not null;uniqueIndex" json:"logicalValue"`
	DisplayValue string    `gorm:"not null" json:"displayValue"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (AudienceType) TableName() string { return "audience_type" }

type SessionAudienceType struct {
	ID             uint         `gorm:"primaryKey" json:"-"`
	SessionID      uint         `gorm:"not null;index:idx_session_audience_type,unique,priority:1" json:"-"`
	AudienceTypeID uint         `gorm:"not null;index:idx_session_audience_type,unique,priority:2" json:"-"`
	AudienceType   AudienceType `gorm:"constraint:OnDelete:CASCADE;foreignKey:AudienceTypeID;references:ID" json:"audienceType"`
	CreatedAt      time.Time    `gorm:"not null" json:"-"`
}

func (SessionAudienceType) TableName() string { return "session_audience_type" }
