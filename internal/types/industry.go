package types

import "time"

type Industry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogicalValue string    `gorm:"not null;uniqueIndex" json:"logicalValue"`
	DisplayValue string    `gorm:"not null" json:"displayValue"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (Industry) TableName() string { return "industry" }

type SessionIndustry struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	SessionID  uint      `gorm:"not null;index:idx_session_industry,unique,priority:1" json:"-"`
	IndustryID uint      `gorm:"not null;index:idx_session_industry,unique,priority:2" json:"-"`
	Industry   Industry  `gorm:"constraint:OnDelete:CASCADE;foreignKey:IndustryID;references:ID" json:"industry"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
}

func (SessionIndustry) TableName() string { return "session_industry" }
