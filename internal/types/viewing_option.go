package types

import "time"

type ViewingOption struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogicalValue string    `gorm:"not null;uniqueIndex" json:"logicalValue"`
	DisplayValue string    `gorm:"not null" json:"displayValue"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (ViewingOption) TableName() string { return "viewing_option" }

type SessionViewingOption struct {
	ID              uint          `gorm:"primaryKey" json:"-"`
	SessionID       uint          `gorm:"not null;index:idx_session_viewing_option,unique,priority:1" json:"-"`
	ViewingOptionID uint          `gorm:"not null;index:idx_session_viewing_option,unique,priority:2" json:"-"`
	ViewingOption   ViewingOption `gorm:"constraint:OnDelete:CASCADE;foreignKey:ViewingOptionID;references:ID" json:"viewingOption"`
	CreatedAt       time.Time     `gorm:"not null" json:"-"`
}

func (SessionViewingOption) TableName() string { return "session_viewing_option" }
