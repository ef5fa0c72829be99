package types

import "time"

type Level struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogicalValue string    `gorm:"not null;uniqueIndex" json:"logicalValue"`
	DisplayValue string    `gorm:"not null" json:"displayValue"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (Level) TableName() string { return "level" }

type SessionLevel struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID uint      `gorm:"not null;index:idx_session_level,unique,priority:1" json:"-"`
	LevelID   uint      `gorm:"not null;index:idx_session_level,unique,priority:2" json:"-"`
	Level     Level     `gorm:"constraint:OnDelete:CASCADE;foreignKey:LevelID;references:ID" json:"level"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

func (SessionLevel) TableName() string { return "session_level" }
