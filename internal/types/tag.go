package types

import "time"

type Tag struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogicalValue string    `gorm:"not null;uniqueIndex" json:"logicalValue"`
	DisplayValue string    `gorm:"not null" json:"displayValue"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (Tag) TableName() string { return "tag" }

type SessionTag struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID uint      `gorm:"not null;index:idx_session_tag,unique,priority:1" json:"-"`
	TagID     uint      `gorm:"not null;index:idx_session_tag,unique,priority:2" json:"-"`
	Tag       Tag       `gorm:"constraint:OnDelete:CASCADE;foreignKey:TagID;references:ID" json:"tag"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

func (SessionTag) TableName() string { return "session_tag" }
