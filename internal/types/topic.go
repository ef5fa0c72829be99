package types

import "time"

// Topic is a raw vendor taxonomy value. Facet grouping happens at query time
// through the categorize package, so only the raw pair is stored.
type Topic struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogicalValue string    `gorm:"not null;uniqueIndex" json:"logicalValue"`
	DisplayValue string    `gorm:"not null" json:"displayValue"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (Topic) TableName() string { return "topic" }

type SessionTopic struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID uint      `gorm:"not null;index:idx_session_topic,unique,priority:1" json:"-"`
	TopicID   uint      `gorm:"not null;index:idx_session_topic,unique,priority:2" json:"-"`
	Topic     Topic     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"topic"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

func (SessionTopic) TableName() string { return "session_topic" }
