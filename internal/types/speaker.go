package types

import "time"

// Speaker is keyed by the external speaker identifier from either source.
// Company is the free-text company string parsed off the speaker name; the
// Company entity (and SpeakerCompany links) hold the deduplicated form.
type Speaker struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SpeakerID string  `gorm:"column:speaker_id;not null;uniqueIndex" json:"speakerId"`
	Name      string  `gorm:"not null" json:"name"`
	Company   *string `json:"company"`

	SpeakerCompanies []SpeakerCompany `gorm:"foreignKey:SpeakerID;references:ID" json:"speakerCompanies"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Speaker) TableName() string { return "speaker" }

type SessionSpeaker struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID uint      `gorm:"not null;index:idx_session_speaker,unique,priority:1" json:"-"`
	SpeakerID uint      `gorm:"not null;index:idx_session_speaker,unique,priority:2" json:"-"`
	Speaker   Speaker   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SpeakerID;references:ID" json:"speaker"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

func (SessionSpeaker) TableName() string { return "session_speaker" }
