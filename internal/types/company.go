package types

import "time"

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Company) TableName() string { return "company" }

type SpeakerCompany struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SpeakerID uint      `gorm:"not null;index:idx_speaker_company,unique,priority:1" json:"-"`
	CompanyID uint      `gorm:"not null;index:idx_speaker_company,unique,priority:2" json:"-"`
	Company   Company   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CompanyID;references:ID" json:"company"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

func (SpeakerCompany) TableName() string { return "speaker_company" }
