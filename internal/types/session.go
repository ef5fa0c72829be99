package types

import (
	"time"
)

// Session is one conference session from either catalog source. A session is
// uniquely identified by (event_source, session_id); the numeric primary key is
// what the HTTP surface exposes (votes reference it).
type Session struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	EventSource string `gorm:"not null;index:idx_session_source_key,unique,priority:1" json:"eventSource"`
	SessionID   string `gorm:"not null;index:idx_session_source_key,unique,priority:2" json:"sessionId"`

	SessionInstanceID *string `json:"sessionInstanceId"`
	LocalizedID       *string `json:"localizedId"`
	SessionCode       *string `json:"sessionCode"`
	LangLocale        *string `json:"langLocale"`

	Title         string  `gorm:"not null" json:"title"`
	SortTitle     *string `json:"sortTitle"`
	Description   *string `json:"description"`
	AIDescription *string `gorm:"column:ai_description" json:"aiDescription"`

	Location          *string    `json:"location"`
	TimeSlot          *string    `json:"timeSlot"`
	StartDateTime     *time.Time `gorm:"index" json:"startDateTime"`
	EndDateTime       *time.Time `json:"endDateTime"`
	DurationInMinutes *int       `json:"durationInMinutes"`

	SessionTypeLogical *string `json:"sessionTypeLogical"`
	SessionTypeDisplay *string `json:"sessionTypeDisplay"`
	ReportingTopic     *string `json:"reportingTopic"`

	OnDemandURL      *string `gorm:"column:on_demand_url" json:"onDemandUrl"`
	DownloadVideoURL *string `gorm:"column:download_video_url" json:"downloadVideoUrl"`
	CaptionFileURL   *string `gorm:"column:caption_file_url" json:"captionFileUrl"`
	ThumbnailURL     *string `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	RegistrationLink *string `json:"registrationLink"`

	HasOnDemand bool `gorm:"not null;default:false;index" json:"hasOnDemand"`
	IsPopular   bool `gorm:"not null;default:false" json:"isPopular"`
	HeroSession bool `gorm:"not null;default:false" json:"heroSession"`

	SessionTopics        []SessionTopic        `gorm:"foreignKey:SessionID;references:ID" json:"sessionTopics"`
	SessionTags          []SessionTag          `gorm:"foreignKey:SessionID;references:ID" json:"sessionTags"`
	SessionLevels        []SessionLevel        `gorm:"foreignKey:SessionID;references:ID" json:"sessionLevels"`
	SessionAudienceTypes []SessionAudienceType `gorm:"foreignKey:SessionID;references:ID" json:"sessionAudienceTypes"`
	SessionIndustries    []SessionIndustry     `gorm:"foreignKey:SessionID;references:ID" json:"sessionIndustries"`
	SessionDeliveryTypes []SessionDeliveryType `gorm:"foreignKey:SessionID;references:ID" json:"sessionDeliveryTypes"`
	SessionViewingOpts   []SessionViewingOption `gorm:"foreignKey:SessionID;references:ID" json:"sessionViewingOpts"`
	SessionSpeakers      []SessionSpeaker      `gorm:"foreignKey:SessionID;references:ID" json:"sessionSpeakers"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Session) TableName() string { return "session" }
