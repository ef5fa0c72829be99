package types

import "time"

type DeliveryType struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LogicalValue string    `gorm:"not null;uniqueIndex" json:"logicalValue"`
	DisplayValue string    `gorm:"not null" json:"displayValue"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (DeliveryType) TableName() string { return "delivery_type" }

type SessionDeliveryType struct {
	ID             uint         `gorm:"primaryKey" json:"-"`
	SessionID      uint         `gorm:"not null;index:idx_session_delivery_type,unique,priority:1" json:"-"`
	DeliveryTypeID uint         `gorm:"not null;index:idx_session_delivery_type,unique,priority:2" json:"-"`
	DeliveryType   DeliveryType `gorm:"constraint:OnDelete:CASCADE;foreignKey:DeliveryTypeID;references:ID" json:"deliveryType"`
	CreatedAt      time.Time    `gorm:"not null" json:"-"`
}

func (SessionDeliveryType) TableName() string { return "session_delivery_type" }
