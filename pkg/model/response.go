package model

import "time"

// Response domain object defining a reply in the thread of an event
// swagger:model
type Response struct {
	ID               uint        `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	ResponseText     string      `gorm:"type:text;not null" json:"responseText"`
	ResponseImageURL *string     `json:"responseImageUrl"`
	ResponseFileURLs Attachments `gorm:"type:text;serializer:json" json:"responseFileUrls"`
	EventID          uint        `gorm:"not null;index" json:"eventId"`
	UserID           uint        `gorm:"not null;index" json:"userId"`
	User             *User       `gorm:"constraint:OnUpdate:CASCADE" json:"user,omitempty"`
}
