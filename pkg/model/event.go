package model

import "time"

// Event domain object defining a delegation request routed from a user to a division and a
// recipient within that division
// swagger:model
type Event struct {
	ID                  uint        `gorm:"primarykey" json:"id"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
	FromUserID          uint        `gorm:"not null;index" json:"fromUserId"`
	FromUser            *User       `gorm:"constraint:OnUpdate:CASCADE" json:"fromUser,omitempty"`
	ToDivisionID        uint        `gorm:"not null;index" json:"toDivisionId"`
	ToDivision          *Division   `gorm:"constraint:OnUpdate:CASCADE" json:"toDivision,omitempty"`
	ToPersonID          uint        `gorm:"not null;index" json:"toPersonId"`
	ToPerson            *User       `gorm:"constraint:OnUpdate:CASCADE" json:"toPerson,omitempty"`
	Title               string      `gorm:"not null" json:"title"`
	Date                time.Time   `gorm:"not null" json:"date"`
	Description         *string     `gorm:"type:text" json:"description"`
	DescriptionImageURL *string     `json:"descriptionImageUrl"`
	EventFileURLs       Attachments `gorm:"type:text;serializer:json" json:"eventFileUrls"`
	Status              Status      `gorm:"type:varchar(32);not null;default:'Perlu Verifikasi'" json:"status"`
	RejectionReason     *string     `json:"rejectionReason"`
	Responses           []Response  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsParticipant returns true if the user either sent the event or is its recipient.
func (e *Event) IsParticipant(userId uint) bool {
	return e.FromUserID == userId || e.ToPersonID == userId
}
