package model

import "time"

// Division domain object defining an organizational unit users belong to and events are routed to
// swagger:model
type Division struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
}
