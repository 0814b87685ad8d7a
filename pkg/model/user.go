package model

import "time"

type Role string

const (
	RoleAdmin                 Role = "admin"
	RoleDelegationVerificator Role = "delegation_verificator"
	RoleDelegationHandler     Role = "delegation_handler"
)

// Roles lists every valid role. The order is used when validating input with the oneOf validator.
var Roles = []Role{RoleAdmin, RoleDelegationVerificator, RoleDelegationHandler}

func IsValidRole(role Role) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User domain object defining a user
// swagger:model
type User struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Username        string    `gorm:"not null;uniqueIndex" json:"username"`
	Email           string    `gorm:"not null;uniqueIndex" json:"email"`
	Password        string    `json:"-"`
	Role            *Role     `gorm:"type:varchar(32)" json:"role"`
	Description     string    `gorm:"type:text" json:"description"`
	ProfileImageURL string    `json:"profileImageUrl"`
	DivisionID      *uint     `json:"divisionId"`
	Division        *Division `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"division,omitempty"`
}

// HasRole returns true if the user has been assigned the given role.
func (u *User) HasRole(role Role) bool {
	return u.Role != nil && *u.Role == role
}

// IsVerificator returns true if responses written by the user reject the event they are written on.
func (u *User) IsVerificator() bool {
	return u.HasRole(RoleDelegationVerificator)
}
