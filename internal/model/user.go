package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is the closed set of identity classes governing visibility and permissions.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleSecurity UserRole = "security"
	RoleIT       UserRole = "it"
	RoleHR       UserRole = "hr"
	RoleFinance  UserRole = "finance"
)

// AllRoles lists every valid role, in display order.
var AllRoles = []UserRole{RoleAdmin, RoleSecurity, RoleIT, RoleHR, RoleFinance}

// ValidRole reports whether the given string names a role in the closed set.
func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}

// User represents the central user entity for logic and database structure
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password hash from JSON requests/responses
	Role      UserRole       `gorm:"type:varchar(50);not null" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	LastLogin *time.Time     `json:"lastLogin,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
