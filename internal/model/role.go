package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents a user role with its associated permission set.
// Name is one of the closed UserRole values; Label and Description are
// presentation metadata editable by administrators.
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        UserRole     `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Label       string       `gorm:"type:varchar(255);not null" json:"label"`
	Description string       `gorm:"type:text" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"-"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// Permission represents a single capability token that can be assigned to roles
type Permission struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"` // e.g. "chat", "admin.dashboard"
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PermissionCodes flattens the permission records into their capability tokens.
func (r *Role) PermissionCodes() []string {
	codes := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		codes = append(codes, p.Code)
	}
	return codes
}
