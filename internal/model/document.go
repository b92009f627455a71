package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentStatus tracks the ingestion lifecycle of a document. Transitions
// (processing -> active, -> archived) are driven by the ingestion pipeline.
type DocumentStatus string

const (
	DocumentActive     DocumentStatus = "active"
	DocumentProcessing DocumentStatus = "processing"
	DocumentArchived   DocumentStatus = "archived"
)

// Document is a knowledge-base entry. AllowedRoles governs visibility
// independent of ownership: a user sees a document iff their role is listed.
type Document struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	FileName     string         `gorm:"type:varchar(255);not null" json:"fileName"`
	FileSize     int64          `gorm:"not null" json:"fileSize"`
	AllowedRoles []UserRole     `gorm:"serializer:json" json:"allowedRoles"`
	Status       DocumentStatus `gorm:"type:varchar(20);not null;default:'processing'" json:"status"`
	UploadedBy   string         `gorm:"type:varchar(255);not null" json:"uploadedBy"`
	UploadedAt   time.Time      `gorm:"autoCreateTime" json:"uploadedAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
