package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FlagType is the risk category assigned to a security log entry at creation
// time. It is never revised afterwards.
type FlagType string

const (
	FlagNone               FlagType = "none"
	FlagUnauthorizedAccess FlagType = "unauthorized_access"
	FlagSuspiciousQuery    FlagType = "suspicious_query"
	FlagDataExfiltration   FlagType = "data_exfiltration"
)

// Audited action names.
const (
	ActionLogin          = "LOGIN"
	ActionLoginFailed    = "LOGIN_FAILED"
	ActionAccessDenied   = "ACCESS_DENIED"
	ActionSendMessage    = "SEND_MESSAGE"
	ActionViewDocument   = "VIEW_DOCUMENT"
	ActionUploadDocument = "UPLOAD_DOCUMENT"
	ActionDeleteDocument = "DELETE_DOCUMENT"
	ActionUpdateRole     = "UPDATE_ROLE"
	ActionCreateUser     = "CREATE_USER"
	ActionDeleteUser     = "DELETE_USER"
)

// SecurityLog tracks Who, What, and When for monitored actions. Entries are
// append-only audit records.
type SecurityLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	UserName  string    `gorm:"type:varchar(255)" json:"userName"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Resource  string    `gorm:"type:varchar(255)" json:"resource"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ipAddress"`
	FlagType  FlagType  `gorm:"type:varchar(30);not null;default:'none';index" json:"flagType"`
	Details   string    `gorm:"type:text" json:"details"`
}

func (l *SecurityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Flagged reports whether the entry carries a non-benign flag.
func (l *SecurityLog) Flagged() bool {
	return l.FlagType != FlagNone && l.FlagType != ""
}
