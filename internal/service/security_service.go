package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"aegisai/internal/model"
	"aegisai/internal/repository"
	ws "aegisai/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// recentActivityWindow bounds the Stats "recent" bucket. The lower bound
	// is exclusive: an entry exactly 24h old does not count.
	recentActivityWindow = 24 * time.Hour

	// bulkReadThreshold is the number of document reads by one user within
	// bulkReadWindow that classifies the next read as data exfiltration.
	bulkReadThreshold = 20
	bulkReadWindow    = time.Hour
)

// RecordInput describes one observed action plus the signals the flag
// classifier needs.
type RecordInput struct {
	UserID             string
	UserName           string
	Action             string
	Resource           string
	IPAddress          string
	Details            string
	Denied             bool // the access policy rejected this action
	ClassifierFallback bool // the query classifier hit its default rule
	BulkReads          int64
}

// SecurityStats is a pure aggregation over the log collection.
type SecurityStats struct {
	TotalLogs      int64 `json:"totalLogs"`
	FlaggedCount   int64 `json:"flaggedCount"`
	RecentActivity int64 `json:"recentActivity"`
	UniqueUsers    int64 `json:"uniqueUsers"`
}

// SecurityEvent is the payload broadcast to monitoring clients when a
// flagged entry is recorded.
type SecurityEvent struct {
	Event string            `json:"event"`
	Data  model.SecurityLog `json:"data"`
}

// SecurityService is the auditor: it classifies observed actions into flag
// categories, appends them to the log, and aggregates statistics.
type SecurityService interface {
	Record(ctx context.Context, input RecordInput) (*model.SecurityLog, error)
	List(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error)
	ListFlagged(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error)
	Stats(ctx context.Context) (SecurityStats, error)
}

type securityService struct {
	logs  repository.SecurityRepository
	users repository.UserRepository
	hub   *ws.Hub // optional; nil disables alert broadcast
	now   func() time.Time
}

// NewSecurityService returns a new instance of SecurityService. hub may be nil.
func NewSecurityService(logs repository.SecurityRepository, users repository.UserRepository, hub *ws.Hub) SecurityService {
	return &securityService{logs: logs, users: users, hub: hub, now: time.Now}
}

// ClassifyAction assigns exactly one flag by rule precedence:
// unauthorized_access > data_exfiltration > suspicious_query > none.
// Every flag traces back to a named policy violation.
func ClassifyAction(input RecordInput) model.FlagType {
	switch {
	case input.Denied:
		return model.FlagUnauthorizedAccess
	case input.BulkReads >= bulkReadThreshold:
		return model.FlagDataExfiltration
	case input.ClassifierFallback:
		return model.FlagSuspiciousQuery
	default:
		return model.FlagNone
	}
}

// Record appends one audit entry. The flag is assigned here, at creation
// time, and never revised.
func (s *securityService) Record(ctx context.Context, input RecordInput) (*model.SecurityLog, error) {
	uid, err := uuid.Parse(input.UserID)
	if err != nil {
		uid = uuid.Nil
	}

	// Detect bulk document access before classification.
	if input.Action == model.ActionViewDocument && input.BulkReads == 0 && uid != uuid.Nil {
		count, err := s.logs.CountRecent(ctx, input.UserID, model.ActionViewDocument, s.now().Add(-bulkReadWindow))
		if err != nil {
			return nil, err
		}
		input.BulkReads = count
	}

	if input.UserName == "" && uid != uuid.Nil {
		if user, err := s.users.GetByID(ctx, input.UserID); err == nil {
			input.UserName = user.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	entry := &model.SecurityLog{
		UserID:    uid,
		UserName:  input.UserName,
		Action:    input.Action,
		Resource:  input.Resource,
		Timestamp: s.now(),
		IPAddress: input.IPAddress,
		FlagType:  ClassifyAction(input),
		Details:   input.Details,
	}

	if err := s.logs.Log(ctx, entry); err != nil {
		return nil, err
	}

	if entry.Flagged() && s.hub != nil {
		payload, err := json.Marshal(SecurityEvent{Event: "security_alert", Data: *entry})
		if err == nil {
			s.hub.Broadcast <- payload
		} else {
			log.Printf("Failed to marshal security alert: %v", err)
		}
	}

	return entry, nil
}

func (s *securityService) List(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.logs.List(ctx, page, limit)
}

func (s *securityService) ListFlagged(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.logs.ListFlagged(ctx, page, limit)
}

// Stats aggregates the full log collection.
func (s *securityService) Stats(ctx context.Context) (SecurityStats, error) {
	logs, err := s.logs.ListAll(ctx)
	if err != nil {
		return SecurityStats{}, err
	}
	return ComputeStats(logs, s.now()), nil
}

// ComputeStats is the pure aggregation over a log collection. The recent
// activity window is (now-24h, now], exclusive of the lower bound.
func ComputeStats(logs []model.SecurityLog, now time.Time) SecurityStats {
	stats := SecurityStats{TotalLogs: int64(len(logs))}
	cutoff := now.Add(-recentActivityWindow)

	seen := make(map[uuid.UUID]struct{})
	for _, l := range logs {
		if l.Flagged() {
			stats.FlaggedCount++
		}
		if l.Timestamp.After(cutoff) {
			stats.RecentActivity++
		}
		if _, ok := seen[l.UserID]; !ok {
			seen[l.UserID] = struct{}{}
			stats.UniqueUsers++
		}
	}
	return stats
}
