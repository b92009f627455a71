package service

import (
	"context"
	"testing"
	"time"

	"aegisai/internal/model"
	"aegisai/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestSecurityService(t *testing.T) (SecurityService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewSecurityService(repository.NewSecurityRepository(db), repository.NewUserRepository(db), nil)
	return svc, db
}

func TestClassifyAction_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		input RecordInput
		want  model.FlagType
	}{
		{"clean action", RecordInput{}, model.FlagNone},
		{"denied", RecordInput{Denied: true}, model.FlagUnauthorizedAccess},
		{"bulk reads", RecordInput{BulkReads: bulkReadThreshold}, model.FlagDataExfiltration},
		{"below bulk threshold", RecordInput{BulkReads: bulkReadThreshold - 1}, model.FlagNone},
		{"classifier fallback", RecordInput{ClassifierFallback: true}, model.FlagSuspiciousQuery},
		{"denied beats bulk", RecordInput{Denied: true, BulkReads: bulkReadThreshold}, model.FlagUnauthorizedAccess},
		{"denied beats fallback", RecordInput{Denied: true, ClassifierFallback: true}, model.FlagUnauthorizedAccess},
		{"bulk beats fallback", RecordInput{BulkReads: bulkReadThreshold, ClassifierFallback: true}, model.FlagDataExfiltration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAction(tt.input))
		})
	}
}

func TestSecurityService_Record_Denied(t *testing.T) {
	svc, db := newTestSecurityService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "frank@aegisai.com", "Frank Finance", "finance123", model.RoleFinance)

	entry, err := svc.Record(ctx, RecordInput{
		UserID:   user.ID.String(),
		Action:   model.ActionAccessDenied,
		Resource: "/admin/users",
		Denied:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FlagUnauthorizedAccess, entry.FlagType)
	assert.Equal(t, "Frank Finance", entry.UserName, "user name resolved from the store")
	assert.True(t, entry.Flagged())

	// Persisted with the flag assigned at creation time.
	var stored model.SecurityLog
	require.NoError(t, db.First(&stored, "id = ?", entry.ID).Error)
	assert.Equal(t, model.FlagUnauthorizedAccess, stored.FlagType)
}

func TestSecurityService_Record_FallbackQuery(t *testing.T) {
	svc, db := newTestSecurityService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "ivan@aegisai.com", "Ivan IT", "it123", model.RoleIT)

	entry, err := svc.Record(ctx, RecordInput{
		UserID:             user.ID.String(),
		Action:             model.ActionSendMessage,
		Resource:           "conversation:test",
		ClassifierFallback: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FlagSuspiciousQuery, entry.FlagType)
}

func TestSecurityService_Record_BulkDocumentReads(t *testing.T) {
	svc, db := newTestSecurityService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "ivan@aegisai.com", "Ivan IT", "it123", model.RoleIT)

	// Reads up to the threshold stay unflagged.
	for i := 0; i < bulkReadThreshold; i++ {
		entry, err := svc.Record(ctx, RecordInput{
			UserID:   user.ID.String(),
			Action:   model.ActionViewDocument,
			Resource: "document:handbook",
		})
		require.NoError(t, err)
		assert.Equal(t, model.FlagNone, entry.FlagType, "read %d", i+1)
	}

	// The next read crosses the threshold within the window.
	entry, err := svc.Record(ctx, RecordInput{
		UserID:   user.ID.String(),
		Action:   model.ActionViewDocument,
		Resource: "document:handbook",
	})
	require.NoError(t, err)
	assert.Equal(t, model.FlagDataExfiltration, entry.FlagType)
}

func TestSecurityService_Record_UnknownUser(t *testing.T) {
	svc, _ := newTestSecurityService(t)

	entry, err := svc.Record(context.Background(), RecordInput{
		UserID:   "not-a-uuid",
		UserName: "stranger",
		Action:   model.ActionLoginFailed,
		Resource: "/auth/login",
	})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, entry.UserID)
	assert.Equal(t, "stranger", entry.UserName)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	assert.Equal(t, SecurityStats{}, stats)
}

func TestComputeStats_Aggregation(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	alice := uuid.New()
	bob := uuid.New()

	logs := []model.SecurityLog{
		{UserID: alice, FlagType: model.FlagNone, Timestamp: now.Add(-time.Hour)},
		{UserID: alice, FlagType: model.FlagUnauthorizedAccess, Timestamp: now.Add(-2 * time.Hour)},
		{UserID: bob, FlagType: model.FlagNone, Timestamp: now.Add(-48 * time.Hour)},
	}

	stats := ComputeStats(logs, now)
	assert.EqualValues(t, 3, stats.TotalLogs)
	assert.EqualValues(t, 1, stats.FlaggedCount)
	assert.EqualValues(t, 2, stats.RecentActivity)
	assert.EqualValues(t, 2, stats.UniqueUsers)
}

func TestComputeStats_RecentBoundaryExclusive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	logs := []model.SecurityLog{
		{UserID: uuid.New(), Timestamp: now.Add(-recentActivityWindow)},                   // exactly 24h old: out
		{UserID: uuid.New(), Timestamp: now.Add(-recentActivityWindow + time.Nanosecond)}, // a hair inside: in
	}

	stats := ComputeStats(logs, now)
	assert.EqualValues(t, 1, stats.RecentActivity)
}

func TestSecurityService_Stats(t *testing.T) {
	svc, db := newTestSecurityService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)

	_, err := svc.Record(ctx, RecordInput{UserID: user.ID.String(), Action: model.ActionLogin, Resource: "/auth/login"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordInput{UserID: user.ID.String(), Action: model.ActionAccessDenied, Resource: "/admin/users", Denied: true})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalLogs)
	assert.EqualValues(t, 1, stats.FlaggedCount)
	assert.EqualValues(t, 2, stats.RecentActivity)
	assert.EqualValues(t, 1, stats.UniqueUsers)
}

func TestSecurityService_ListFlagged(t *testing.T) {
	svc, db := newTestSecurityService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)

	_, err := svc.Record(ctx, RecordInput{UserID: user.ID.String(), Action: model.ActionLogin, Resource: "/auth/login"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordInput{UserID: user.ID.String(), Action: model.ActionAccessDenied, Resource: "/admin/roles", Denied: true})
	require.NoError(t, err)

	flagged, total, err := svc.ListFlagged(ctx, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, flagged, 1)
	assert.Equal(t, model.FlagUnauthorizedAccess, flagged[0].FlagType)

	all, total, err := svc.List(ctx, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}
