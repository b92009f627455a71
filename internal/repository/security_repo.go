package repository

import (
	"context"
	"time"

	"aegisai/internal/model"

	"gorm.io/gorm"
)

// SecurityRepository defines data access for the append-only security log.
// Entries are never updated or deleted.
type SecurityRepository interface {
	Log(ctx context.Context, entry *model.SecurityLog) error
	List(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error)
	ListFlagged(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error)
	ListAll(ctx context.Context) ([]model.SecurityLog, error)
	CountRecent(ctx context.Context, userID, action string, since time.Time) (int64, error)
}

type securityRepository struct {
	db *gorm.DB
}

func NewSecurityRepository(db *gorm.DB) SecurityRepository {
	return &securityRepository{db: db}
}

func (r *securityRepository) Log(ctx context.Context, entry *model.SecurityLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *securityRepository) List(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error) {
	return r.list(ctx, page, limit, false)
}

func (r *securityRepository) ListFlagged(ctx context.Context, page, limit int) ([]model.SecurityLog, int64, error) {
	return r.list(ctx, page, limit, true)
}

func (r *securityRepository) list(ctx context.Context, page, limit int, flaggedOnly bool) ([]model.SecurityLog, int64, error) {
	var logs []model.SecurityLog
	var total int64

	db := GetDB(ctx, r.db).Model(&model.SecurityLog{})
	if flaggedOnly {
		db = db.Where("flag_type <> ?", model.FlagNone)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("timestamp desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// CountRecent counts entries by one user for one action since the given
// instant. Used to detect bulk access patterns.
func (r *securityRepository) CountRecent(ctx context.Context, userID, action string, since time.Time) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.SecurityLog{}).
		Where("user_id = ? AND action = ? AND timestamp > ?", userID, action, since).
		Count(&count).Error
	return count, err
}

func (r *securityRepository) ListAll(ctx context.Context) ([]model.SecurityLog, error) {
	var logs []model.SecurityLog
	if err := GetDB(ctx, r.db).Order("timestamp desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
