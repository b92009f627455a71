package repository

import (
	"context"

	"aegisai/internal/model"

	"gorm.io/gorm"
)

// DocumentRepository defines data access for knowledge-base documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, page, limit int) ([]model.Document, int64, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, page, limit int) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Document{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("uploaded_at desc").Offset(offset).Limit(limit).Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Document{}).Error
}
