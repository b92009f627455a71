package service

import (
	"context"
	"errors"

	"aegisai/internal/model"
	"aegisai/internal/policy"
	"aegisai/internal/repository"

	"gorm.io/gorm"
)

type CreateDocumentRequest struct {
	Title        string           `json:"title" binding:"required"`
	Description  string           `json:"description"`
	FileName     string           `json:"fileName" binding:"required"`
	FileSize     int64            `json:"fileSize" binding:"required,gt=0"`
	AllowedRoles []model.UserRole `json:"allowedRoles" binding:"required,min=1"`
	UploadedBy   string           `json:"uploadedBy" binding:"required"`
}

type UpdateDocumentRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	AllowedRoles []model.UserRole `json:"allowedRoles"`
	Status       string           `json:"status"`
}

// DocumentService manages knowledge-base documents and enforces role-based
// visibility on every read path.
type DocumentService interface {
	ListDocuments(ctx context.Context, page, limit int) ([]model.Document, int64, error)
	ListDocumentsForRole(ctx context.Context, role model.UserRole) ([]model.Document, error)
	GetDocumentForUser(ctx context.Context, id string, user *UserResponse, ip string) (*model.Document, error)
	CreateDocument(ctx context.Context, req CreateDocumentRequest) (*model.Document, error)
	UpdateDocument(ctx context.Context, id string, req UpdateDocumentRequest) (*model.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

type documentService struct {
	docs    repository.DocumentRepository
	auditor SecurityService // optional; nil disables access auditing
}

// NewDocumentService returns a new instance of DocumentService. auditor may be nil.
func NewDocumentService(docs repository.DocumentRepository, auditor SecurityService) DocumentService {
	return &documentService{docs: docs, auditor: auditor}
}

func (s *documentService) ListDocuments(ctx context.Context, page, limit int) ([]model.Document, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.docs.List(ctx, page, limit)
}

// ListDocumentsForRole returns only the documents whose allowed roles include
// the given role. Visibility is a policy predicate, not a per-screen rule.
func (s *documentService) ListDocumentsForRole(ctx context.Context, role model.UserRole) ([]model.Document, error) {
	docs, _, err := s.docs.List(ctx, 1, 1000)
	if err != nil {
		return nil, err
	}
	return policy.FilterDocuments(role, docs), nil
}

// GetDocumentForUser fetches one document, enforcing visibility and auditing
// the access. A read outside the user's allowed set is recorded as an
// unauthorized access attempt and surfaces as not-found.
func (s *documentService) GetDocumentForUser(ctx context.Context, id string, user *UserResponse, ip string) (*model.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	denied := user == nil || !policy.DocumentVisible(user.Role, doc)

	if s.auditor != nil && user != nil {
		input := RecordInput{
			UserID:    user.ID,
			UserName:  user.Name,
			Action:    model.ActionViewDocument,
			Resource:  "document:" + doc.ID.String(),
			IPAddress: ip,
			Details:   doc.Title,
			Denied:    denied,
		}
		if denied {
			input.Action = model.ActionAccessDenied
		}
		if _, err := s.auditor.Record(ctx, input); err != nil {
			return nil, err
		}
	}

	if denied {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *documentService) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*model.Document, error) {
	for _, role := range req.AllowedRoles {
		if !model.ValidRole(string(role)) {
			return nil, ErrInvalidRole
		}
	}

	doc := &model.Document{
		Title:        req.Title,
		Description:  req.Description,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		AllowedRoles: req.AllowedRoles,
		Status:       model.DocumentProcessing,
		UploadedBy:   req.UploadedBy,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, id string, req UpdateDocumentRequest) (*model.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		doc.Title = req.Title
	}
	if req.Description != "" {
		doc.Description = req.Description
	}
	if req.AllowedRoles != nil {
		for _, role := range req.AllowedRoles {
			if !model.ValidRole(string(role)) {
				return nil, ErrInvalidRole
			}
		}
		doc.AllowedRoles = req.AllowedRoles
	}
	if req.Status != "" {
		switch model.DocumentStatus(req.Status) {
		case model.DocumentActive, model.DocumentProcessing, model.DocumentArchived:
			doc.Status = model.DocumentStatus(req.Status)
		default:
			return nil, errors.New("invalid document status")
		}
	}

	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.docs.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.docs.Delete(ctx, id)
}
