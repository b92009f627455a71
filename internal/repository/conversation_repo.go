package repository

import (
	"context"

	"aegisai/internal/model"

	"gorm.io/gorm"
)

// ConversationRepository defines data access for conversations and their
// messages. Messages belong exclusively to one conversation; deleting a
// conversation cascades to its messages.
type ConversationRepository interface {
	Create(ctx context.Context, conv *model.Conversation) error
	GetByID(ctx context.Context, id string) (*model.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]model.Conversation, error)
	Update(ctx context.Context, conv *model.Conversation) error
	Delete(ctx context.Context, id string) error

	AppendMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	CountMessages(ctx context.Context, conversationID string) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conv *model.Conversation) error {
	return GetDB(ctx, r.db).Create(conv).Error
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := GetDB(ctx, r.db).First(&conv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListByUser returns the user's conversations newest-first, so a freshly
// created conversation appears at the head of the list.
func (r *conversationRepository) ListByUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := GetDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *conversationRepository) Update(ctx context.Context, conv *model.Conversation) error {
	return GetDB(ctx, r.db).Save(conv).Error
}

// Delete removes the conversation and all of its messages.
func (r *conversationRepository) Delete(ctx context.Context, id string) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Conversation{}).Error
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	return GetDB(ctx, r.db).Create(msg).Error
}

// ListMessages returns messages in insertion order. Seq breaks ties between
// messages created within the same clock tick.
func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var msgs []model.Message
	err := GetDB(ctx, r.db).
		Where("conversation_id = ?", conversationID).
		Order("timestamp asc, seq asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *conversationRepository) CountMessages(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}
