package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"aegisai/internal/model"
	"aegisai/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// lastMessagePreviewLen is the maximum number of characters of the assistant
// reply kept on the conversation summary.
const lastMessagePreviewLen = 80

// SendResult carries the pair of messages committed by one turn.
type SendResult struct {
	UserMessage      model.Message `json:"userMessage"`
	AssistantMessage model.Message `json:"assistantMessage"`
}

// ChatService is the conversation engine. It owns conversation and message
// collections, enforces per-conversation single-flight sends, and commits
// each turn (user message, assistant message, conversation summary) as one
// transaction.
type ChatService interface {
	CreateConversation(ctx context.Context, userID, title string) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]model.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	GetMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	SendMessage(ctx context.Context, conversationID, userID, content string) (*SendResult, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

type chatService struct {
	convs     repository.ConversationRepository
	txManager repository.TransactionManager
	auditor   SecurityService // optional; nil disables audit of chat turns

	mu       sync.Mutex
	inflight map[string]bool
}

// NewChatService returns a new instance of ChatService. auditor may be nil.
func NewChatService(convs repository.ConversationRepository, txManager repository.TransactionManager, auditor SecurityService) ChatService {
	return &chatService{
		convs:     convs,
		txManager: txManager,
		auditor:   auditor,
		inflight:  make(map[string]bool),
	}
}

func (s *chatService) CreateConversation(ctx context.Context, userID, title string) (*model.Conversation, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	conv := &model.Conversation{
		UserID:        uid,
		Title:         title,
		LastMessageAt: time.Now(),
		MessageCount:  0,
	}
	if err := s.convs.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	return s.convs.ListByUser(ctx, userID)
}

func (s *chatService) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conv, err := s.convs.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return conv, nil
}

func (s *chatService) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.convs.ListMessages(ctx, conversationID)
}

// acquire marks a conversation as having a turn in flight. It reports false
// when another send is already pending, in which case the caller must back
// off without touching any state.
func (s *chatService) acquire(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[conversationID] {
		return false
	}
	s.inflight[conversationID] = true
	return true
}

func (s *chatService) release(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, conversationID)
}

// SendMessage appends the user message, synthesizes the assistant reply via
// the classifier, and updates the conversation summary. The whole turn
// commits atomically: a failure leaves no half-appended turn behind.
func (s *chatService) SendMessage(ctx context.Context, conversationID, userID, content string) (*SendResult, error) {
	conv, err := s.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID.String() != userID {
		return nil, ErrNotFound
	}

	if !s.acquire(conversationID) {
		return nil, ErrConversationBusy
	}
	defer s.release(conversationID)

	reply := Classify(content)

	var result SendResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read inside the transaction; the summary counters are the
		// source of truth for the per-conversation sequence.
		conv, err := s.convs.GetByID(txCtx, conversationID)
		if err != nil {
			return err
		}

		now := time.Now()
		userMsg := model.Message{
			ConversationID: conv.ID,
			Sender:         model.SenderUser,
			Content:        content,
			Timestamp:      now,
			Seq:            conv.MessageCount + 1,
		}
		if err := s.convs.AppendMessage(txCtx, &userMsg); err != nil {
			return err
		}

		assistantMsg := model.Message{
			ConversationID: conv.ID,
			Sender:         model.SenderAssistant,
			Content:        reply.Content,
			Timestamp:      time.Now(),
			Seq:            conv.MessageCount + 2,
			Sources:        reply.Sources,
		}
		if err := s.convs.AppendMessage(txCtx, &assistantMsg); err != nil {
			return err
		}

		conv.LastMessage = previewOf(assistantMsg.Content)
		conv.LastMessageAt = assistantMsg.Timestamp
		conv.MessageCount += 2
		if err := s.convs.Update(txCtx, conv); err != nil {
			return err
		}

		result = SendResult{UserMessage: userMsg, AssistantMessage: assistantMsg}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, RecordInput{
			UserID:             userID,
			Action:             model.ActionSendMessage,
			Resource:           "conversation:" + conversationID,
			Details:            "topic=" + reply.Topic,
			ClassifierFallback: reply.Fallback,
		})
	}

	return &result, nil
}

// DeleteConversation removes the conversation and cascades deletion of its
// messages in one transaction.
func (s *chatService) DeleteConversation(ctx context.Context, conversationID string) error {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.convs.Delete(txCtx, conversationID)
	})
}

// previewOf truncates content for the conversation summary and marks it with
// a trailing ellipsis.
func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) > lastMessagePreviewLen {
		runes = runes[:lastMessagePreviewLen]
	}
	return string(runes) + "..."
}
