package service

import (
	"context"
	"strings"
	"testing"

	"aegisai/internal/model"
	"aegisai/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// assertCountInvariant checks that the conversation summary counter always
// matches the actual number of stored messages.
func assertCountInvariant(t *testing.T, db *gorm.DB, conversationID string) {
	t.Helper()

	repo := repository.NewConversationRepository(db)
	conv, err := repo.GetByID(context.Background(), conversationID)
	require.NoError(t, err)
	count, err := repo.CountMessages(context.Background(), conversationID)
	require.NoError(t, err)
	assert.EqualValues(t, conv.MessageCount, count)
}

func TestChatService_CreateConversation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestChatService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)

	first, err := svc.CreateConversation(ctx, user.ID.String(), "Leave policy questions")
	require.NoError(t, err)
	assert.Equal(t, 0, first.MessageCount)
	assert.Empty(t, first.LastMessage)

	second, err := svc.CreateConversation(ctx, user.ID.String(), "Onboarding checklist")
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, user.ID.String())
	require.NoError(t, err)
	require.Len(t, convs, 2)
	// Newest conversation heads the list.
	assert.Equal(t, second.ID, convs[0].ID)
	assert.Equal(t, first.ID, convs[1].ID)

	assertCountInvariant(t, db, first.ID.String())
}

func TestChatService_ListConversations_OwnedOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestChatService(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)
	bob := createTestUser(t, db, "ivan@aegisai.com", "Ivan IT", "it123", model.RoleIT)

	_, err := svc.CreateConversation(ctx, alice.ID.String(), "HR chat")
	require.NoError(t, err)
	_, err = svc.CreateConversation(ctx, bob.ID.String(), "IT chat")
	require.NoError(t, err)

	convs, err := svc.ListConversations(ctx, alice.ID.String())
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "HR chat", convs[0].Title)
}

func TestChatService_SendMessage(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestChatService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)

	conv, err := svc.CreateConversation(ctx, user.ID.String(), "Leave")
	require.NoError(t, err)

	result, err := svc.SendMessage(ctx, conv.ID.String(), user.ID.String(), "I need to request vacation leave")
	require.NoError(t, err)

	assert.Equal(t, model.SenderUser, result.UserMessage.Sender)
	assert.Equal(t, "I need to request vacation leave", result.UserMessage.Content)
	assert.Equal(t, model.SenderAssistant, result.AssistantMessage.Sender)
	assert.Equal(t, []string{"Employee Handbook 2025"}, result.AssistantMessage.Sources)

	updated, err := svc.GetConversation(ctx, conv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, updated.MessageCount)
	assert.True(t, strings.HasSuffix(updated.LastMessage, "..."))
	assert.LessOrEqual(t, len([]rune(updated.LastMessage)), lastMessagePreviewLen+3)
	assert.Equal(t, result.AssistantMessage.Timestamp.Unix(), updated.LastMessageAt.Unix())

	msgs, err := svc.GetMessages(ctx, conv.ID.String())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Equal(t, model.SenderAssistant, msgs[1].Sender)

	assertCountInvariant(t, db, conv.ID.String())
}

func TestChatService_SendMessage_OrderingUnderCoarseClock(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestChatService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)

	conv, err := svc.CreateConversation(ctx, user.ID.String(), "Rapid fire")
	require.NoError(t, err)

	queries := []string{"first question", "second question", "third question"}
	for _, q := range queries {
		_, err := svc.SendMessage(ctx, conv.ID.String(), user.ID.String(), q)
		require.NoError(t, err)
	}

	msgs, err := svc.GetMessages(ctx, conv.ID.String())
	require.NoError(t, err)
	require.Len(t, msgs, 6)

	// Replay by (timestamp, seq) reproduces insertion order even when
	// consecutive messages share a clock tick.
	for i, msg := range msgs {
		assert.Equal(t, i+1, msg.Seq)
		if i%2 == 0 {
			assert.Equal(t, queries[i/2], msg.Content)
		}
	}
	assertCountInvariant(t, db, conv.ID.String())
}

func TestChatService_SendMessage_SingleFlight(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestChatService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)

	conv, err := svc.CreateConversation(ctx, user.ID.String(), "Busy")
	require.NoError(t, err)

	// Mark a turn as pending, as if a previous send had not completed yet.
	impl := svc.(*chatService)
	impl.mu.Lock()
	impl.inflight[conv.ID.String()] = true
	impl.mu.Unlock()

	result, err := svc.SendMessage(ctx, conv.ID.String(), user.ID.String(), "hello")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrConversationBusy)

	// No state changed: no messages appended, summary untouched.
	unchanged, err := svc.GetConversation(ctx, conv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, unchanged.MessageCount)
	assert.Empty(t, unchanged.LastMessage)
	assertCountInvariant(t, db, conv.ID.String())

	// After the pending turn clears, sends proceed again.
	impl.release(conv.ID.String())
	_, err = svc.SendMessage(ctx, conv.ID.String(), user.ID.String(), "hello")
	require.NoError(t, err)
	assertCountInvariant(t, db, conv.ID.String())
}

func TestChatService_SendMessage_ForeignConversation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestChatService(db)
	ctx := context.Background()
	owner := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)
	other := createTestUser(t, db, "ivan@aegisai.com", "Ivan IT", "it123", model.RoleIT)

	conv, err := svc.CreateConversation(ctx, owner.ID.String(), "Private")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, conv.ID.String(), other.ID.String(), "hello")
	assert.ErrorIs(t, err, ErrNotFound)
	assertCountInvariant(t, db, conv.ID.String())
}

func TestChatService_DeleteConversation_Cascades(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestChatService(db)
	ctx := context.Background()
	user := createTestUser(t, db, "hannah@aegisai.com", "Hannah HR", "hr123", model.RoleHR)

	conv, err := svc.CreateConversation(ctx, user.ID.String(), "Doomed")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conv.ID.String(), user.ID.String(), "vpn setup")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(ctx, conv.ID.String()))

	// Re-selecting the deleted conversation yields not found.
	_, err = svc.GetConversation(ctx, conv.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetMessages(ctx, conv.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	// And its messages are gone, not orphaned.
	var orphaned int64
	require.NoError(t, db.Model(&model.Message{}).Where("conversation_id = ?", conv.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)

	// Deleting again reports not found.
	assert.ErrorIs(t, svc.DeleteConversation(ctx, conv.ID.String()), ErrNotFound)
}
