package service

import (
	"path/filepath"
	"testing"

	"aegisai/internal/database"
	"aegisai/internal/model"
	"aegisai/internal/repository"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB initializes a throwaway sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "aegisai_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

// createTestUser inserts a user with a bcrypt-hashed password and returns it.
func createTestUser(t *testing.T, db *gorm.DB, email, name, password string, role model.UserRole) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{Email: email, Name: name, Password: string(hash), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// newTestChatService wires a chat service over the test database without an
// auditor.
func newTestChatService(db *gorm.DB) ChatService {
	convRepo := repository.NewConversationRepository(db)
	txManager := repository.NewTransactionManager(db)
	return NewChatService(convRepo, txManager, nil)
}
