package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillup/database"
	"skillup/models"
)

func TestCleanupEmptyChatSessions(t *testing.T) {
	db := newTestDB(t)
	database.SetDB(db)
	userID := newTestUser(t, db)

	stale := models.ChatSession{Title: "abandoned", UserID: userID}
	require.NoError(t, db.Create(&stale).Error)
	active := models.ChatSession{Title: "in use", UserID: userID}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&models.ChatMessage{
		SessionID: active.ID, Content: "hello", Role: models.RoleUser,
	}).Error)

	// Age both sessions past the cutoff; only the message-less one may go.
	old := time.Now().Add(-60 * 24 * time.Hour)
	require.NoError(t, db.Model(&models.ChatSession{}).Where("1 = 1").Update("updated_at", old).Error)

	svc := &CleanupService{maxAge: 30 * 24 * time.Hour}
	require.NoError(t, svc.CleanupEmptyChatSessions())

	var remaining []models.ChatSession
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, active.ID, remaining[0].ID)
}

func TestCleanupKeepsRecentEmptySessions(t *testing.T) {
	db := newTestDB(t)
	database.SetDB(db)
	userID := newTestUser(t, db)

	fresh := models.ChatSession{Title: "just created", UserID: userID}
	require.NoError(t, db.Create(&fresh).Error)

	svc := &CleanupService{maxAge: 30 * 24 * time.Hour}
	require.NoError(t, svc.CleanupEmptyChatSessions())

	var count int64
	require.NoError(t, db.Model(&models.ChatSession{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
