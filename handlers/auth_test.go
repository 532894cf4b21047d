package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillup/database"
	"skillup/models"
)

func TestRegisterSeedsProfileAndAchievements(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "new@example.com")

	status, body := doJSON(t, app, "GET", "/api/achievements", token, nil)
	require.Equal(t, 200, status)
	list, _ := body["achievements"].([]interface{})
	assert.Len(t, list, 5)

	first := achievementByTitle(t, body, "First Step")
	assert.Equal(t, true, first["unlocked"])
	assert.NotNil(t, first["unlocked_date"])

	goals := achievementByTitle(t, body, "Goals Set")
	assert.Equal(t, false, goals["unlocked"])
	assert.Equal(t, float64(0), goals["progress"])

	status, body = doJSON(t, app, "GET", "/api/profile", token, nil)
	require.Equal(t, 200, status)
	profile, _ := body["profile"].(map[string]interface{})
	assert.Equal(t, "Test User", profile["full_name"])
}

func TestRegisterValidation(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name": "No Email", "password": "secret123",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, false, body["success"])

	status, _ = doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name": "Short", "email": "short@example.com", "password": "12345",
	})
	assert.Equal(t, 400, status)

	registerUser(t, app, "taken@example.com")
	status, body = doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name": "Again", "email": "taken@example.com", "password": "secret123",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Email already registered", body["error"])
}

func TestLoginRecordsEventAndAdvancesStreak(t *testing.T) {
	app := setupApp(t)
	_, userID := registerUser(t, app, "streak@example.com")

	for i := 0; i < 2; i++ {
		status, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
			"email": "streak@example.com", "password": "secret123",
		})
		require.Equal(t, 200, status)
		require.NotEmpty(t, body["token"])
	}

	var events int64
	require.NoError(t, database.GetDB().Model(&models.LoginEvent{}).Where("user_id = ?", userID).Count(&events).Error)
	assert.Equal(t, int64(2), events)

	var user models.User
	require.NoError(t, database.GetDB().First(&user, "id = ?", userID).Error)
	assert.NotNil(t, user.LastLogin)

	var record models.Achievement
	require.NoError(t, database.GetDB().
		Where("user_id = ? AND key = ?", userID, models.KeyConsistentLearning).First(&record).Error)
	assert.Equal(t, 2, record.Progress)
	assert.False(t, record.Unlocked)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := setupApp(t)
	registerUser(t, app, "locked@example.com")

	status, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": "locked@example.com", "password": "wrong-password",
	})
	assert.Equal(t, 401, status)
	assert.Equal(t, "Invalid credentials", body["error"])

	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, 401, status)
}

func TestGetCurrentUser(t *testing.T) {
	app := setupApp(t)
	token, userID := registerUser(t, app, "me@example.com")

	status, body := doJSON(t, app, "GET", "/api/users/me", token, nil)
	require.Equal(t, 200, status)
	user, _ := body["user"].(map[string]interface{})
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "me@example.com", user["email"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/goals", "/api/tasks", "/api/notes", "/api/achievements", "/api/profile"} {
		status, _ := doJSON(t, app, "GET", path, "", nil)
		assert.Equal(t, 401, status, "expected 401 for %s", path)
	}

	status, _ := doJSON(t, app, "GET", "/api/users/me", "not-a-jwt", nil)
	assert.Equal(t, 401, status)
}
