package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfilePartial(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "profile@example.com")

	status, body := doJSON(t, app, "PUT", "/api/profile", token, map[string]string{
		"bio":      "Gopher in training",
		"location": "Lyon",
	})
	require.Equal(t, 200, status)
	profile, _ := body["profile"].(map[string]interface{})
	assert.Equal(t, "Gopher in training", profile["bio"])
	assert.Equal(t, "Lyon", profile["location"])
	// Fields absent from the request keep their seeded values.
	assert.Equal(t, "Test User", profile["full_name"])

	status, body = doJSON(t, app, "PUT", "/api/profile", token, map[string]string{
		"occupation": "Backend developer",
	})
	require.Equal(t, 200, status)
	profile, _ = body["profile"].(map[string]interface{})
	assert.Equal(t, "Gopher in training", profile["bio"])
	assert.Equal(t, "Backend developer", profile["occupation"])
}

func TestProfileStats(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "stats@example.com")

	createGoal(t, app, token, "Goal A")
	goalB := createGoal(t, app, token, "Goal B")
	status, _ := doJSON(t, app, "PATCH", "/api/goals/"+goalB["id"].(string)+"/status", token, map[string]string{
		"status": "COMPLETED",
	})
	require.Equal(t, 200, status)

	task := createTask(t, app, token, "Task A")
	completeTask(t, app, token, task["id"].(string))
	createTask(t, app, token, "Task B")

	status, _ = doJSON(t, app, "POST", "/api/notes", token, map[string]string{"title": "n", "content": "c"})
	require.Equal(t, 200, status)

	status, body := doJSON(t, app, "GET", "/api/profile/stats", token, nil)
	require.Equal(t, 200, status)
	stats, _ := body["stats"].(map[string]interface{})
	require.NotNil(t, stats)

	assert.Equal(t, float64(2), stats["total_goals"])
	assert.Equal(t, float64(1), stats["completed_goals"])
	assert.Equal(t, float64(2), stats["total_tasks"])
	assert.Equal(t, float64(1), stats["completed_tasks"])
	assert.Equal(t, float64(0), stats["overdue_tasks"])
	assert.Equal(t, float64(1), stats["total_notes"])
	assert.Equal(t, float64(0), stats["joined_days"])
}

func TestChangePassword(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "password@example.com")

	status, body := doJSON(t, app, "POST", "/api/profile/password", token, map[string]string{
		"current_password": "wrong-password",
		"new_password":     "newsecret123",
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "Current password is incorrect", body["error"])

	status, _ = doJSON(t, app, "POST", "/api/profile/password", token, map[string]string{
		"current_password": "secret123",
		"new_password":     "short",
	})
	assert.Equal(t, 400, status)

	status, _ = doJSON(t, app, "POST", "/api/profile/password", token, map[string]string{
		"current_password": "secret123",
		"new_password":     "newsecret123",
	})
	require.Equal(t, 200, status)

	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": "password@example.com", "password": "secret123",
	})
	assert.Equal(t, 401, status)

	status, _ = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": "password@example.com", "password": "newsecret123",
	})
	assert.Equal(t, 200, status)
}
