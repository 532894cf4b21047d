package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAchievementByID(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "achget@example.com")

	_, body := doJSON(t, app, "GET", "/api/achievements", token, nil)
	first := achievementByTitle(t, body, "First Step")
	id := first["id"].(string)

	status, body := doJSON(t, app, "GET", "/api/achievements/"+id, token, nil)
	require.Equal(t, 200, status)
	record, _ := body["achievement"].(map[string]interface{})
	assert.Equal(t, id, record["id"])
	assert.Equal(t, "First Step", record["title"])

	status, _ = doJSON(t, app, "GET", "/api/achievements/unknown-id", token, nil)
	assert.Equal(t, 404, status)
}

func TestGetAchievementForeignIDReads404(t *testing.T) {
	app := setupApp(t)
	ownerToken, _ := registerUser(t, app, "achowner@example.com")
	otherToken, _ := registerUser(t, app, "achother@example.com")

	_, body := doJSON(t, app, "GET", "/api/achievements", ownerToken, nil)
	id := achievementByTitle(t, body, "First Step")["id"].(string)

	status, _ := doJSON(t, app, "GET", "/api/achievements/"+id, otherToken, nil)
	assert.Equal(t, 404, status)
}

func TestRefreshOverridesDriftedCounter(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "achrefresh@example.com")

	// One real note, then two more increments faked by deleting notes after
	// creation so the stored counter runs ahead of the truth.
	for i := 0; i < 3; i++ {
		status, body := doJSON(t, app, "POST", "/api/notes", token, map[string]string{
			"title": "n", "content": "c",
		})
		require.Equal(t, 200, status)
		if i > 0 {
			note, _ := body["note"].(map[string]interface{})
			status, _ = doJSON(t, app, "DELETE", "/api/notes/"+note["id"].(string), token, nil)
			require.Equal(t, 204, status)
		}
	}

	_, body := doJSON(t, app, "GET", "/api/achievements", token, nil)
	assert.Equal(t, float64(3), achievementByTitle(t, body, "Notes Taken")["progress"])

	status, body := doJSON(t, app, "POST", "/api/achievements/refresh", token, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), achievementByTitle(t, body, "Notes Taken")["progress"])
}
