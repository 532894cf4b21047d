package handlers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNoteAdvancesNotesTaken(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "notes@example.com")

	for i := 0; i < 3; i++ {
		status, body := doJSON(t, app, "POST", "/api/notes", token, map[string]string{
			"title":   fmt.Sprintf("note %d", i),
			"content": "remember this",
		})
		require.Equal(t, 200, status, "create note failed: %v", body)
	}

	_, body := doJSON(t, app, "GET", "/api/achievements", token, nil)
	record := achievementByTitle(t, body, "Notes Taken")
	assert.Equal(t, float64(3), record["progress"])
	assert.Equal(t, false, record["unlocked"])
}

func TestCreateNoteValidation(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "notevalidation@example.com")

	status, _ := doJSON(t, app, "POST", "/api/notes", token, map[string]string{"title": "no content"})
	assert.Equal(t, 400, status)

	status, _ = doJSON(t, app, "POST", "/api/notes", token, map[string]interface{}{
		"title":   "bad goal link",
		"content": "c",
		"goal_id": "does-not-exist",
	})
	assert.Equal(t, 404, status)
}

func TestNotesLinkedToGoalAndTask(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "notelinks@example.com")

	goal := createGoal(t, app, token, "Note parent")
	task := createTask(t, app, token, "Note task")

	status, body := doJSON(t, app, "POST", "/api/notes", token, map[string]interface{}{
		"title":   "linked note",
		"content": "c",
		"goal_id": goal["id"],
		"task_id": task["id"],
	})
	require.Equal(t, 200, status)
	note, _ := body["note"].(map[string]interface{})
	assert.Equal(t, goal["id"], note["goal_id"])

	status, body = doJSON(t, app, "GET", "/api/notes?goal_id="+goal["id"].(string), token, nil)
	require.Equal(t, 200, status)
	notes, _ := body["notes"].([]interface{})
	assert.Len(t, notes, 1)

	// Unlinking via update clears both references.
	status, body = doJSON(t, app, "PUT", "/api/notes/"+note["id"].(string), token, map[string]string{
		"title":   "linked note",
		"content": "updated",
	})
	require.Equal(t, 200, status)
	updated, _ := body["note"].(map[string]interface{})
	assert.Nil(t, updated["goal_id"])
	assert.Nil(t, updated["task_id"])
	assert.Equal(t, "updated", updated["content"])
}

func TestNotesRefreshUnlocksAtTen(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "tennotes@example.com")

	for i := 0; i < 10; i++ {
		status, _ := doJSON(t, app, "POST", "/api/notes", token, map[string]string{
			"title":   fmt.Sprintf("note %d", i),
			"content": "c",
		})
		require.Equal(t, 200, status)
	}

	status, body := doJSON(t, app, "POST", "/api/achievements/refresh", token, nil)
	require.Equal(t, 200, status)
	record := achievementByTitle(t, body, "Notes Taken")
	assert.Equal(t, float64(10), record["progress"])
	assert.Equal(t, true, record["unlocked"])
}

func TestDeleteNote(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "notedelete@example.com")

	status, body := doJSON(t, app, "POST", "/api/notes", token, map[string]string{
		"title": "ephemeral", "content": "c",
	})
	require.Equal(t, 200, status)
	note, _ := body["note"].(map[string]interface{})
	id := note["id"].(string)

	status, _ = doJSON(t, app, "DELETE", "/api/notes/"+id, token, nil)
	assert.Equal(t, 204, status)

	status, _ = doJSON(t, app, "GET", "/api/notes/"+id, token, nil)
	assert.Equal(t, 404, status)
}
