package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skillup/database"
	"skillup/middleware"
)

// setupApp wires a Fiber app against a fresh in-memory database, mirroring the
// route table the server uses.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef-test")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	app := fiber.New()
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", Register)
	authGroup.Post("/login", Login)

	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", GetCurrentUser)

	goalGroup := api.Group("/goals")
	goalGroup.Use(middleware.AuthMiddleware)
	goalGroup.Post("/", CreateGoal)
	goalGroup.Get("/", GetGoals)
	goalGroup.Get("/:id", GetGoal)
	goalGroup.Put("/:id", UpdateGoal)
	goalGroup.Patch("/:id/progress", UpdateGoalProgress)
	goalGroup.Patch("/:id/status", UpdateGoalStatus)
	goalGroup.Delete("/:id", DeleteGoal)

	taskGroup := api.Group("/tasks")
	taskGroup.Use(middleware.AuthMiddleware)
	taskGroup.Post("/", CreateTask)
	taskGroup.Get("/", GetTasks)
	taskGroup.Get("/:id", GetTask)
	taskGroup.Put("/:id", UpdateTask)
	taskGroup.Patch("/:id/status", UpdateTaskStatus)
	taskGroup.Delete("/:id", DeleteTask)

	noteGroup := api.Group("/notes")
	noteGroup.Use(middleware.AuthMiddleware)
	noteGroup.Post("/", CreateNote)
	noteGroup.Get("/", GetNotes)
	noteGroup.Get("/:id", GetNote)
	noteGroup.Put("/:id", UpdateNote)
	noteGroup.Delete("/:id", DeleteNote)

	achievementGroup := api.Group("/achievements")
	achievementGroup.Use(middleware.AuthMiddleware)
	achievementGroup.Get("/", GetAchievements)
	achievementGroup.Get("/:id", GetAchievement)
	achievementGroup.Post("/refresh", RefreshAchievements)

	profileGroup := api.Group("/profile")
	profileGroup.Use(middleware.AuthMiddleware)
	profileGroup.Get("/", GetProfile)
	profileGroup.Put("/", UpdateProfile)
	profileGroup.Get("/stats", GetProfileStats)
	profileGroup.Post("/password", ChangePassword)

	chatGroup := api.Group("/chat-sessions")
	chatGroup.Use(middleware.AuthMiddleware)
	chatGroup.Post("/", CreateChatSession)
	chatGroup.Get("/", GetChatSessions)
	chatGroup.Get("/:id", GetChatSession)
	chatGroup.Delete("/:id", DeleteChatSession)
	chatGroup.Post("/:id/messages", CreateChatMessage)
	chatGroup.Get("/:id/messages", GetChatMessages)
	chatGroup.Post("/:id/ai-response", GenerateAIResponse)

	return app
}

// doJSON performs one request against the app and decodes the JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// registerUser creates an account and returns its token and user id.
func registerUser(t *testing.T, app *fiber.App, email string) (token, userID string) {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, 200, status, "register failed: %v", body)

	token, _ = body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)
	return token, userID
}

// achievementByTitle digs one achievement out of a list response.
func achievementByTitle(t *testing.T, body map[string]interface{}, title string) map[string]interface{} {
	t.Helper()
	list, _ := body["achievements"].([]interface{})
	for _, entry := range list {
		record, _ := entry.(map[string]interface{})
		if record["title"] == title {
			return record
		}
	}
	t.Fatalf("achievement %q not found in %v", title, body)
	return nil
}
