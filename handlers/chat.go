// handlers/chat.go
package handlers

import (
	"encoding/json"

	"skillup/database"
	"skillup/middleware"
	"skillup/models"
	"skillup/services"

	"github.com/gofiber/fiber/v2"
)

type ChatSessionRequest struct {
	Title          string `json:"title"`
	InitialMessage string `json:"initial_message"`
}

type ChatMessageRequest struct {
	Content  string          `json:"content"`
	Type     string          `json:"type"`
	Metadata json.RawMessage `json:"metadata"`
}

type AIResponseRequest struct {
	MessageID string `json:"message_id"`
}

// CreateChatSession creates a session, optionally with a first user message.
func CreateChatSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req ChatSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Session title required"})
	}

	db := database.GetDB()
	session := models.ChatSession{
		Title:  req.Title,
		UserID: userID,
	}
	if err := db.Create(&session).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create chat session"})
	}

	if req.InitialMessage != "" {
		message := models.ChatMessage{
			SessionID: session.ID,
			Content:   req.InitialMessage,
			Role:      models.RoleUser,
		}
		if err := db.Create(&message).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to store initial message"})
		}
		session.Messages = []models.ChatMessage{message}
	}

	return c.JSON(fiber.Map{"success": true, "session": session})
}

// GetChatSessions lists the user's sessions, most recently active first.
func GetChatSessions(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var sessions []models.ChatSession
	if err := database.GetDB().Where("user_id = ?", userID).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch chat sessions"})
	}

	return c.JSON(fiber.Map{"success": true, "sessions": sessions})
}

// GetChatSession returns one session with its messages in order.
func GetChatSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := findSession(c.Params("id"), userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Chat session not found"})
	}

	var messages []models.ChatMessage
	if err := database.GetDB().Where("session_id = ?", session.ID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	session.Messages = messages

	return c.JSON(fiber.Map{"success": true, "session": session})
}

// DeleteChatSession removes a session and its messages.
func DeleteChatSession(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := findSession(c.Params("id"), userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Chat session not found"})
	}

	db := database.GetDB()
	if err := db.Where("session_id = ?", session.ID).Delete(&models.ChatMessage{}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete chat session"})
	}
	if err := db.Delete(&session).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete chat session"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Chat session deleted"})
}

// CreateChatMessage appends a user message to a session.
func CreateChatMessage(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := findSession(c.Params("id"), userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Chat session not found"})
	}

	var req ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Message content required"})
	}

	message := models.ChatMessage{
		SessionID:   session.ID,
		Content:     req.Content,
		Role:        models.RoleUser,
		MessageType: req.Type,
	}
	if len(req.Metadata) > 0 {
		message.Metadata = string(req.Metadata)
	}

	db := database.GetDB()
	if err := db.Create(&message).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store message"})
	}
	db.Model(&session).Update("updated_at", message.CreatedAt)

	return c.JSON(fiber.Map{"success": true, "message": message})
}

// GetChatMessages lists a session's messages in chronological order.
func GetChatMessages(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := findSession(c.Params("id"), userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Chat session not found"})
	}

	var messages []models.ChatMessage
	if err := database.GetDB().Where("session_id = ?", session.ID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	return c.JSON(fiber.Map{"success": true, "messages": messages})
}

// GenerateAIResponse builds the session context around one user message,
// calls the language model and stores the assistant reply.
func GenerateAIResponse(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := findSession(c.Params("id"), userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Chat session not found"})
	}

	var req AIResponseRequest
	if err := c.BodyParser(&req); err != nil || req.MessageID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Message id required"})
	}

	db := database.GetDB()
	var userMessage models.ChatMessage
	if err := db.Where("id = ? AND session_id = ?", req.MessageID, session.ID).First(&userMessage).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Message not found"})
	}

	var messages []models.ChatMessage
	if err := db.Where("session_id = ?", session.ID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	var metadata *services.MessageMetadata
	if userMessage.Metadata != "" {
		var parsed services.MessageMetadata
		if err := json.Unmarshal([]byte(userMessage.Metadata), &parsed); err == nil {
			metadata = &parsed
		}
	}

	context := services.BuildAIContext(messages, userMessage.MessageType, metadata)
	reply := services.NewAIClient().Complete(context)

	aiMessage := models.ChatMessage{
		SessionID: session.ID,
		Content:   reply,
		Role:      models.RoleAssistant,
	}
	if err := db.Create(&aiMessage).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store AI response"})
	}
	db.Model(&session).Update("updated_at", aiMessage.CreatedAt)

	return c.JSON(fiber.Map{"success": true, "message": aiMessage})
}

func findSession(id, userID string) (models.ChatSession, error) {
	var session models.ChatSession
	err := database.GetDB().Where("id = ? AND user_id = ?", id, userID).First(&session).Error
	return session, err
}
