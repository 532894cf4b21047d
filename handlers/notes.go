// handlers/notes.go
package handlers

import (
	"log"

	"skillup/database"
	"skillup/middleware"
	"skillup/models"
	"skillup/services"

	"github.com/gofiber/fiber/v2"
)

type NoteRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	GoalID  *string `json:"goal_id"`
	TaskID  *string `json:"task_id"`
}

// CreateNote creates a note and advances the "Notes Taken" achievement.
func CreateNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" || req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title and content required"})
	}

	db := database.GetDB()
	note := models.Note{
		Title:   req.Title,
		Content: req.Content,
		UserID:  userID,
	}

	if req.GoalID != nil {
		var goal models.Goal
		if err := db.Where("id = ? AND user_id = ?", *req.GoalID, userID).First(&goal).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
		}
		note.GoalID = req.GoalID
	}
	if req.TaskID != nil {
		var task models.Task
		if err := db.Where("id = ? AND user_id = ?", *req.TaskID, userID).First(&task).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}
		note.TaskID = req.TaskID
	}

	if err := db.Create(&note).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create note"})
	}

	if err := services.CheckNoteCreated(db, userID); err != nil {
		log.Printf("failed to update note achievement for %s: %v", userID, err)
	}

	return c.JSON(fiber.Map{"success": true, "note": note})
}

// GetNotes lists the user's notes with optional goal/task filters.
func GetNotes(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID).Order("created_at DESC")

	if goalID := c.Query("goal_id"); goalID != "" {
		var goal models.Goal
		if err := db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
		}
		query = query.Where("goal_id = ?", goalID)
	}
	if taskID := c.Query("task_id"); taskID != "" {
		var task models.Task
		if err := db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}
		query = query.Where("task_id = ?", taskID)
	}

	var notes []models.Note
	if err := query.Find(&notes).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notes"})
	}

	return c.JSON(fiber.Map{"success": true, "notes": notes})
}

// GetNote returns one note by id.
func GetNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var note models.Note
	if err := database.GetDB().Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&note).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Note not found"})
	}

	return c.JSON(fiber.Map{"success": true, "note": note})
}

// UpdateNote replaces a note's content and links.
func UpdateNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" || req.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title and content required"})
	}

	db := database.GetDB()
	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&note).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Note not found"})
	}

	note.Title = req.Title
	note.Content = req.Content

	if req.GoalID != nil {
		var goal models.Goal
		if err := db.Where("id = ? AND user_id = ?", *req.GoalID, userID).First(&goal).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
		}
		note.GoalID = req.GoalID
	} else {
		note.GoalID = nil
	}
	if req.TaskID != nil {
		var task models.Task
		if err := db.Where("id = ? AND user_id = ?", *req.TaskID, userID).First(&task).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
		}
		note.TaskID = req.TaskID
	} else {
		note.TaskID = nil
	}

	if err := db.Save(&note).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update note"})
	}

	return c.JSON(fiber.Map{"success": true, "note": note})
}

// DeleteNote removes a note.
func DeleteNote(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&note).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Note not found"})
	}

	if err := db.Delete(&note).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete note"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
