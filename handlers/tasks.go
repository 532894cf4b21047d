// handlers/tasks.go
package handlers

import (
	"log"
	"time"

	"skillup/database"
	"skillup/middleware"
	"skillup/models"
	"skillup/services"

	"github.com/gofiber/fiber/v2"
)

type TaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     time.Time           `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	GoalID      *string             `json:"goal_id"`
}

// CreateTask creates a task, optionally linked to one of the user's goals.
func CreateTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" || req.Description == "" || req.DueDate.IsZero() {
		return c.Status(400).JSON(fiber.Map{"error": "Title, description and due date required"})
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid priority"})
	}

	db := database.GetDB()
	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		UserID:      userID,
	}

	if req.GoalID != nil {
		var goal models.Goal
		if err := db.Where("id = ? AND user_id = ?", *req.GoalID, userID).First(&goal).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
		}
		task.GoalID = req.GoalID
	}

	if err := db.Create(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create task"})
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// GetTasks lists the user's tasks with optional status/priority/goal filters.
func GetTasks(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID).Order("due_date ASC")

	if status := c.Query("status"); status != "" {
		if !models.TaskStatus(status).Valid() {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status"})
		}
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		if !models.TaskPriority(priority).Valid() {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid priority"})
		}
		query = query.Where("priority = ?", priority)
	}
	if goalID := c.Query("goal_id"); goalID != "" {
		var goal models.Goal
		if err := db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
		}
		query = query.Where("goal_id = ?", goalID)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}

	return c.JSON(fiber.Map{"success": true, "tasks": tasks})
}

// GetTask returns one task by id.
func GetTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var task models.Task
	if err := database.GetDB().Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// UpdateTask replaces a task's fields and goal link.
func UpdateTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" || req.Description == "" || req.DueDate.IsZero() {
		return c.Status(400).JSON(fiber.Map{"error": "Title, description and due date required"})
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid priority"})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = req.DueDate
	if req.Priority != "" {
		task.Priority = req.Priority
	}

	if req.GoalID != nil {
		var goal models.Goal
		if err := db.Where("id = ? AND user_id = ?", *req.GoalID, userID).First(&goal).Error; err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
		}
		task.GoalID = req.GoalID
	} else {
		task.GoalID = nil
	}

	if err := db.Save(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update task"})
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// UpdateTaskStatus sets a task's status. The transition to COMPLETED advances
// the "Tasks Completed" achievement.
func UpdateTaskStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || !req.Status.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "Valid status required"})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	wasCompleted := task.Status == models.TaskCompleted
	task.Status = req.Status

	if err := db.Save(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update task"})
	}

	if req.Status == models.TaskCompleted && !wasCompleted {
		if err := services.CheckTaskCompleted(db, userID); err != nil {
			log.Printf("failed to update task achievement for %s: %v", userID, err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// DeleteTask removes a task.
func DeleteTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	if err := db.Delete(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete task"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
