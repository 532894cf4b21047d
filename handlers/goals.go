// handlers/goals.go
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

type GoalRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

// CreateGoal creates a goal and advances the "Goals Set" achievement.
func CreateGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" || req.Description == "" || req.DueDate.IsZero() {
		return c.Status(400).JSON(fiber.Map{"error": "Title, description and due date required"})
	}

	db := database.GetDB()
	goal := models.Goal{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		UserID:      userID,
	}

	if err := db.Create(&goal).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create goal"})
	}

	if err := services.CheckGoalCreated(db, userID); err != nil {
		log.Printf("failed to update goal achievement for %s: %v", userID, err)
	}

	return c.JSON(fiber.Map{"success": true, "goal": goal})
}

// GetGoals lists the user's goals, optionally filtered by status.
func GetGoals(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID).Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		if !models.GoalStatus(status).Valid() {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status"})
		}
		query = query.Where("status = ?", status)
	}

	var goals []models.Goal
	if err := query.Find(&goals).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch goals"})
	}

	return c.JSON(fiber.Map{"success": true, "goals": goals})
}

// GetGoal returns one goal by id.
func GetGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var goal models.Goal
	if err := database.GetDB().Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&goal).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
	}

	return c.JSON(fiber.Map{"success": true, "goal": goal})
}

// UpdateGoal replaces a goal's title, description and due date.
func UpdateGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" || req.Description == "" || req.DueDate.IsZero() {
		return c.Status(400).JSON(fiber.Map{"error": "Title, description and due date required"})
	}

	db := database.GetDB()
	var goal models.Goal
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&goal).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
	}

	goal.Title = req.Title
	goal.Description = req.Description
	goal.DueDate = req.DueDate

	if err := db.Save(&goal).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update goal"})
	}

	return c.JSON(fiber.Map{"success": true, "goal": goal})
}

// UpdateGoalProgress sets a goal's progress percentage and derives its status.
func UpdateGoalProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		Progress *int `json:"progress"`
	}
	if err := c.BodyParser(&req); err != nil || req.Progress == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Progress required"})
	}
	if *req.Progress < 0 || *req.Progress > 100 {
		return c.Status(400).JSON(fiber.Map{"error": "Progress must be between 0 and 100"})
	}

	db := database.GetDB()
	var goal models.Goal
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&goal).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
	}

	goal.Progress = *req.Progress
	switch {
	case goal.Progress >= 100:
		goal.Status = models.GoalCompleted
	case goal.Progress > 0:
		goal.Status = models.GoalInProgress
	default:
		goal.Status = models.GoalNotStarted
	}

	if err := db.Save(&goal).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update goal"})
	}

	return c.JSON(fiber.Map{"success": true, "goal": goal})
}

// UpdateGoalStatus sets a goal's status; COMPLETED forces progress to 100.
func UpdateGoalStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req struct {
		Status models.GoalStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || !req.Status.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "Valid status required"})
	}

	db := database.GetDB()
	var goal models.Goal
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&goal).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
	}

	goal.Status = req.Status
	if req.Status == models.GoalCompleted {
		goal.Progress = 100
	}

	if err := db.Save(&goal).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update goal"})
	}

	return c.JSON(fiber.Map{"success": true, "goal": goal})
}

// DeleteGoal removes a goal unless tasks still reference it.
func DeleteGoal(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var goal models.Goal
	if err := db.Where("id = ? AND user_id = ?", c.Params("id"), userID).First(&goal).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Goal not found"})
	}

	var taskCount int64
	if err := db.Model(&models.Task{}).Where("goal_id = ?", goal.ID).Count(&taskCount).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete goal"})
	}
	if taskCount > 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"message": "Cannot delete this goal because it has associated tasks.",
		})
	}

	if err := db.Delete(&goal).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete goal"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
