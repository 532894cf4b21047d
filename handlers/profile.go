// handlers/profile.go
package handlers

import (
	"fmt"
	"os"
	"time"

	"skillup/database"
	"skillup/middleware"
	"skillup/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type ProfileRequest struct {
	FullName   *string `json:"full_name"`
	Bio        *string `json:"bio"`
	Location   *string `json:"location"`
	Occupation *string `json:"occupation"`
	AvatarURL  *string `json:"avatar_url"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// GetProfile returns the current user's profile.
func GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var profile models.UserProfile
	if err := database.GetDB().Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Profile not found"})
	}

	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

// UpdateProfile applies a partial update; absent fields are left untouched.
func UpdateProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()
	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		profile = models.UserProfile{UserID: userID}
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.Occupation != nil {
		profile.Occupation = *req.Occupation
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}

	if err := db.Save(&profile).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

// GetProfileStats computes real aggregate counts for the profile page.
func GetProfileStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var totalGoals, completedGoals, inProgressGoals int64
	db.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&totalGoals)
	db.Model(&models.Goal{}).Where("user_id = ? AND status = ?", userID, models.GoalCompleted).Count(&completedGoals)
	db.Model(&models.Goal{}).Where("user_id = ? AND status = ?", userID, models.GoalInProgress).Count(&inProgressGoals)

	now := time.Now()
	var totalTasks, completedTasks, inProgressTasks, overdueTasks int64
	db.Model(&models.Task{}).Where("user_id = ?", userID).Count(&totalTasks)
	db.Model(&models.Task{}).Where("user_id = ? AND status = ?", userID, models.TaskCompleted).Count(&completedTasks)
	db.Model(&models.Task{}).Where("user_id = ? AND status = ?", userID, models.TaskInProgress).Count(&inProgressTasks)
	db.Model(&models.Task{}).Where("user_id = ? AND status != ? AND due_date < ?", userID, models.TaskCompleted, now).Count(&overdueTasks)

	var totalNotes int64
	db.Model(&models.Note{}).Where("user_id = ?", userID).Count(&totalNotes)

	joinedDays := int(now.Sub(user.CreatedAt).Hours() / 24)

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"total_goals":       totalGoals,
			"completed_goals":   completedGoals,
			"in_progress_goals": inProgressGoals,
			"total_tasks":       totalTasks,
			"completed_tasks":   completedTasks,
			"in_progress_tasks": inProgressTasks,
			"overdue_tasks":     overdueTasks,
			"total_notes":       totalNotes,
			"joined_days":       joinedDays,
			"last_updated":      now,
		},
	})
}

// UploadAvatar stores an uploaded avatar under uploads/avatars and records
// its URL on the profile.
func UploadAvatar(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Profile not found"})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Avatar file required"})
	}

	uploadDir := "uploads/avatars"
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store avatar"})
	}

	fileName := fmt.Sprintf("%s_%d_%s", userID, time.Now().UnixMilli(), file.Filename)
	if err := c.SaveFile(file, uploadDir+"/"+fileName); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store avatar"})
	}

	profile.AvatarURL = "/" + uploadDir + "/" + fileName
	if err := db.Save(&profile).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"success": true, "avatar_url": profile.AvatarURL})
}

// ChangePassword verifies the current password before storing a new hash.
func ChangePassword(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Current and new password required"})
	}
	if len(req.NewPassword) < 6 {
		return c.Status(400).JSON(fiber.Map{"error": "Password must be at least 6 characters"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Current password is incorrect"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to change password"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password changed successfully"})
}
