// handlers/achievements.go
package handlers

import (
	"errors"
	"time"

	"skillup/database"
	"skillup/middleware"
	"skillup/models"
	"skillup/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AchievementResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedDate *time.Time `json:"unlocked_date,omitempty"`
	Progress     int        `json:"progress"`
	Total        int        `json:"total"`
}

func toAchievementResponse(a models.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Icon:         a.Icon,
		Unlocked:     a.Unlocked,
		UnlockedDate: a.UnlockedDate,
		Progress:     a.Progress,
		Total:        a.Total,
	}
}

// GetAchievements lists all achievements for the current user.
func GetAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	records, err := services.ListAchievements(database.GetDB(), userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	achievements := make([]AchievementResponse, 0, len(records))
	for _, record := range records {
		achievements = append(achievements, toAchievementResponse(record))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievements,
	})
}

// GetAchievement returns one achievement by id. A foreign user's id yields
// the same 404 as a nonexistent one.
func GetAchievement(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	record, err := services.GetAchievement(database.GetDB(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievement"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"achievement": toAchievementResponse(record),
	})
}

// RefreshAchievements recomputes locked achievements from real goal, task and
// note counts, then returns the updated list.
func RefreshAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	if err := services.RefreshAchievements(db, userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to refresh achievements"})
	}

	records, err := services.ListAchievements(db, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	achievements := make([]AchievementResponse, 0, len(records))
	for _, record := range records {
		achievements = append(achievements, toAchievementResponse(record))
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievements,
	})
}
