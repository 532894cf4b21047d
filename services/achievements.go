// services/achievements.go - Achievement catalog, seeding and progress engine
package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"skillup/models"
)

// AchievementDef is one immutable catalog entry.
type AchievementDef struct {
	Key          models.AchievementKey
	Title        string
	Description  string
	Icon         string
	Total        int
	AutoUnlocked bool
}

// achievementCatalog is process-wide configuration, not user data. Changing
// it does not retroactively affect rows already seeded for existing users.
var achievementCatalog = []AchievementDef{
	{Key: models.KeyFirstStep, Title: "First Step", Description: "You started your learning journey", Icon: "trophy", Total: 1, AutoUnlocked: true},
	{Key: models.KeyGoalsSet, Title: "Goals Set", Description: "Set your first learning goal", Icon: "target", Total: 1},
	{Key: models.KeyTasksCompleted, Title: "Tasks Completed", Description: "Complete 5 tasks", Icon: "check", Total: 5},
	{Key: models.KeyNotesTaken, Title: "Notes Taken", Description: "Create 10 notes", Icon: "book", Total: 10},
	{Key: models.KeyConsistentLearning, Title: "Consistent Learning", Description: "Log in 7 days in a row", Icon: "calendar", Total: 7},
}

// AchievementCatalog returns a copy of the catalog.
func AchievementCatalog() []AchievementDef {
	out := make([]AchievementDef, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// DefinitionByKey looks up a catalog entry by its stable key.
func DefinitionByKey(key models.AchievementKey) (AchievementDef, bool) {
	for _, def := range achievementCatalog {
		if def.Key == key {
			return def, true
		}
	}
	return AchievementDef{}, false
}

// InitializeAchievements seeds one achievement row per catalog entry for a
// newly registered user. A user that already has any row is left alone, so
// calling this twice is a no-op.
func InitializeAchievements(db *gorm.DB, userID string) error {
	var existing int64
	if err := db.Model(&models.Achievement{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	now := time.Now().UTC()
	records := make([]models.Achievement, 0, len(achievementCatalog))
	for _, def := range achievementCatalog {
		record := models.Achievement{
			UserID:      userID,
			Key:         def.Key,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Total:       def.Total,
		}
		if def.AutoUnlocked {
			unlockedAt := now
			record.Unlocked = true
			record.UnlockedDate = &unlockedAt
			record.Progress = def.Total
		}
		records = append(records, record)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

// IncrementProgress advances one achievement by amount, clamped to its total,
// and unlocks it when the total is reached. A missing row or an already
// unlocked row is a silent no-op: an increment for an achievement the user
// does not have is expected and benign.
//
// Both statements carry the unlocked = false guard so concurrent increments
// for the same user cannot lose an update or unlock twice.
func IncrementProgress(db *gorm.DB, userID string, key models.AchievementKey, amount int) error {
	if amount <= 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&models.Achievement{}).
			Where("user_id = ? AND key = ? AND unlocked = ?", userID, key, false).
			Updates(map[string]interface{}{
				"progress":   gorm.Expr("CASE WHEN progress + ? >= total THEN total ELSE progress + ? END", amount, amount),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Achievement{}).
			Where("user_id = ? AND key = ? AND unlocked = ? AND progress >= total", userID, key, false).
			Updates(map[string]interface{}{
				"unlocked":      true,
				"unlocked_date": now,
				"updated_at":    now,
			}).Error
	})
}

// CheckGoalCreated advances "Goals Set" when a user creates a goal.
func CheckGoalCreated(db *gorm.DB, userID string) error {
	return IncrementProgress(db, userID, models.KeyGoalsSet, 1)
}

// CheckTaskCompleted advances "Tasks Completed" when a task reaches COMPLETED.
func CheckTaskCompleted(db *gorm.DB, userID string) error {
	return IncrementProgress(db, userID, models.KeyTasksCompleted, 1)
}

// CheckNoteCreated advances "Notes Taken" when a user creates a note.
func CheckNoteCreated(db *gorm.DB, userID string) error {
	return IncrementProgress(db, userID, models.KeyNotesTaken, 1)
}

// CheckUserLogin advances "Consistent Learning" on login. Logins are counted
// whether or not they fall on consecutive days; see models.LoginEvent.
func CheckUserLogin(db *gorm.DB, userID string) error {
	return IncrementProgress(db, userID, models.KeyConsistentLearning, 1)
}

type countFunc func(tx *gorm.DB, userID string) (int64, error)

// progressCounters maps each recomputable achievement to its ground-truth
// count. first_step is unlocked at registration and consistent_learning has
// no authoritative source, so refresh leaves their progress untouched.
var progressCounters = map[models.AchievementKey]countFunc{
	models.KeyGoalsSet:       countGoals,
	models.KeyTasksCompleted: countCompletedTasks,
	models.KeyNotesTaken:     countNotes,
}

// RefreshAchievements recomputes every locked achievement from authoritative
// counts, overwriting the incremental counter. Where the incremental and
// recomputed values disagree, the recomputed value wins.
func RefreshAchievements(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var records []models.Achievement
		if err := tx.Where("user_id = ? AND unlocked = ?", userID, false).Find(&records).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		for i := range records {
			record := &records[i]

			if counter, ok := progressCounters[record.Key]; ok {
				count, err := counter(tx, userID)
				if err != nil {
					return err
				}
				progress := int(count)
				if progress > record.Total {
					progress = record.Total
				}
				record.Progress = progress
			}

			if record.Progress >= record.Total {
				record.Unlocked = true
				unlockedAt := now
				record.UnlockedDate = &unlockedAt
			}

			if err := tx.Save(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func countGoals(tx *gorm.DB, userID string) (int64, error) {
	var count int64
	err := tx.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func countCompletedTasks(tx *gorm.DB, userID string) (int64, error) {
	var count int64
	err := tx.Model(&models.Task{}).Where("user_id = ? AND status = ?", userID, models.TaskCompleted).Count(&count).Error
	return count, err
}

func countNotes(tx *gorm.DB, userID string) (int64, error) {
	var count int64
	err := tx.Model(&models.Note{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListAchievements returns all achievement rows belonging to a user.
func ListAchievements(db *gorm.DB, userID string) ([]models.Achievement, error) {
	var records []models.Achievement
	err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&records).Error
	return records, err
}

// GetAchievement returns one achievement by id, scoped to the owner in the
// same query so a foreign id is indistinguishable from a missing one.
func GetAchievement(db *gorm.DB, userID, id string) (models.Achievement, error) {
	var record models.Achievement
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&record).Error
	return record, err
}

// IsAchievementUnlocked reports whether the user's achievement is unlocked.
// A missing row reads as locked.
func IsAchievementUnlocked(db *gorm.DB, userID string, key models.AchievementKey) (bool, error) {
	var record models.Achievement
	err := db.Select("unlocked").Where("user_id = ? AND key = ?", userID, key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return record.Unlocked, nil
}

// GetAchievementProgress returns the user's progress for one achievement,
// defaulting to 0 when no row exists.
func GetAchievementProgress(db *gorm.DB, userID string, key models.AchievementKey) (int, error) {
	var record models.Achievement
	err := db.Select("progress").Where("user_id = ? AND key = ?", userID, key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Progress, nil
}
