// models/achievement.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AchievementKey is the stable identifier linking a stored achievement row to
// its catalog definition. Titles are display-only denormalized copies; lookups
// and dispatch never compare title strings.
type AchievementKey string

const (
	KeyFirstStep          AchievementKey = "first_step"
	KeyGoalsSet           AchievementKey = "goals_set"
	KeyTasksCompleted     AchievementKey = "tasks_completed"
	KeyNotesTaken         AchievementKey = "notes_taken"
	KeyConsistentLearning AchievementKey = "consistent_learning"
)

// Achievement is one user's progress toward one catalog definition.
// Invariants: 0 <= Progress <= Total; Unlocked is one-way; UnlockedDate is
// non-nil exactly when Unlocked is true.
type Achievement struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	UserID      string         `gorm:"not null;index;uniqueIndex:idx_user_achievement_key" json:"user_id"`
	Key         AchievementKey `gorm:"not null;uniqueIndex:idx_user_achievement_key" json:"key"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"size:500" json:"description"`
	Icon        string         `gorm:"size:200" json:"icon"`

	Unlocked     bool       `gorm:"not null;default:false" json:"unlocked"`
	UnlockedDate *time.Time `json:"unlocked_date,omitempty"`
	Progress     int        `gorm:"not null;default:0" json:"progress"`
	Total        int        `gorm:"not null" json:"total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
