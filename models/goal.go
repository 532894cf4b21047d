// models/goal.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "NOT_STARTED"
	GoalInProgress GoalStatus = "IN_PROGRESS"
	GoalCompleted  GoalStatus = "COMPLETED"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalNotStarted, GoalInProgress, GoalCompleted:
		return true
	}
	return false
}

type Goal struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	Status      GoalStatus `gorm:"not null;default:NOT_STARTED" json:"status"`
	UserID      string     `gorm:"not null;index" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = GoalNotStarted
	}
	return nil
}
