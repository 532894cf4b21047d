// models/task.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"not null" json:"description"`
	DueDate     time.Time    `gorm:"not null" json:"due_date"`
	Status      TaskStatus   `gorm:"not null;default:TODO" json:"status"`
	Priority    TaskPriority `gorm:"not null;default:MEDIUM" json:"priority"`
	UserID      string       `gorm:"not null;index" json:"user_id"`
	GoalID      *string      `gorm:"index" json:"goal_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User  `gorm:"foreignKey:UserID" json:"-"`
	Goal *Goal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TaskTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}
