// models/note.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	ID      string  `gorm:"primaryKey" json:"id"`
	Title   string  `gorm:"not null" json:"title"`
	Content string  `gorm:"not null;type:text" json:"content"`
	UserID  string  `gorm:"not null;index" json:"user_id"`
	GoalID  *string `gorm:"index" json:"goal_id,omitempty"`
	TaskID  *string `gorm:"index" json:"task_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User  `gorm:"foreignKey:UserID" json:"-"`
	Goal *Goal `gorm:"foreignKey:GoalID" json:"-"`
	Task *Task `gorm:"foreignKey:TaskID" json:"-"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
