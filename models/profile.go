// models/profile.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserProfile struct {
	ID         string `gorm:"primaryKey" json:"id"`
	UserID     string `gorm:"not null;uniqueIndex" json:"user_id"`
	FullName   string `gorm:"size:100" json:"full_name"`
	Bio        string `gorm:"size:500" json:"bio"`
	Location   string `gorm:"size:100" json:"location"`
	Occupation string `gorm:"size:100" json:"occupation"`
	AvatarURL  string `gorm:"size:200" json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
