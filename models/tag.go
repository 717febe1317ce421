package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description,omitempty"`
	Timestamps

	slugs slugTracker
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) AfterFind(*gorm.DB) error {
	t.slugs.remember(t.Name)
	return nil
}

func (t *Tag) BeforeSave(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Name = strings.TrimSpace(t.Name)
	if err := Validate(t); err != nil {
		return err
	}
	t.slugs.refresh(&t.Slug, t.Name)
	return slugRequired("name", t.Slug)
}

type Newsletter struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Active       bool      `json:"active" gorm:"not null;default:true"`
	SubscribedAt time.Time `json:"subscribed_at" gorm:"autoCreateTime"`
}

func (Newsletter) TableName() string { return "newsletters" }

func (n *Newsletter) BeforeSave(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return Validate(n)
}
