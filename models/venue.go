package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VenueDimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
}

// VenueRecord is a notable feat at the ground, optionally credited to a player.
type VenueRecord struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	PlayerID    string     `json:"player_id,omitempty" validate:"omitempty,uuid"`
	Player      *PlayerRef `json:"player,omitempty"`
}

type Venue struct {
	ID          string                           `json:"id" gorm:"primaryKey"`
	Name        string                           `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Slug        string                           `json:"slug" gorm:"uniqueIndex;not null"`
	City        string                           `json:"city" gorm:"index;not null" validate:"required"`
	Country     string                           `json:"country" gorm:"index;not null" validate:"required"`
	Capacity    int                              `json:"capacity,omitempty" validate:"gte=0"`
	Description string                           `json:"description,omitempty" gorm:"type:text"`
	Image       string                           `json:"image,omitempty"`
	Established int                              `json:"established,omitempty"`
	PitchType   string                           `json:"pitch_type,omitempty"`
	Dimensions  VenueDimensions                  `json:"dimensions" gorm:"embedded;embeddedPrefix:dimensions_"`
	Records     datatypes.JSONSlice[VenueRecord] `json:"records" gorm:"type:jsonb;not null;default:'[]'" validate:"dive"`
	SEO         SEO                              `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	Timestamps

	Matches []MatchRef `json:"matches,omitempty" gorm:"-"`

	slugs slugTracker
}

func (Venue) TableName() string { return "venues" }

func (v *Venue) AfterFind(*gorm.DB) error {
	v.slugs.remember(v.Name)
	return nil
}

func (v *Venue) BeforeSave(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Records == nil {
		v.Records = datatypes.JSONSlice[VenueRecord]{}
	}
	// Populated players are a read-time view only.
	for i := range v.Records {
		v.Records[i].Player = nil
	}
	v.Name = strings.TrimSpace(v.Name)
	if err := Validate(v); err != nil {
		return err
	}
	v.slugs.refresh(&v.Slug, v.Name)
	return slugRequired("name", v.Slug)
}
