package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRanking struct {
	Test int        `json:"test,omitempty"`
	ODI  int        `json:"odi,omitempty" gorm:"column:odi"`
	T20I int        `json:"t20i,omitempty" gorm:"column:t20i"`
	AsOf *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// Team players and news are back-references resolved at read time.
type Team struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	Name        string      `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Slug        string      `json:"slug" gorm:"uniqueIndex;not null"`
	ShortName   string      `json:"short_name" gorm:"not null" validate:"required"`
	Logo        string      `json:"logo,omitempty"`
	TeamColor   string      `json:"team_color,omitempty"`
	Country     string      `json:"country,omitempty" gorm:"index"`
	TeamType    string      `json:"team_type" gorm:"index;not null" validate:"required,enum=team_type"`
	CaptainID   *string     `json:"captain_id" validate:"omitempty,uuid"`
	Coach       string      `json:"coach,omitempty"`
	Ranking     TeamRanking `json:"ranking" gorm:"embedded;embeddedPrefix:ranking_"`
	Description string      `json:"description,omitempty" gorm:"type:text"`
	SEO         SEO         `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	Timestamps

	Captain *PlayerRef  `json:"captain,omitempty" gorm:"-"`
	Players []PlayerRef `json:"players,omitempty" gorm:"-"`
	News    []NewsRef   `json:"news,omitempty" gorm:"-"`

	slugs slugTracker
}

func (Team) TableName() string { return "teams" }

func (t *Team) AfterFind(*gorm.DB) error {
	t.slugs.remember(t.Name)
	return nil
}

func (t *Team) BeforeSave(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	blankToNil(&t.CaptainID)
	t.Name = strings.TrimSpace(t.Name)
	if err := Validate(t); err != nil {
		return err
	}
	t.slugs.refresh(&t.Slug, t.Name)
	return slugRequired("name", t.Slug)
}
