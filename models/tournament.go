package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Tournament struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null"`
	Logo        string         `json:"logo,omitempty"`
	StartDate   *time.Time     `json:"start_date,omitempty" gorm:"index"`
	EndDate     *time.Time     `json:"end_date,omitempty"`
	Location    string         `json:"location,omitempty"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Format      string         `json:"format,omitempty" gorm:"index" validate:"omitempty,enum=tournament_format"`
	TeamIDs     pq.StringArray `json:"team_ids" gorm:"column:teams;type:text[];not null;default:'{}'" validate:"dive,uuid"`
	Status      string         `json:"status" gorm:"index;not null;default:'upcoming'" validate:"required,enum=tournament_status"`
	WinnerID    *string        `json:"winner_id" validate:"omitempty,uuid"`
	SEO         SEO            `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	Timestamps

	Teams   []TeamRef  `json:"teams,omitempty" gorm:"-"`
	Winner  *TeamRef   `json:"winner,omitempty" gorm:"-"`
	Matches []MatchRef `json:"matches,omitempty" gorm:"-"`

	slugs slugTracker
}

func (Tournament) TableName() string { return "tournaments" }

func (t *Tournament) AfterFind(*gorm.DB) error {
	t.slugs.remember(t.Name)
	return nil
}

func (t *Tournament) BeforeSave(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TournamentStatusUpcoming
	}
	t.TeamIDs = normalizeRefs(t.TeamIDs)
	blankToNil(&t.WinnerID)
	t.Name = strings.TrimSpace(t.Name)
	if err := Validate(t); err != nil {
		return err
	}
	t.slugs.refresh(&t.Slug, t.Name)
	return slugRequired("name", t.Slug)
}
