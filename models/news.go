package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// News is a published article. List references are text[] columns holding ids.
type News struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Slug          string         `json:"slug" gorm:"uniqueIndex;not null"`
	CoverImage    string         `json:"cover_image" validate:"required"`
	Excerpt       string         `json:"excerpt" gorm:"size:500" validate:"required,max=500"`
	Content       string         `json:"content" gorm:"type:text" validate:"required"`
	Category      string         `json:"category" gorm:"index;not null" validate:"required,enum=news_category"`
	Featured      bool           `json:"featured" gorm:"index;default:false"`
	AuthorID      string         `json:"author_id" gorm:"index;not null" validate:"required,uuid"`
	TeamIDs       pq.StringArray `json:"team_ids" gorm:"column:teams;type:text[];not null;default:'{}'" validate:"dive,uuid"`
	PlayerIDs     pq.StringArray `json:"player_ids" gorm:"column:players;type:text[];not null;default:'{}'" validate:"dive,uuid"`
	MatchIDs      pq.StringArray `json:"match_ids" gorm:"column:matches;type:text[];not null;default:'{}'" validate:"dive,uuid"`
	TournamentIDs pq.StringArray `json:"tournament_ids" gorm:"column:tournaments;type:text[];not null;default:'{}'" validate:"dive,uuid"`
	TagIDs        pq.StringArray `json:"tag_ids" gorm:"column:tags;type:text[];not null;default:'{}'" validate:"dive,uuid"`
	SEO           SEO            `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	PublishedAt   *time.Time     `json:"published_at" gorm:"index"`
	Timestamps

	Author      *UserRef        `json:"author,omitempty" gorm:"-"`
	Teams       []TeamRef       `json:"teams,omitempty" gorm:"-"`
	Players     []PlayerRef     `json:"players,omitempty" gorm:"-"`
	Matches     []MatchRef      `json:"matches,omitempty" gorm:"-"`
	Tournaments []TournamentRef `json:"tournaments,omitempty" gorm:"-"`
	Tags        []TagRef        `json:"tags,omitempty" gorm:"-"`

	slugs slugTracker
}

func (News) TableName() string { return "news" }

func (n *News) AfterFind(*gorm.DB) error {
	n.slugs.remember(n.Title)
	return nil
}

func (n *News) BeforeSave(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.TeamIDs = normalizeRefs(n.TeamIDs)
	n.PlayerIDs = normalizeRefs(n.PlayerIDs)
	n.MatchIDs = normalizeRefs(n.MatchIDs)
	n.TournamentIDs = normalizeRefs(n.TournamentIDs)
	n.TagIDs = normalizeRefs(n.TagIDs)
	n.Title = strings.TrimSpace(n.Title)
	if err := Validate(n); err != nil {
		return err
	}
	n.slugs.refresh(&n.Slug, n.Title)
	return slugRequired("title", n.Slug)
}
