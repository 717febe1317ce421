package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InningsScore struct {
	Runs     int     `json:"runs"`
	Wickets  int     `json:"wickets"`
	Overs    float64 `json:"overs"`
	Declared bool    `json:"declared"`
}

type Highlight struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}

// Match status is driven by editors; no transition order is enforced.
type Match struct {
	ID              string                            `json:"id" gorm:"primaryKey"`
	Title           string                            `json:"title" gorm:"not null" validate:"required"`
	TournamentID    string                            `json:"tournament_id" gorm:"index;not null" validate:"required,uuid"`
	Team1ID         string                            `json:"team1_id" gorm:"column:team1_id;index;not null" validate:"required,uuid"`
	Team2ID         string                            `json:"team2_id" gorm:"column:team2_id;index;not null" validate:"required,uuid"`
	MatchDate       time.Time                         `json:"match_date" gorm:"index;not null" validate:"required"`
	VenueID         string                            `json:"venue_id" gorm:"index;not null" validate:"required,uuid"`
	Status          string                            `json:"status" gorm:"index;not null;default:'upcoming'" validate:"required,enum=match_status"`
	Format          string                            `json:"format" gorm:"index;not null" validate:"required,enum=match_format"`
	Team1Score      datatypes.JSONSlice[InningsScore] `json:"team1_score" gorm:"column:team1_score;type:jsonb;not null;default:'[]'"`
	Team2Score      datatypes.JSONSlice[InningsScore] `json:"team2_score" gorm:"column:team2_score;type:jsonb;not null;default:'[]'"`
	TossWinnerID    *string                           `json:"toss_winner_id" validate:"omitempty,uuid"`
	TossDecision    string                            `json:"toss_decision,omitempty" validate:"omitempty,enum=toss_decision"`
	Result          string                            `json:"result,omitempty"`
	MatchNotes      string                            `json:"match_notes,omitempty" gorm:"type:text"`
	PlayerOfMatchID *string                           `json:"player_of_match_id" validate:"omitempty,uuid"`
	Highlights      datatypes.JSONSlice[Highlight]    `json:"highlights" gorm:"type:jsonb;not null;default:'[]'"`
	SEO             SEO                               `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	Timestamps

	Tournament    *TournamentRef `json:"tournament,omitempty" gorm:"-"`
	Team1         *TeamRef       `json:"team1,omitempty" gorm:"-"`
	Team2         *TeamRef       `json:"team2,omitempty" gorm:"-"`
	Venue         *VenueRef      `json:"venue,omitempty" gorm:"-"`
	TossWinner    *TeamRef       `json:"toss_winner,omitempty" gorm:"-"`
	PlayerOfMatch *PlayerRef     `json:"player_of_match,omitempty" gorm:"-"`
	News          []NewsRef      `json:"news,omitempty" gorm:"-"`
}

func (Match) TableName() string { return "matches" }

func (m *Match) BeforeSave(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = MatchStatusUpcoming
	}
	if m.Team1Score == nil {
		m.Team1Score = datatypes.JSONSlice[InningsScore]{}
	}
	if m.Team2Score == nil {
		m.Team2Score = datatypes.JSONSlice[InningsScore]{}
	}
	if m.Highlights == nil {
		m.Highlights = datatypes.JSONSlice[Highlight]{}
	}
	blankToNil(&m.TossWinnerID)
	blankToNil(&m.PlayerOfMatchID)
	return Validate(m)
}

// blankToNil turns an optional reference sent as "" into NULL.
func blankToNil(ref **string) {
	if *ref != nil && **ref == "" {
		*ref = nil
	}
}
