package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BattingStats struct {
	Matches      int     `json:"matches"`
	Innings      int     `json:"innings"`
	Runs         int     `json:"runs"`
	NotOuts      int     `json:"not_outs"`
	HighestScore string  `json:"highest_score,omitempty"`
	Average      float64 `json:"average"`
	StrikeRate   float64 `json:"strike_rate"`
	Hundreds     int     `json:"hundreds"`
	Fifties      int     `json:"fifties"`
	Fours        int     `json:"fours"`
	Sixes        int     `json:"sixes"`
}

type BowlingStats struct {
	Matches     int     `json:"matches"`
	Innings     int     `json:"innings"`
	Balls       int     `json:"balls"`
	Runs        int     `json:"runs"`
	Wickets     int     `json:"wickets"`
	BestBowling string  `json:"best_bowling,omitempty"`
	Average     float64 `json:"average"`
	Economy     float64 `json:"economy"`
	StrikeRate  float64 `json:"strike_rate"`
	FiveWickets int     `json:"five_wickets"`
}

type ICCRanking struct {
	Format         string    `json:"format" validate:"required,enum=ranking_format"`
	BattingRank    int       `json:"batting_rank,omitempty"`
	BowlingRank    int       `json:"bowling_rank,omitempty"`
	AllRounderRank int       `json:"all_rounder_rank,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Player struct {
	ID               string                           `json:"id" gorm:"primaryKey"`
	Name             string                           `json:"name" gorm:"not null" validate:"required"`
	Slug             string                           `json:"slug" gorm:"uniqueIndex;not null"`
	ProfileImage     string                           `json:"profile_image,omitempty"`
	DateOfBirth      *time.Time                       `json:"date_of_birth,omitempty"`
	Nationality      string                           `json:"nationality,omitempty" gorm:"index"`
	Bio              string                           `json:"bio,omitempty" gorm:"type:text"`
	BattingStyle     string                           `json:"batting_style,omitempty"`
	BowlingStyle     string                           `json:"bowling_style,omitempty"`
	Role             string                           `json:"role,omitempty" gorm:"index" validate:"omitempty,enum=player_role"`
	TeamIDs          pq.StringArray                   `json:"team_ids" gorm:"column:teams;type:text[];not null;default:'{}'" validate:"dive,uuid"`
	TestStats        datatypes.JSONType[BattingStats] `json:"test_stats" gorm:"type:jsonb;not null;default:'{}'"`
	ODIStats         datatypes.JSONType[BattingStats] `json:"odi_stats" gorm:"column:odi_stats;type:jsonb;not null;default:'{}'"`
	T20IStats        datatypes.JSONType[BattingStats] `json:"t20i_stats" gorm:"column:t20i_stats;type:jsonb;not null;default:'{}'"`
	TestBowlingStats datatypes.JSONType[BowlingStats] `json:"test_bowling_stats" gorm:"type:jsonb;not null;default:'{}'"`
	ODIBowlingStats  datatypes.JSONType[BowlingStats] `json:"odi_bowling_stats" gorm:"column:odi_bowling_stats;type:jsonb;not null;default:'{}'"`
	T20IBowlingStats datatypes.JSONType[BowlingStats] `json:"t20i_bowling_stats" gorm:"column:t20i_bowling_stats;type:jsonb;not null;default:'{}'"`
	ICCRankings      datatypes.JSONSlice[ICCRanking]  `json:"icc_rankings" gorm:"column:icc_rankings;type:jsonb;not null;default:'[]'" validate:"dive"`
	SEO              SEO                              `json:"seo" gorm:"embedded;embeddedPrefix:seo_"`
	Timestamps

	Teams []TeamRef `json:"teams,omitempty" gorm:"-"`
	News  []NewsRef `json:"news,omitempty" gorm:"-"`

	slugs slugTracker
}

func (Player) TableName() string { return "players" }

func (p *Player) AfterFind(*gorm.DB) error {
	p.slugs.remember(p.Name)
	return nil
}

func (p *Player) BeforeSave(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.TeamIDs = normalizeRefs(p.TeamIDs)
	if p.ICCRankings == nil {
		p.ICCRankings = datatypes.JSONSlice[ICCRanking]{}
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate(p); err != nil {
		return err
	}
	p.slugs.refresh(&p.Slug, p.Name)
	return slugRequired("name", p.Slug)
}

// PlayerStats is the per-format view served to the stats dashboard.
type PlayerStats struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Role             string       `json:"role,omitempty"`
	TestStats        BattingStats `json:"test_stats"`
	ODIStats         BattingStats `json:"odi_stats"`
	T20IStats        BattingStats `json:"t20i_stats"`
	TestBowlingStats BowlingStats `json:"test_bowling_stats"`
	ODIBowlingStats  BowlingStats `json:"odi_bowling_stats"`
	T20IBowlingStats BowlingStats `json:"t20i_bowling_stats"`
	ICCRankings      []ICCRanking `json:"icc_rankings"`
}

func (p *Player) Stats() PlayerStats {
	rankings := []ICCRanking(p.ICCRankings)
	if rankings == nil {
		rankings = []ICCRanking{}
	}
	return PlayerStats{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Role:             p.Role,
		TestStats:        p.TestStats.Data(),
		ODIStats:         p.ODIStats.Data(),
		T20IStats:        p.T20IStats.Data(),
		TestBowlingStats: p.TestBowlingStats.Data(),
		ODIBowlingStats:  p.ODIBowlingStats.Data(),
		T20IBowlingStats: p.T20IBowlingStats.Data(),
		ICCRankings:      rankings,
	}
}
