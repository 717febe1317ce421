package services

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cricanalyzer/models"
	"cricanalyzer/query"
)

const defaultMatchLimit = 10

var matchSchema = query.Schema{
	Fields: map[string]query.Field{
		"title":              {Column: "title", Kind: query.String},
		"tournament_id":      {Column: "tournament_id", Kind: query.Ref},
		"team1_id":           {Column: "team1_id", Kind: query.Ref},
		"team2_id":           {Column: "team2_id", Kind: query.Ref},
		"venue_id":           {Column: "venue_id", Kind: query.Ref},
		"match_date":         {Column: "match_date", Kind: query.Time},
		"status":             {Column: "status", Kind: query.Enum, Enum: "match_status"},
		"format":             {Column: "format", Kind: query.Enum, Enum: "match_format"},
		"toss_winner_id":     {Column: "toss_winner_id", Kind: query.Ref},
		"toss_decision":      {Column: "toss_decision", Kind: query.Enum, Enum: "toss_decision"},
		"player_of_match_id": {Column: "player_of_match_id", Kind: query.Ref},
		"result":             {Column: "result", Kind: query.String},
		"created_at":         {Column: "created_at", Kind: query.Time},
		"updated_at":         {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"-match_date"},
}

type MatchService struct {
	resource[models.Match]
}

func NewMatchService(deps Deps) *MatchService {
	return &MatchService{resource[models.Match]{
		Deps:         deps,
		entity:       "match",
		label:        "Match",
		schema:       matchSchema,
		defaultLimit: defaultMatchLimit,
		populate:     deps.Populate.Matches,
		key:          func(m *models.Match) (string, string) { return m.ID, "" },
	}}
}

func (s *MatchService) GetMatches(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

// byStatus lists matches in one status; sortBy applies unless the caller
// sent its own sort.
func (s *MatchService) byStatus(c *fiber.Ctx, status string, sortBy string, extra ...func(*gorm.DB) *gorm.DB) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	if len(p.Sort) == 0 {
		p.Sort = []string{sortBy}
	}
	scopes := append([]func(*gorm.DB) *gorm.DB{func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}}, extra...)
	return s.list(c, p, scopes...)
}

func (s *MatchService) GetLiveMatches(c *fiber.Ctx) error {
	return s.byStatus(c, models.MatchStatusLive, "match_date")
}

// GetUpcomingMatches lists fixtures that have not started, soonest first.
func (s *MatchService) GetUpcomingMatches(c *fiber.Ctx) error {
	return s.byStatus(c, models.MatchStatusUpcoming, "match_date", func(db *gorm.DB) *gorm.DB {
		return db.Where("match_date >= ?", time.Now())
	})
}

func (s *MatchService) GetRecentMatches(c *fiber.Ctx) error {
	return s.byStatus(c, models.MatchStatusCompleted, "-match_date")
}

func (s *MatchService) GetMatch(c *fiber.Ctx) error {
	return s.getByID(c)
}

func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	return s.create(c, nil)
}

func (s *MatchService) UpdateMatch(c *fiber.Ctx) error {
	return s.update(c)
}

func (s *MatchService) DeleteMatch(c *fiber.Ctx) error {
	return s.remove(c)
}
