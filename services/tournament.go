package services

import (
	"github.com/gofiber/fiber/v2"

	"cricanalyzer/models"
	"cricanalyzer/query"
)

const defaultTournamentLimit = 10

var tournamentSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":       {Column: "name", Kind: query.String},
		"location":   {Column: "location", Kind: query.String},
		"format":     {Column: "format", Kind: query.Enum, Enum: "tournament_format"},
		"status":     {Column: "status", Kind: query.Enum, Enum: "tournament_status"},
		"start_date": {Column: "start_date", Kind: query.Time},
		"end_date":   {Column: "end_date", Kind: query.Time},
		"team_ids":   {Column: "teams", Kind: query.RefList},
		"winner_id":  {Column: "winner_id", Kind: query.Ref},
		"logo":       {Column: "logo", Kind: query.String},
		"created_at": {Column: "created_at", Kind: query.Time},
		"updated_at": {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"-start_date"},
}

type TournamentService struct {
	resource[models.Tournament]
}

func NewTournamentService(deps Deps) *TournamentService {
	return &TournamentService{resource[models.Tournament]{
		Deps:         deps,
		entity:       "tournament",
		label:        "Tournament",
		schema:       tournamentSchema,
		defaultLimit: defaultTournamentLimit,
		populate:     deps.Populate.Tournaments,
		key:          func(t *models.Tournament) (string, string) { return t.ID, t.Slug },
	}}
}

func (s *TournamentService) GetTournaments(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

func (s *TournamentService) GetTournament(c *fiber.Ctx) error       { return s.getByID(c) }
func (s *TournamentService) GetTournamentBySlug(c *fiber.Ctx) error { return s.getBySlug(c) }
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error    { return s.create(c, nil) }
func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error    { return s.update(c) }
func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error    { return s.remove(c) }

func (s *TournamentService) UploadLogo(c *fiber.Ctx) error {
	return s.upload(c, "tournaments", func(t *models.Tournament, url string) { t.Logo = url })
}
