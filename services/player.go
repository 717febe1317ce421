package services

import (
	"github.com/gofiber/fiber/v2"

	"cricanalyzer/models"
	"cricanalyzer/query"
)

const defaultPlayerLimit = 20

var playerSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":          {Column: "name", Kind: query.String},
		"nationality":   {Column: "nationality", Kind: query.String},
		"role":          {Column: "role", Kind: query.Enum, Enum: "player_role"},
		"batting_style": {Column: "batting_style", Kind: query.String},
		"bowling_style": {Column: "bowling_style", Kind: query.String},
		"date_of_birth": {Column: "date_of_birth", Kind: query.Time},
		"profile_image": {Column: "profile_image", Kind: query.String},
		"team_ids":      {Column: "teams", Kind: query.RefList},
		"created_at":    {Column: "created_at", Kind: query.Time},
		"updated_at":    {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"name"},
}

type PlayerService struct {
	resource[models.Player]
}

func NewPlayerService(deps Deps) *PlayerService {
	return &PlayerService{resource[models.Player]{
		Deps:         deps,
		entity:       "player",
		label:        "Player",
		schema:       playerSchema,
		defaultLimit: defaultPlayerLimit,
		populate:     deps.Populate.Players,
		key:          func(p *models.Player) (string, string) { return p.ID, p.Slug },
	}}
}

func (s *PlayerService) GetPlayers(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

func (s *PlayerService) GetPlayer(c *fiber.Ctx) error {
	return s.getByID(c)
}

func (s *PlayerService) GetPlayerBySlug(c *fiber.Ctx) error {
	return s.getBySlug(c)
}

// GetPlayerStats serves per-format batting, bowling and ranking data for
// the stats dashboard.
func (s *PlayerService) GetPlayerStats(c *fiber.Ctx) error {
	p, err := s.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, p.Stats())
}

func (s *PlayerService) CreatePlayer(c *fiber.Ctx) error {
	return s.create(c, nil)
}

func (s *PlayerService) UpdatePlayer(c *fiber.Ctx) error {
	return s.update(c)
}

func (s *PlayerService) DeletePlayer(c *fiber.Ctx) error {
	return s.remove(c)
}

func (s *PlayerService) UploadPhoto(c *fiber.Ctx) error {
	return s.upload(c, "players", func(p *models.Player, url string) { p.ProfileImage = url })
}
