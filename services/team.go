package services

import (
	"github.com/gofiber/fiber/v2"

	"cricanalyzer/models"
	"cricanalyzer/query"
)

const defaultTeamLimit = 20

var teamSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":         {Column: "name", Kind: query.String},
		"short_name":   {Column: "short_name", Kind: query.String},
		"country":      {Column: "country", Kind: query.String},
		"team_type":    {Column: "team_type", Kind: query.Enum, Enum: "team_type"},
		"captain_id":   {Column: "captain_id", Kind: query.Ref},
		"coach":        {Column: "coach", Kind: query.String},
		"logo":         {Column: "logo", Kind: query.String},
		"ranking_test": {Column: "ranking_test", Kind: query.Int},
		"ranking_odi":  {Column: "ranking_odi", Kind: query.Int},
		"ranking_t20i": {Column: "ranking_t20i", Kind: query.Int},
		"created_at":   {Column: "created_at", Kind: query.Time},
		"updated_at":   {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"name"},
}

type TeamService struct {
	resource[models.Team]
}

func NewTeamService(deps Deps) *TeamService {
	return &TeamService{resource[models.Team]{
		Deps:         deps,
		entity:       "team",
		label:        "Team",
		schema:       teamSchema,
		defaultLimit: defaultTeamLimit,
		populate:     deps.Populate.Teams,
		key:          func(t *models.Team) (string, string) { return t.ID, t.Slug },
	}}
}

func (s *TeamService) GetTeams(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

func (s *TeamService) GetTeam(c *fiber.Ctx) error       { return s.getByID(c) }
func (s *TeamService) GetTeamBySlug(c *fiber.Ctx) error { return s.getBySlug(c) }
func (s *TeamService) CreateTeam(c *fiber.Ctx) error    { return s.create(c, nil) }
func (s *TeamService) UpdateTeam(c *fiber.Ctx) error    { return s.update(c) }
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error    { return s.remove(c) }

func (s *TeamService) UploadLogo(c *fiber.Ctx) error {
	return s.upload(c, "teams", func(t *models.Team, url string) { t.Logo = url })
}
