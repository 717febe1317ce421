package services

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"cricanalyzer/models"
	"cricanalyzer/populate"
	"cricanalyzer/query"
)

const defaultTagLimit = 50

var tagSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":        {Column: "name", Kind: query.String},
		"description": {Column: "description", Kind: query.String},
		"created_at":  {Column: "created_at", Kind: query.Time},
		"updated_at":  {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"name"},
}

type TagService struct {
	resource[models.Tag]
}

func NewTagService(deps Deps) *TagService {
	return &TagService{resource[models.Tag]{
		Deps:         deps,
		entity:       "tag",
		label:        "Tag",
		schema:       tagSchema,
		defaultLimit: defaultTagLimit,
		// Tags reference nothing.
		populate: func(context.Context, []models.Tag, populate.View) error { return nil },
		key:      func(t *models.Tag) (string, string) { return t.ID, t.Slug },
	}}
}

func (s *TagService) GetTags(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

func (s *TagService) GetTagBySlug(c *fiber.Ctx) error { return s.getBySlug(c) }
func (s *TagService) CreateTag(c *fiber.Ctx) error    { return s.create(c, nil) }
func (s *TagService) UpdateTag(c *fiber.Ctx) error    { return s.update(c) }
func (s *TagService) DeleteTag(c *fiber.Ctx) error    { return s.remove(c) }
