package services

import (
	"github.com/gofiber/fiber/v2"

	"cricanalyzer/models"
	"cricanalyzer/query"
)

const defaultVenueLimit = 20

var venueSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":        {Column: "name", Kind: query.String},
		"city":        {Column: "city", Kind: query.String},
		"country":     {Column: "country", Kind: query.String},
		"capacity":    {Column: "capacity", Kind: query.Int},
		"established": {Column: "established", Kind: query.Int},
		"pitch_type":  {Column: "pitch_type", Kind: query.String},
		"image":       {Column: "image", Kind: query.String},
		"created_at":  {Column: "created_at", Kind: query.Time},
		"updated_at":  {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"name"},
}

type VenueService struct {
	resource[models.Venue]
}

func NewVenueService(deps Deps) *VenueService {
	return &VenueService{resource[models.Venue]{
		Deps:         deps,
		entity:       "venue",
		label:        "Venue",
		schema:       venueSchema,
		defaultLimit: defaultVenueLimit,
		populate:     deps.Populate.Venues,
		key:          func(v *models.Venue) (string, string) { return v.ID, v.Slug },
	}}
}

func (s *VenueService) GetVenues(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

func (s *VenueService) GetVenue(c *fiber.Ctx) error       { return s.getByID(c) }
func (s *VenueService) GetVenueBySlug(c *fiber.Ctx) error { return s.getBySlug(c) }
func (s *VenueService) CreateVenue(c *fiber.Ctx) error    { return s.create(c, nil) }
func (s *VenueService) UpdateVenue(c *fiber.Ctx) error    { return s.update(c) }
func (s *VenueService) DeleteVenue(c *fiber.Ctx) error    { return s.remove(c) }

func (s *VenueService) UploadImage(c *fiber.Ctx) error {
	return s.upload(c, "venues", func(v *models.Venue, url string) { v.Image = url })
}
