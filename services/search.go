package services

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cricanalyzer/models"
	"cricanalyzer/utils"
)

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

type SearchService struct {
	DB *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{DB: db}
}

type SearchResults struct {
	News        []models.NewsRef       `json:"news"`
	Players     []models.PlayerRef     `json:"players"`
	Teams       []models.TeamRef       `json:"teams"`
	Tournaments []models.TournamentRef `json:"tournaments"`
}

// Search does a case-insensitive substring match across the public
// collections. Only published news is searched.
func (s *SearchService) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return utils.BadRequest("Please provide a search term")
	}
	limit := limitParam(c, defaultSearchLimit)
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	term := "%" + escapeLike(strings.ToLower(q)) + "%"
	db := s.DB.WithContext(c.UserContext())

	res := SearchResults{
		News:        []models.NewsRef{},
		Players:     []models.PlayerRef{},
		Teams:       []models.TeamRef{},
		Tournaments: []models.TournamentRef{},
	}
	err := db.Table("news").Select("id, title, slug, cover_image, published_at").
		Scopes(published).
		Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?", term, term).
		Order("published_at DESC").Limit(limit).Find(&res.News).Error
	if err != nil {
		return err
	}
	err = db.Table("players").Select("id, name, slug, profile_image, role").
		Where("LOWER(name) LIKE ?", term).
		Order("name").Limit(limit).Find(&res.Players).Error
	if err != nil {
		return err
	}
	err = db.Table("teams").Select("id, name, short_name, logo, slug").
		Where("LOWER(name) LIKE ? OR LOWER(short_name) LIKE ?", term, term).
		Order("name").Limit(limit).Find(&res.Teams).Error
	if err != nil {
		return err
	}
	err = db.Table("tournaments").Select("id, name, logo, slug").
		Where("LOWER(name) LIKE ?", term).
		Order("start_date DESC NULLS LAST").Limit(limit).Find(&res.Tournaments).Error
	if err != nil {
		return err
	}

	count := len(res.News) + len(res.Players) + len(res.Teams) + len(res.Tournaments)
	return c.JSON(fiber.Map{"success": true, "count": count, "data": res})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
