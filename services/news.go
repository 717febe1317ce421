package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"cricanalyzer/middleware"
	"cricanalyzer/models"
	"cricanalyzer/query"
	"cricanalyzer/utils"
)

const (
	defaultNewsLimit     = 10
	defaultFeaturedLimit = 5
	defaultLatestLimit   = 12
	defaultRelatedLimit  = 4
)

var newsSchema = query.Schema{
	Fields: map[string]query.Field{
		"title":          {Column: "title", Kind: query.String},
		"excerpt":        {Column: "excerpt", Kind: query.String},
		"content":        {Column: "content", Kind: query.String},
		"cover_image":    {Column: "cover_image", Kind: query.String},
		"category":       {Column: "category", Kind: query.Enum, Enum: "news_category"},
		"featured":       {Column: "featured", Kind: query.Bool},
		"author_id":      {Column: "author_id", Kind: query.Ref},
		"team_ids":       {Column: "teams", Kind: query.RefList},
		"player_ids":     {Column: "players", Kind: query.RefList},
		"match_ids":      {Column: "matches", Kind: query.RefList},
		"tournament_ids": {Column: "tournaments", Kind: query.RefList},
		"tag_ids":        {Column: "tags", Kind: query.RefList},
		"published_at":   {Column: "published_at", Kind: query.Time},
		"created_at":     {Column: "created_at", Kind: query.Time},
		"updated_at":     {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"-published_at"},
}

type NewsService struct {
	resource[models.News]
}

func NewNewsService(deps Deps) *NewsService {
	return &NewsService{resource[models.News]{
		Deps:         deps,
		entity:       "news",
		label:        "News",
		schema:       newsSchema,
		defaultLimit: defaultNewsLimit,
		populate:     deps.Populate.News,
		key:          func(n *models.News) (string, string) { return n.ID, n.Slug },
	}}
}

func (s *NewsService) GetAllNews(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

func published(db *gorm.DB) *gorm.DB {
	return db.Where("published_at IS NOT NULL AND published_at <= ?", time.Now())
}

func limitParam(c *fiber.Ctx, fallback int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > query.MaxLimit {
		return query.MaxLimit
	}
	return limit
}

func (s *NewsService) feed(c *fiber.Ctx, featured bool, fallback int) error {
	items := make([]models.News, 0)
	err := s.DB.WithContext(c.UserContext()).
		Scopes(published).
		Where("featured = ?", featured).
		Order("published_at DESC").
		Limit(limitParam(c, fallback)).
		Find(&items).Error
	if err != nil {
		return err
	}
	if err := s.Populate.NewsSummary(c.UserContext(), items); err != nil {
		return err
	}
	return sendFeed(c, items)
}

// GetFeaturedNews serves the home page carousel.
func (s *NewsService) GetFeaturedNews(c *fiber.Ctx) error {
	return s.feed(c, true, defaultFeaturedLimit)
}

func (s *NewsService) GetLatestNews(c *fiber.Ctx) error {
	return s.feed(c, false, defaultLatestLimit)
}

// CanonicalCategory maps URL forms such as "match-reports" onto the stored
// category name.
func CanonicalCategory(raw string) (string, bool) {
	name := strings.TrimSpace(strings.ReplaceAll(raw, "-", " "))
	for _, cat := range models.Enums["news_category"] {
		if strings.EqualFold(cat, name) {
			return cat, true
		}
	}
	titled := cases.Title(language.English).String(name)
	return titled, models.InEnum("news_category", titled)
}

func (s *NewsService) GetNewsByCategory(c *fiber.Ctx) error {
	category, ok := CanonicalCategory(c.Params("category"))
	if !ok {
		return utils.NotFound("No news category %s", c.Params("category"))
	}
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p, func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category)
	})
}

func (s *NewsService) GetNewsByID(c *fiber.Ctx) error {
	return s.getByID(c)
}

func (s *NewsService) GetNewsBySlug(c *fiber.Ctx) error {
	return s.getBySlug(c)
}

// CreateNews records the caller as author unless an editor names another.
func (s *NewsService) CreateNews(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return s.create(c, func(n *models.News) {
		if n.AuthorID == "" && user != nil {
			n.AuthorID = user.ID
		}
	})
}

func (s *NewsService) UpdateNews(c *fiber.Ctx) error {
	return s.update(c)
}

func (s *NewsService) DeleteNews(c *fiber.Ctx) error {
	return s.remove(c)
}

// GetRelatedNews lists published stories sharing a team, player or tag.
func (s *NewsService) GetRelatedNews(c *fiber.Ctx) error {
	n, err := s.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]models.News, 0)
	if len(n.TeamIDs)+len(n.PlayerIDs)+len(n.TagIDs) > 0 {
		err = s.DB.WithContext(c.UserContext()).
			Scopes(published).
			Where("id <> ?", n.ID).
			Where("(teams && ?::text[] OR players && ?::text[] OR tags && ?::text[])", n.TeamIDs, n.PlayerIDs, n.TagIDs).
			Order("published_at DESC").
			Limit(limitParam(c, defaultRelatedLimit)).
			Find(&items).Error
		if err != nil {
			return err
		}
	}
	if err := s.Populate.NewsSummary(c.UserContext(), items); err != nil {
		return err
	}
	return sendFeed(c, items)
}

func (s *NewsService) UploadCover(c *fiber.Ctx) error {
	return s.upload(c, "news", func(n *models.News, url string) { n.CoverImage = url })
}
