package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cricanalyzer/services"
)

// SetupNewsRoutes mounts /news. Fixed paths are registered before /:id.
func SetupNewsRoutes(api fiber.Router, s *services.NewsService, auth gate) {
	news := api.Group("/news")

	news.Get("/", s.GetAllNews)
	news.Post("/", auth.write(s.CreateNews)...)
	news.Get("/featured", s.GetFeaturedNews)
	news.Get("/latest", s.GetLatestNews)
	news.Get("/category/:category", s.GetNewsByCategory)
	news.Get("/slug/:slug", s.GetNewsBySlug)

	news.Get("/:id", s.GetNewsByID)
	news.Put("/:id", auth.write(s.UpdateNews)...)
	news.Delete("/:id", auth.admin(s.DeleteNews)...)
	news.Get("/:id/related", s.GetRelatedNews)
	news.Put("/:id/cover", auth.write(s.UploadCover)...)
}
