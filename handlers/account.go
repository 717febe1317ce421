package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cricanalyzer/services"
)

// SetupUserRoutes mounts the admin-only user directory.
func SetupUserRoutes(api fiber.Router, s *services.UserService, auth gate) {
	users := api.Group("/users", auth.protect, auth.admins)

	users.Get("/", s.GetUsers)
	users.Post("/", s.CreateUser)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)
}

func SetupAuthRoutes(api fiber.Router, s *services.AuthService, auth gate) {
	a := api.Group("/auth")

	a.Post("/register", s.Register)
	a.Post("/login", s.Login)
	a.Get("/me", auth.user(s.Me)...)
	a.Put("/updatedetails", auth.user(s.UpdateDetails)...)
	a.Put("/updatepassword", auth.user(s.UpdatePassword)...)
}

func SetupNewsletterRoutes(api fiber.Router, s *services.NewsletterService, auth gate) {
	newsletter := api.Group("/newsletter")

	newsletter.Post("/subscribe", s.Subscribe)
	newsletter.Post("/unsubscribe", s.Unsubscribe)
	newsletter.Get("/", auth.admin(s.GetSubscribers)...)
}
