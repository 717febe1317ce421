package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cricanalyzer/services"
)

func SetupMatchRoutes(api fiber.Router, s *services.MatchService, auth gate) {
	matches := api.Group("/matches")

	matches.Get("/", s.GetMatches)
	matches.Post("/", auth.write(s.CreateMatch)...)
	matches.Get("/live", s.GetLiveMatches)
	matches.Get("/upcoming", s.GetUpcomingMatches)
	matches.Get("/recent", s.GetRecentMatches)

	matches.Get("/:id", s.GetMatch)
	matches.Put("/:id", auth.write(s.UpdateMatch)...)
	matches.Delete("/:id", auth.admin(s.DeleteMatch)...)
}

func SetupPlayerRoutes(api fiber.Router, s *services.PlayerService, auth gate) {
	players := api.Group("/players")

	players.Get("/", s.GetPlayers)
	players.Post("/", auth.write(s.CreatePlayer)...)
	players.Get("/slug/:slug", s.GetPlayerBySlug)

	players.Get("/:id", s.GetPlayer)
	players.Get("/:id/stats", s.GetPlayerStats)
	players.Put("/:id", auth.write(s.UpdatePlayer)...)
	players.Delete("/:id", auth.admin(s.DeletePlayer)...)
	players.Put("/:id/photo", auth.write(s.UploadPhoto)...)
}

func SetupTeamRoutes(api fiber.Router, s *services.TeamService, auth gate) {
	teams := api.Group("/teams")

	teams.Get("/", s.GetTeams)
	teams.Post("/", auth.write(s.CreateTeam)...)
	teams.Get("/slug/:slug", s.GetTeamBySlug)

	teams.Get("/:id", s.GetTeam)
	teams.Put("/:id", auth.write(s.UpdateTeam)...)
	teams.Delete("/:id", auth.admin(s.DeleteTeam)...)
	teams.Put("/:id/logo", auth.write(s.UploadLogo)...)
}

func SetupTournamentRoutes(api fiber.Router, s *services.TournamentService, auth gate) {
	tournaments := api.Group("/tournaments")

	tournaments.Get("/", s.GetTournaments)
	tournaments.Post("/", auth.write(s.CreateTournament)...)
	tournaments.Get("/slug/:slug", s.GetTournamentBySlug)

	tournaments.Get("/:id", s.GetTournament)
	tournaments.Put("/:id", auth.write(s.UpdateTournament)...)
	tournaments.Delete("/:id", auth.admin(s.DeleteTournament)...)
	tournaments.Put("/:id/logo", auth.write(s.UploadLogo)...)
}

func SetupVenueRoutes(api fiber.Router, s *services.VenueService, auth gate) {
	venues := api.Group("/venues")

	venues.Get("/", s.GetVenues)
	venues.Post("/", auth.write(s.CreateVenue)...)
	venues.Get("/slug/:slug", s.GetVenueBySlug)

	venues.Get("/:id", s.GetVenue)
	venues.Put("/:id", auth.write(s.UpdateVenue)...)
	venues.Delete("/:id", auth.admin(s.DeleteVenue)...)
	venues.Put("/:id/image", auth.write(s.UploadImage)...)
}

func SetupTagRoutes(api fiber.Router, s *services.TagService, auth gate) {
	tags := api.Group("/tags")

	tags.Get("/", s.GetTags)
	tags.Post("/", auth.write(s.CreateTag)...)
	tags.Get("/slug/:slug", s.GetTagBySlug)
	tags.Put("/:id", auth.write(s.UpdateTag)...)
	tags.Delete("/:id", auth.admin(s.DeleteTag)...)
}
