package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"cricanalyzer/middleware"
	"cricanalyzer/models"
	"cricanalyzer/services"
	"cricanalyzer/utils"
)

const bodyLimit = 10 * 1024 * 1024

type Options struct {
	ClientURL       string
	Signer          *utils.TokenSigner
	RateLimitMax    int
	RateLimitWindow time.Duration
	// LimiterStorage shares rate-limit counters between instances; nil keeps
	// them in memory.
	LimiterStorage fiber.Storage
	UploadDir      string
	PublicDir      string
}

// NewApp builds the HTTP surface: global middleware, the /api routes and
// static media.
func NewApp(svc *services.Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "cricanalyzer-api",
		BodyLimit:    bodyLimit,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.ClientURL,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api")
	if opts.RateLimitMax > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitMax,
			Expiration: opts.RateLimitWindow,
			Storage:    opts.LimiterStorage,
			LimitReached: func(c *fiber.Ctx) error {
				return utils.NewErrorResponse(fiber.StatusTooManyRequests, "Too many requests from this IP, please try again later")
			},
		}))
	}

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	auth := newGate(opts.Signer, svc.Users)
	SetupNewsRoutes(api, svc.News, auth)
	SetupMatchRoutes(api, svc.Matches, auth)
	SetupPlayerRoutes(api, svc.Players, auth)
	SetupTeamRoutes(api, svc.Teams, auth)
	SetupTournamentRoutes(api, svc.Tournaments, auth)
	SetupVenueRoutes(api, svc.Venues, auth)
	SetupTagRoutes(api, svc.Tags, auth)
	SetupUserRoutes(api, svc.Users, auth)
	SetupAuthRoutes(api, svc.Auth, auth)
	SetupNewsletterRoutes(api, svc.Newsletter, auth)
	api.Get("/search", svc.Search.Search)

	if opts.UploadDir != "" {
		app.Static("/uploads", opts.UploadDir)
	}
	if opts.PublicDir != "" {
		app.Static("/sitemap.xml", opts.PublicDir+"/sitemap.xml")
	}
	return app
}

// gate bundles the auth handlers each route group picks from.
type gate struct {
	protect fiber.Handler
	editors fiber.Handler
	admins  fiber.Handler
}

func newGate(signer *utils.TokenSigner, users middleware.UserLookup) gate {
	return gate{
		protect: middleware.Protect(signer, users),
		editors: middleware.Authorize(models.RoleEditor, models.RoleAdmin),
		admins:  middleware.Authorize(models.RoleAdmin),
	}
}

// write is the chain for create/update routes.
func (g gate) write(h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{g.protect, g.editors, h}
}

func (g gate) admin(h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{g.protect, g.admins, h}
}

func (g gate) user(h fiber.Handler) []fiber.Handler {
	return []fiber.Handler{g.protect, h}
}
