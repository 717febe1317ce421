package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cricanalyzer/models"
	"cricanalyzer/utils"
)

const userLocal = "user"

// UserLookup resolves the account a token was issued to.
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Protect requires a valid bearer token for a user that still exists and
// stores that user on the request.
func Protect(signer *utils.TokenSigner, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return utils.Unauthorized("Not authorized to access this route")
		}
		claims, err := signer.Parse(raw)
		if err != nil {
			utils.Log.WithError(err).Debugf("[AUTH] rejected token on %s", c.Path())
			return utils.Unauthorized("Not authorized to access this route")
		}
		user, err := users.UserByID(c.UserContext(), claims.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized("Not authorized to access this route")
		}
		if err != nil {
			return err
		}
		c.Locals(userLocal, user)
		return c.Next()
	}
}

// Authorize admits only users whose role is listed. Must run after Protect.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.Unauthorized("Not authorized to access this route")
		}
		if !user.HasRole(roles...) {
			return utils.Forbidden("User role %s is not authorized to access this route", user.Role)
		}
		return c.Next()
	}
}

func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
