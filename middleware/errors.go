package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cricanalyzer/models"
	"cricanalyzer/utils"
)

// ErrorHandler is the single place errors become responses. Every error
// body has the shape {success:false, error:<message>} plus per-field
// messages for validation failures.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := errorBody(err)
	if status >= fiber.StatusInternalServerError {
		utils.Log.WithError(err).WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.Locals("requestid"),
		}).Error("[API] request failed")
	}
	return c.Status(status).JSON(body)
}

func errorBody(err error) (int, fiber.Map) {
	var (
		resp     *utils.ErrorResponse
		invalid  *models.ValidationError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &resp):
		return resp.StatusCode, fiber.Map{"success": false, "error": resp.Message}
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest, fiber.Map{"success": false, "error": invalid.Error(), "fields": invalid.Fields}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, fiber.Map{"success": false, "error": "Resource not found"}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.StatusBadRequest, fiber.Map{"success": false, "error": "Duplicate field value entered"}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiber.Map{"success": false, "error": fiberErr.Message}
	default:
		return fiber.StatusInternalServerError, fiber.Map{"success": false, "error": "Server Error"}
	}
}
