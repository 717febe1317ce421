package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cricanalyzer/models"
	"cricanalyzer/utils"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) UserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var (
	signer = utils.NewTokenSigner("test-secret", time.Hour)
	users  = fakeUsers{
		"u-admin":  {ID: "u-admin", Name: "Admin", Role: models.RoleAdmin},
		"u-editor": {ID: "u-editor", Name: "Editor", Role: models.RoleEditor},
		"u-reader": {ID: "u-reader", Name: "Reader", Role: models.RoleUser},
	}
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestLogger())
	protect := Protect(signer, users)
	app.Get("/me", protect, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": CurrentUser(c)})
	})
	app.Delete("/things/:id", protect, Authorize(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	app.Get("/fail/:kind", func(c *fiber.Ctx) error {
		switch c.Params("kind") {
		case "notfound":
			return errors.Wrap(gorm.ErrRecordNotFound, "load")
		case "duplicate":
			return gorm.ErrDuplicatedKey
		case "invalid":
			return models.Validate(&models.Tag{})
		case "response":
			return utils.NotFound("News not found with id of %s", "x")
		default:
			return errors.New("pq: connection refused")
		}
	})
	return app
}

func token(t *testing.T, userID string) string {
	t.Helper()
	raw, err := signer.Sign(userID)
	require.NoError(t, err)
	return "Bearer " + raw
}

func do(t *testing.T, method, path, auth string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := newApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestProtectRejectsMissingAndBadTokens(t *testing.T) {
	for name, auth := range map[string]string{
		"missing":      "",
		"wrong scheme": "Basic abc",
		"garbage":      "Bearer not-a-jwt",
		"unknown user": token(t, "u-ghost"),
		"other secret": func() string {
			raw, _ := utils.NewTokenSigner("other", time.Hour).Sign("u-admin")
			return "Bearer " + raw
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			status, body := do(t, fiber.MethodGet, "/me", auth)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Not authorized to access this route", body["error"])
		})
	}
}

func TestProtectLoadsUser(t *testing.T) {
	status, body := do(t, fiber.MethodGet, "/me", token(t, "u-reader"))
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "u-reader", data["id"])
	assert.NotContains(t, data, "password")
}

func TestAuthorizeRoles(t *testing.T) {
	status, _ := do(t, fiber.MethodDelete, "/things/1", token(t, "u-admin"))
	assert.Equal(t, fiber.StatusOK, status)

	status, body := do(t, fiber.MethodDelete, "/things/1", token(t, "u-editor"))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "User role editor is not authorized to access this route", body["error"])

	status, _ = do(t, fiber.MethodDelete, "/things/1", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestErrorHandlerMapping(t *testing.T) {
	cases := []struct {
		kind   string
		status int
		msg    string
	}{
		{"notfound", fiber.StatusNotFound, "Resource not found"},
		{"duplicate", fiber.StatusBadRequest, "Duplicate field value entered"},
		{"invalid", fiber.StatusBadRequest, "name is required"},
		{"response", fiber.StatusNotFound, "News not found with id of x"},
		{"boom", fiber.StatusInternalServerError, "Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			status, body := do(t, fiber.MethodGet, "/fail/"+tc.kind, "")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	status, body := do(t, fiber.MethodGet, "/nowhere", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestValidationErrorCarriesFields(t *testing.T) {
	_, body := do(t, fiber.MethodGet, "/fail/invalid", "")
	fields := body["fields"].(map[string]any)
	assert.Equal(t, "name is required", fields["name"])
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("  bearer   abc "))
	assert.Empty(t, bearerToken("Bearer"))
	assert.Empty(t, bearerToken("Token abc"))
}
