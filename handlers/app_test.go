package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cricanalyzer/models"
	"cricanalyzer/services"
	"cricanalyzer/utils"
)

type env struct {
	t      *testing.T
	db     *gorm.DB
	app    *fiber.App
	signer *utils.TokenSigner
}

func newEnv(t *testing.T, db *gorm.DB) *env {
	t.Helper()
	signer := utils.NewTokenSigner("test-secret", time.Hour)
	media, err := utils.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := services.New(services.NewDeps(db, nil, media), signer)
	app := NewApp(svc, Options{ClientURL: "*", Signer: signer})
	return &env{t: t, db: db, app: app, signer: signer}
}

func (e *env) user(role string) (*models.User, string) {
	e.t.Helper()
	u := &models.User{Name: role + " user", Email: fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]), Role: role}
	require.NoError(e.t, u.SetPassword("secret123"))
	require.NoError(e.t, e.db.Create(u).Error)
	token, err := e.signer.Sign(u.ID)
	require.NoError(e.t, err)
	return u, "Bearer " + token
}

type response struct {
	status int
	raw    string
	body   map[string]any
}

func (r response) data() map[string]any {
	d, _ := r.body["data"].(map[string]any)
	return d
}

func (r response) list() []any {
	d, _ := r.body["data"].([]any)
	return d
}

func (e *env) do(method, path, auth string, body any) response {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	out := response{status: resp.StatusCode, raw: string(raw)}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(e.t, json.Unmarshal(raw, &out.body))
	}
	return out
}

// Routes that never reach the database.
func TestAppWithoutDatabase(t *testing.T) {
	e := newEnv(t, nil)

	res := e.do("GET", "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, "ok", res.body["status"])

	res = e.do("POST", "/api/news", "", map[string]any{"title": "x"})
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
	assert.Equal(t, false, res.body["success"])
	assert.Equal(t, "Not authorized to access this route", res.body["error"])

	res = e.do("GET", "/api/users", "Bearer not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.status)

	res = e.do("GET", "/api/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)

	res = e.do("GET", "/api/search", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, res.status)
}

func TestRateLimit(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret", time.Hour)
	svc := services.New(services.NewDeps(nil, nil, nil), signer)
	app := NewApp(svc, Options{Signer: signer, RateLimitMax: 2, RateLimitWindow: time.Minute})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, fiber.StatusTooManyRequests}, codes)
}

type newsFixture struct {
	india, england, kohli string
}

func (e *env) seedRefs() newsFixture {
	e.t.Helper()
	india := models.Team{Name: "India", ShortName: "IND", TeamType: "International"}
	england := models.Team{Name: "England", ShortName: "ENG", TeamType: "International"}
	require.NoError(e.t, e.db.Create(&india).Error)
	require.NoError(e.t, e.db.Create(&england).Error)
	kohli := models.Player{Name: "Virat Kohli", Role: "Batsman"}
	require.NoError(e.t, e.db.Create(&kohli).Error)
	return newsFixture{india: india.ID, england: england.ID, kohli: kohli.ID}
}

func newsBody(title string, f newsFixture) map[string]any {
	return map[string]any{
		"title":        title,
		"excerpt":      "Series sealed at the Oval",
		"content":      "Full report",
		"cover_image":  "cover.jpg",
		"category":     "Match Reports",
		"published_at": time.Now().Add(-time.Hour),
		"team_ids":     []string{f.india, f.england},
		"player_ids":   []string{f.kohli},
	}
}

func TestNewsLifecycle(t *testing.T) {
	e := newEnv(t, utils.CreateTempSchema(t))
	refs := e.seedRefs()
	editor, editorAuth := e.user(models.RoleEditor)
	_, adminAuth := e.user(models.RoleAdmin)

	res := e.do("POST", "/api/news", editorAuth, newsBody("India Win the Series", refs))
	require.Equal(t, fiber.StatusCreated, res.status, res.raw)
	created := res.data()
	assert.Equal(t, "india-win-the-series", created["slug"])
	assert.Equal(t, editor.ID, created["author_id"])
	id := created["id"].(string)

	res = e.do("GET", "/api/news/slug/india-win-the-series", "", nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	detail := res.data()
	author := detail["author"].(map[string]any)
	assert.Equal(t, editor.Name, author["name"])
	assert.NotContains(t, author, "email")
	teams := detail["teams"].([]any)
	require.Len(t, teams, 2)
	assert.Equal(t, "India", teams[0].(map[string]any)["name"])
	players := detail["players"].([]any)
	require.Len(t, players, 1)
	assert.Equal(t, "virat-kohli", players[0].(map[string]any)["slug"])

	// Slug only follows the title.
	res = e.do("PUT", "/api/news/"+id, editorAuth, map[string]any{"excerpt": "Updated", "slug": "hijacked"})
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.Equal(t, "india-win-the-series", res.data()["slug"])
	assert.Equal(t, "Updated", res.data()["excerpt"])

	res = e.do("PUT", "/api/news/"+id, editorAuth, map[string]any{"title": "England Level the Series"})
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.Equal(t, "england-level-the-series", res.data()["slug"])

	res = e.do("DELETE", "/api/news/"+id, editorAuth, nil)
	assert.Equal(t, fiber.StatusForbidden, res.status)
	assert.Equal(t, "User role editor is not authorized to access this route", res.body["error"])

	res = e.do("DELETE", "/api/news/"+id, adminAuth, nil)
	assert.Equal(t, fiber.StatusOK, res.status)

	res = e.do("GET", "/api/news/"+id, "", nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)
	assert.Equal(t, "News not found with id of "+id, res.body["error"])
}

func TestNewsValidationAndLookups(t *testing.T) {
	e := newEnv(t, utils.CreateTempSchema(t))
	refs := e.seedRefs()
	_, editorAuth := e.user(models.RoleEditor)

	body := newsBody("Missing Category", refs)
	delete(body, "category")
	res := e.do("POST", "/api/news", editorAuth, body)
	assert.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Contains(t, res.body, "fields")

	res = e.do("POST", "/api/news", editorAuth, newsBody("Same Title", refs))
	require.Equal(t, fiber.StatusCreated, res.status, res.raw)
	res = e.do("POST", "/api/news", editorAuth, newsBody("Same Title", refs))
	assert.Equal(t, fiber.StatusBadRequest, res.status)
	assert.Equal(t, "Duplicate field value entered", res.body["error"])

	res = e.do("GET", "/api/news/"+uuid.NewString(), "", nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)
	res = e.do("GET", "/api/news/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)
	res = e.do("GET", "/api/news/slug/no-such-story", "", nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)

	res = e.do("GET", "/api/news/category/match-reports", "", nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.Len(t, res.list(), 1)
	res = e.do("GET", "/api/news/category/gossip", "", nil)
	assert.Equal(t, fiber.StatusNotFound, res.status)

	res = e.do("GET", "/api/news?views[like]=1", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, res.status)
}

func TestListPaginationAndFilters(t *testing.T) {
	e := newEnv(t, utils.CreateTempSchema(t))
	_, editorAuth := e.user(models.RoleEditor)

	for i, capacity := range []int{20000, 45000, 90000} {
		res := e.do("POST", "/api/venues", editorAuth, map[string]any{
			"name":     fmt.Sprintf("Ground %d", i+1),
			"city":     "Mumbai",
			"country":  "India",
			"capacity": capacity,
		})
		require.Equal(t, fiber.StatusCreated, res.status, res.raw)
	}

	res := e.do("GET", "/api/venues?limit=2", "", nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.EqualValues(t, 2, res.body["count"])
	assert.EqualValues(t, 3, res.body["total"])
	pagination := res.body["pagination"].(map[string]any)
	assert.Equal(t, map[string]any{"page": float64(2), "limit": float64(2)}, pagination["next"])
	assert.NotContains(t, pagination, "prev")

	res = e.do("GET", "/api/venues?limit=2&page=2", "", nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.EqualValues(t, 1, res.body["count"])
	pagination = res.body["pagination"].(map[string]any)
	assert.Equal(t, map[string]any{"page": float64(1), "limit": float64(2)}, pagination["prev"])
	assert.NotContains(t, pagination, "next")

	res = e.do("GET", "/api/venues?capacity[gte]=45000&sort=-capacity", "", nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	items := res.list()
	require.Len(t, items, 2)
	assert.Equal(t, "Ground 3", items[0].(map[string]any)["name"])

	res = e.do("GET", "/api/venues?select=name&limit=500", "", nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	first := res.list()[0].(map[string]any)
	assert.Equal(t, "Ground 1", first["name"])
	assert.Equal(t, "", first["city"])
}

func TestAuthFlow(t *testing.T) {
	e := newEnv(t, utils.CreateTempSchema(t))

	res := e.do("POST", "/api/auth/register", "", map[string]any{
		"name": "Reader", "email": "Reader@Example.com", "password": "secret123", "role": "admin",
	})
	require.Equal(t, fiber.StatusCreated, res.status, res.raw)
	token := res.body["token"].(string)
	require.NotEmpty(t, token)

	res = e.do("GET", "/api/auth/me", "Bearer "+token, nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.Equal(t, models.RoleUser, res.data()["role"])
	assert.Equal(t, "reader@example.com", res.data()["email"])
	assert.NotContains(t, res.raw, "password")

	res = e.do("POST", "/api/auth/login", "", map[string]any{"email": "reader@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, res.status)
	assert.Equal(t, "Invalid credentials", res.body["error"])

	res = e.do("POST", "/api/auth/login", "", map[string]any{"email": "reader@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, res.status)

	res = e.do("PUT", "/api/auth/updatepassword", "Bearer "+token, map[string]any{
		"current_password": "secret123", "new_password": "newsecret456",
	})
	require.Equal(t, fiber.StatusOK, res.status, res.raw)

	res = e.do("POST", "/api/auth/login", "", map[string]any{"email": "reader@example.com", "password": "newsecret456"})
	assert.Equal(t, fiber.StatusOK, res.status)

	res = e.do("GET", "/api/users", "Bearer "+token, nil)
	assert.Equal(t, fiber.StatusForbidden, res.status)
}

func TestUsersNeverExposePasswords(t *testing.T) {
	e := newEnv(t, utils.CreateTempSchema(t))
	_, adminAuth := e.user(models.RoleAdmin)

	res := e.do("POST", "/api/users", adminAuth, map[string]any{
		"name": "New Editor", "email": "new.editor@example.com", "password": "secret123", "role": "editor",
	})
	require.Equal(t, fiber.StatusCreated, res.status, res.raw)
	assert.Equal(t, models.RoleEditor, res.data()["role"])

	res = e.do("GET", "/api/users", adminAuth, nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.Len(t, res.list(), 2)
	assert.NotContains(t, res.raw, "password")
}

func TestNewsletter(t *testing.T) {
	e := newEnv(t, utils.CreateTempSchema(t))
	_, adminAuth := e.user(models.RoleAdmin)
	body := map[string]any{"email": "fan@example.com"}

	res := e.do("POST", "/api/newsletter/subscribe", "", body)
	require.Equal(t, fiber.StatusCreated, res.status, res.raw)
	res = e.do("POST", "/api/newsletter/subscribe", "", body)
	assert.Equal(t, fiber.StatusBadRequest, res.status)

	res = e.do("POST", "/api/newsletter/unsubscribe", "", body)
	assert.Equal(t, fiber.StatusOK, res.status)
	res = e.do("POST", "/api/newsletter/unsubscribe", "", body)
	assert.Equal(t, fiber.StatusNotFound, res.status)

	res = e.do("POST", "/api/newsletter/subscribe", "", body)
	assert.Equal(t, fiber.StatusOK, res.status)
	assert.Equal(t, true, res.data()["active"])

	res = e.do("POST", "/api/newsletter/subscribe", "", map[string]any{"email": "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, res.status)

	res = e.do("GET", "/api/newsletter", adminAuth, nil)
	require.Equal(t, fiber.StatusOK, res.status, res.raw)
	assert.Len(t, res.list(), 1)
}
