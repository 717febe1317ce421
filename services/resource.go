package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cricanalyzer/events"
	"cricanalyzer/middleware"
	"cricanalyzer/populate"
	"cricanalyzer/query"
	"cricanalyzer/utils"
)

// Deps are shared by every content service.
type Deps struct {
	DB       *gorm.DB
	Populate *populate.Populator
	Events   events.Publisher
	Media    utils.MediaStore
}

func NewDeps(db *gorm.DB, publisher events.Publisher, media utils.MediaStore) Deps {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return Deps{DB: db, Populate: populate.New(db), Events: publisher, Media: media}
}

// immutable fields are owned by the server and stripped from request bodies.
var immutable = []string{"id", "slug", "created_at", "updated_at"}

// resource implements the CRUD flow shared by content entities.
type resource[T any] struct {
	Deps
	entity       string // event and log name, e.g. "news"
	label        string // message name, e.g. "News"
	schema       query.Schema
	defaultLimit int
	populate     func(ctx context.Context, items []T, v populate.View) error
	key          func(*T) (id, slug string)
}

func (r *resource[T]) params(c *fiber.Ctx) (query.Params, error) {
	return query.Parse(string(c.Request().URI().QueryString()), r.defaultLimit)
}

// list runs the query builder and answers with the list envelope.
func (r *resource[T]) list(c *fiber.Ctx, p query.Params, scopes ...func(*gorm.DB) *gorm.DB) error {
	res, err := query.Run[T](c.UserContext(), r.DB, r.schema, p, scopes...)
	if err != nil {
		return err
	}
	if err := r.populate(c.UserContext(), res.Items, populate.List); err != nil {
		return err
	}
	return sendList(c, res.Items, res.Pagination, res.Total)
}

func (r *resource[T]) byID(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.NotFound("%s not found with id of %s", r.label, id)
	}
	rec := new(T)
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("%s not found with id of %s", r.label, id)
	}
	return rec, err
}

func (r *resource[T]) bySlug(ctx context.Context, slug string) (*T, error) {
	rec := new(T)
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFound("%s not found with slug of %s", r.label, slug)
	}
	return rec, err
}

func (r *resource[T]) detail(c *fiber.Ctx, rec *T) error {
	items := []T{*rec}
	if err := r.populate(c.UserContext(), items, populate.Detail); err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, items[0])
}

func (r *resource[T]) getByID(c *fiber.Ctx) error {
	rec, err := r.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return r.detail(c, rec)
}

func (r *resource[T]) getBySlug(c *fiber.Ctx) error {
	rec, err := r.bySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return r.detail(c, rec)
}

// create decodes the body into a new record. prepare may fill server-side
// fields before the save hooks run.
func (r *resource[T]) create(c *fiber.Ctx, prepare func(*T)) error {
	rec := new(T)
	if err := decodeBody(c, rec); err != nil {
		return err
	}
	if prepare != nil {
		prepare(rec)
	}
	if err := r.DB.WithContext(c.UserContext()).Create(rec).Error; err != nil {
		return err
	}
	r.announce(c, events.Created, rec)
	return sendData(c, fiber.StatusCreated, rec)
}

// update merges the body over the stored record and saves it, so slug and
// timestamp hooks see the full record.
func (r *resource[T]) update(c *fiber.Ctx) error {
	rec, err := r.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := decodeBody(c, rec); err != nil {
		return err
	}
	if err := r.DB.WithContext(c.UserContext()).Save(rec).Error; err != nil {
		return err
	}
	r.announce(c, events.Updated, rec)
	return sendData(c, fiber.StatusOK, rec)
}

func (r *resource[T]) remove(c *fiber.Ctx) error {
	rec, err := r.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(c.UserContext()).Delete(rec).Error; err != nil {
		return err
	}
	r.announce(c, events.Deleted, rec)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func (r *resource[T]) announce(c *fiber.Ctx, kind string, rec *T) {
	id, slug := r.key(rec)
	events.Announce(c.UserContext(), r.Events, events.ContentEvent{Type: kind, Entity: r.entity, ID: id, Slug: slug})
	fields := logrus.Fields{"entity": r.entity, "id": id}
	if user := middleware.CurrentUser(c); user != nil {
		fields["user_id"] = user.ID
	}
	utils.Log.WithFields(fields).Infof("[Content] %s %s", r.entity, kind)
}

// decodeBody unmarshals the JSON body over dst, ignoring server-owned fields.
func decodeBody(c *fiber.Ctx, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return utils.BadRequest("Request body must be a JSON object")
	}
	for _, k := range immutable {
		delete(fields, k)
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return utils.BadRequest("Invalid value for %s", typeErr.Field)
		}
		return utils.BadRequest("Invalid request body")
	}
	return nil
}

func sendData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func sendList[T any](c *fiber.Ctx, items []T, pagination query.Pagination, total int64) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(items),
		"total":      total,
		"pagination": pagination,
		"data":       items,
	})
}

func sendFeed[T any](c *fiber.Ctx, items []T) error {
	return c.JSON(fiber.Map{"success": true, "count": len(items), "data": items})
}
