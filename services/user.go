package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cricanalyzer/events"
	"cricanalyzer/models"
	"cricanalyzer/populate"
	"cricanalyzer/query"
	"cricanalyzer/utils"
)

const (
	defaultUserLimit  = 25
	minPasswordLength = 6
)

var userSchema = query.Schema{
	Fields: map[string]query.Field{
		"name":       {Column: "name", Kind: query.String},
		"email":      {Column: "email", Kind: query.String},
		"role":       {Column: "role", Kind: query.Enum, Enum: "role"},
		"created_at": {Column: "created_at", Kind: query.Time},
		"updated_at": {Column: "updated_at", Kind: query.Time},
	},
	DefaultSort: []string{"-created_at"},
}

// UserService is the admin user directory. It also resolves token subjects
// for the auth gate.
type UserService struct {
	resource[models.User]
}

func NewUserService(deps Deps) *UserService {
	return &UserService{resource[models.User]{
		Deps:         deps,
		entity:       "user",
		label:        "User",
		schema:       userSchema,
		defaultLimit: defaultUserLimit,
		populate:     func(context.Context, []models.User, populate.View) error { return nil },
		key:          func(u *models.User) (string, string) { return u.ID, "" },
	}}
}

func (s *UserService) UserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetUsers(c *fiber.Ctx) error {
	p, err := s.params(c)
	if err != nil {
		return err
	}
	return s.list(c, p)
}

func (s *UserService) GetUser(c *fiber.Ctx) error {
	user, err := s.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, user)
}

// userInput carries the writable user fields including the plain password,
// which the model never deserializes.
type userInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Role         *string `json:"role"`
	Password     *string `json:"password"`
	ProfileImage *string `json:"profile_image"`
	Bio          *string `json:"bio"`
}

func (in userInput) apply(u *models.User) error {
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.ProfileImage != nil {
		u.ProfileImage = *in.ProfileImage
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return passwordTooShort()
		}
		return u.SetPassword(*in.Password)
	}
	return nil
}

func passwordTooShort() error {
	return &models.ValidationError{Fields: map[string]string{
		"password": "password must be at least 6 characters",
	}}
}

func parseUserInput(c *fiber.Ctx) (userInput, error) {
	var in userInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return in, utils.BadRequest("Request body must be a JSON object")
	}
	return in, nil
}

func (s *UserService) CreateUser(c *fiber.Ctx) error {
	in, err := parseUserInput(c)
	if err != nil {
		return err
	}
	if in.Password == nil {
		return &models.ValidationError{Fields: map[string]string{"password": "password is required"}}
	}
	user := &models.User{}
	if err := in.apply(user); err != nil {
		return err
	}
	if err := s.DB.WithContext(c.UserContext()).Create(user).Error; err != nil {
		return err
	}
	s.announce(c, events.Created, user)
	return sendData(c, fiber.StatusCreated, user)
}

func (s *UserService) UpdateUser(c *fiber.Ctx) error {
	user, err := s.byID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	in, err := parseUserInput(c)
	if err != nil {
		return err
	}
	if err := in.apply(user); err != nil {
		return err
	}
	if err := s.DB.WithContext(c.UserContext()).Save(user).Error; err != nil {
		return err
	}
	s.announce(c, events.Updated, user)
	return sendData(c, fiber.StatusOK, user)
}

func (s *UserService) DeleteUser(c *fiber.Ctx) error {
	return s.remove(c)
}

// EnsureAdmin creates the bootstrap admin account when no user has that email.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	admin := &models.User{Name: "Administrator", Email: email, Role: models.RoleAdmin}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}
	utils.Log.WithField("email", email).Info("[AUTH] created bootstrap admin")
	return nil
}
