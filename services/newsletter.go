package services

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cricanalyzer/models"
	"cricanalyzer/query"
	"cricanalyzer/utils"
)

var newsletterSchema = query.Schema{
	Fields: map[string]query.Field{
		"email":         {Column: "email", Kind: query.String},
		"active":        {Column: "active", Kind: query.Bool},
		"subscribed_at": {Column: "subscribed_at", Kind: query.Time},
	},
	DefaultSort: []string{"-subscribed_at"},
}

type NewsletterService struct {
	DB *gorm.DB
}

func NewNewsletterService(db *gorm.DB) *NewsletterService {
	return &NewsletterService{DB: db}
}

type subscriptionRequest struct {
	Email string `json:"email"`
}

func (s *NewsletterService) email(c *fiber.Ctx) (string, error) {
	var req subscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return "", utils.BadRequest("Invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := models.Validator().Var(email, "required,email"); err != nil {
		return "", &models.ValidationError{Fields: map[string]string{"email": "email must be a valid email"}}
	}
	return email, nil
}

// Subscribe is idempotent: an inactive address is reactivated.
func (s *NewsletterService) Subscribe(c *fiber.Ctx) error {
	email, err := s.email(c)
	if err != nil {
		return err
	}
	var sub models.Newsletter
	err = s.DB.WithContext(c.UserContext()).Where("email = ?", email).First(&sub).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub = models.Newsletter{Email: email, Active: true}
		if err := s.DB.WithContext(c.UserContext()).Create(&sub).Error; err != nil {
			return err
		}
		return sendData(c, fiber.StatusCreated, sub)
	case err != nil:
		return err
	case sub.Active:
		return utils.BadRequest("Email is already subscribed")
	}
	if err := s.DB.WithContext(c.UserContext()).Model(&sub).UpdateColumn("active", true).Error; err != nil {
		return err
	}
	sub.Active = true
	return sendData(c, fiber.StatusOK, sub)
}

func (s *NewsletterService) Unsubscribe(c *fiber.Ctx) error {
	email, err := s.email(c)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(c.UserContext()).Model(&models.Newsletter{}).
		Where("email = ? AND active", email).
		UpdateColumn("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("No active subscription for %s", email)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

func (s *NewsletterService) GetSubscribers(c *fiber.Ctx) error {
	p, err := query.Parse(string(c.Request().URI().QueryString()), defaultUserLimit)
	if err != nil {
		return err
	}
	res, err := query.Run[models.Newsletter](c.UserContext(), s.DB, newsletterSchema, p)
	if err != nil {
		return err
	}
	return sendList(c, res.Items, res.Pagination, res.Total)
}
