package services

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cricanalyzer/middleware"
	"cricanalyzer/models"
	"cricanalyzer/utils"
)

// AuthService issues bearer tokens. Tokens are stateless; logout is a client
// concern.
type AuthService struct {
	DB     *gorm.DB
	Signer *utils.TokenSigner
}

func NewAuthService(db *gorm.DB, signer *utils.TokenSigner) *AuthService {
	return &AuthService{DB: db, Signer: signer}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateDetailsRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	ProfileImage *string `json:"profile_image"`
	Bio          *string `json:"bio"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *AuthService) sendToken(c *fiber.Ctx, status int, user *models.User) error {
	token, err := s.Signer.Sign(user.ID)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"success": true, "token": token})
}

// Register creates a reader account. Elevated roles are granted by admins only.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if len(req.Password) < minPasswordLength {
		return passwordTooShort()
	}
	user := &models.User{Name: req.Name, Email: req.Email, Role: models.RoleUser}
	if err := user.SetPassword(req.Password); err != nil {
		return err
	}
	if err := s.DB.WithContext(c.UserContext()).Create(user).Error; err != nil {
		return err
	}
	utils.Log.WithField("user_id", user.ID).Info("[AUTH] registered")
	return s.sendToken(c, fiber.StatusCreated, user)
}

func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return utils.BadRequest("Please provide an email and password")
	}
	var user models.User
	err := s.DB.WithContext(c.UserContext()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return err
	}
	if !user.MatchPassword(req.Password) {
		utils.Log.WithField("user_id", user.ID).Warn("[AUTH] password mismatch")
		return utils.Unauthorized("Invalid credentials")
	}
	return s.sendToken(c, fiber.StatusOK, &user)
}

func (s *AuthService) Me(c *fiber.Ctx) error {
	return sendData(c, fiber.StatusOK, middleware.CurrentUser(c))
}

func (s *AuthService) UpdateDetails(c *fiber.Ctx) error {
	var req updateDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	user := middleware.CurrentUser(c)
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if err := s.DB.WithContext(c.UserContext()).Save(user).Error; err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, user)
}

func (s *AuthService) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest("Invalid request body")
	}
	user := middleware.CurrentUser(c)
	if !user.MatchPassword(req.CurrentPassword) {
		return utils.Unauthorized("Password is incorrect")
	}
	if len(req.NewPassword) < minPasswordLength {
		return passwordTooShort()
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.DB.WithContext(c.UserContext()).Save(user).Error; err != nil {
		return err
	}
	utils.Log.WithField("user_id", user.ID).Info("[AUTH] password changed")
	return s.sendToken(c, fiber.StatusOK, user)
}
