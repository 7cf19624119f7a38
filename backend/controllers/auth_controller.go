package controllers

import (
	"errors"
	"log"
	"regexp"

	"github.com/gofiber/fiber/v2"

	"quizmaster/backend/config"
	"quizmaster/backend/services"
	"quizmaster/backend/utils"
)

type AuthController struct {
	Users  *services.UserService
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAuthController(users *services.UserService, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{Users: users, Cfg: cfg, Logger: logger}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Register godoc
// @Summary Register a new user
// @Description Creates a user identified by name and email
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name == "" || input.Email == "" {
		return utils.BadRequest(c, "Name and email are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return utils.BadRequest(c, "Invalid email format")
	}

	user, err := ac.Users.Register(input.Name, input.Email)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return utils.Conflict(c, "Email already exists")
		}
		ac.Logger.Printf("registering user %s: %v", input.Email, err)
		return utils.Fail(c, ac.Cfg, fiber.StatusInternalServerError, "Registration failed", err)
	}

	token, err := utils.GenerateSessionToken(user.ID, ac.Cfg)
	if err != nil {
		ac.Logger.Printf("minting token for user %d: %v", user.ID, err)
		return utils.Fail(c, ac.Cfg, fiber.StatusInternalServerError, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Login godoc
// @Summary Look up a user by email
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Email == "" {
		return utils.BadRequest(c, "Email is required")
	}

	user, err := ac.Users.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		ac.Logger.Printf("logging in %s: %v", input.Email, err)
		return utils.Fail(c, ac.Cfg, fiber.StatusInternalServerError, "Login failed", err)
	}

	token, err := utils.GenerateSessionToken(user.ID, ac.Cfg)
	if err != nil {
		ac.Logger.Printf("minting token for user %d: %v", user.ID, err)
		return utils.Fail(c, ac.Cfg, fiber.StatusInternalServerError, "Login failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
