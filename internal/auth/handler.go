package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lira-pay/lira_pay/internal/user"
)

// Handler exposes signup and login endpoints.
type Handler struct {
	users *user.Service
	auth  *Service
}

// NewHandler builds an auth HTTP handler.
func NewHandler(users *user.Service, auth *Service) *Handler {
	return &Handler{users: users, auth: auth}
}

type signupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new wallet owner.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	u, err := h.users.Register(c.UserContext(), user.Credentials{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":    u.ID,
		"email": u.Email,
	})
}

// Login verifies credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	token, err := h.auth.Login(c.UserContext(), user.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(token)
}
