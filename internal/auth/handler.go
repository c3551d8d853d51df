package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/rafaelmunetiko/Carteira/internal/identity"
)

// Handler exposes the registration and login endpoints.
type Handler struct {
	users  *identity.Service
	tokens *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(users *identity.Service, tokens *Service) *Handler {
	return &Handler{users: users, tokens: tokens}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new user account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	_, err := h.users.Register(c.UserContext(), identity.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrMissingCredentials):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Usuário e senha são obrigatórios."})
		case errors.Is(err, identity.ErrUsernameTaken):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Usuário já existe."})
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"msg": "Usuário criado com sucesso!"})
}

// Login verifies credentials and returns a refresh/access token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Authenticate(c.UserContext(), identity.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"msg": "Credenciais inválidas!"})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(pair)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh issues a new access token from a valid refresh token.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid refresh token")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"access": access})
}
