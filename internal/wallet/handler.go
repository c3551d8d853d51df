package wallet

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rafaelmunetiko/Carteira/internal/ledger"
	"github.com/rafaelmunetiko/Carteira/internal/money"
)

// Handler exposes the balance endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Balance handles GET /balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)

	balance, err := h.service.Balance(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Carteira não encontrada."})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"saldo": money.Format(balance)})
}

type depositRequest struct {
	Valor money.Amount `json:"valor"`
}

// AddBalance handles POST /balance/add.
func (h *Handler) AddBalance(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)

	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Valor inválido."})
	}

	amount, err := money.Parse(string(req.Valor))
	if err != nil || !amount.IsPositive() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Valor inválido."})
	}

	balance, _, err := h.service.Deposit(c.UserContext(), userID, amount)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Valor inválido."})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"mensagem":   fmt.Sprintf("Adicionado %s ao saldo. Novo saldo: %s", money.Format(amount), money.Format(balance)),
		"novo_saldo": money.Format(balance),
	})
}
