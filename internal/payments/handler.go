package payments

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rafaelmunetiko/Carteira/internal/ledger"
	"github.com/rafaelmunetiko/Carteira/internal/money"
)

// Handler exposes the transfer endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a payments handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	Destinatario string       `json:"destinatario"`
	Valor        money.Amount `json:"valor"`
}

// Transfer handles POST /transfer.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Destinatário e valor são obrigatórios."})
	}

	destinatario := strings.TrimSpace(req.Destinatario)
	if destinatario == "" || req.Valor == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Destinatário e valor são obrigatórios."})
	}

	amount, err := money.Parse(string(req.Valor))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Valor inválido."})
	}
	if !amount.IsPositive() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "O valor deve ser maior que zero."})
	}

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		SourceUserID:        userID,
		DestinationUsername: destinatario,
		Amount:              amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrWalletNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Carteira de origem ou destino não encontrada."})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Saldo insuficiente."})
		case errors.Is(err, ledger.ErrInvalidAmount):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Valor inválido."})
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"mensagem": fmt.Sprintf("Transferência de %s para %s concluída.", money.Format(res.Amount), res.Destination),
	})
}
