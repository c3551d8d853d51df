package statement

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rafaelmunetiko/Carteira/internal/ledger"
	"github.com/rafaelmunetiko/Carteira/internal/money"
)

const dateLayout = "2006-01-02"

// Handler exposes the transfer-history endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds a statement HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type entryResponse struct {
	Destino string    `json:"destino"`
	Valor   string    `json:"valor"`
	Data    time.Time `json:"data"`
}

// List handles GET /transfers?inicio=<date>&fim=<date>. Both bounds are
// optional ISO dates and inclusive; fim covers the whole day.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(uuid.UUID)

	period, err := parsePeriod(c.Query("inicio"), c.Query("fim"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Data inválida."})
	}

	entries, err := h.service.List(c.UserContext(), userID, period)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Carteira não encontrada."})
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	response := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, entryResponse{
			Destino: entry.Destination,
			Valor:   money.Format(entry.Amount),
			Data:    entry.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(response)
}

func parsePeriod(inicio, fim string) (ledger.Period, error) {
	var period ledger.Period
	if inicio != "" {
		from, err := time.Parse(dateLayout, inicio)
		if err != nil {
			return ledger.Period{}, err
		}
		period.From = from.UTC()
	}
	if fim != "" {
		to, err := time.Parse(dateLayout, fim)
		if err != nil {
			return ledger.Period{}, err
		}
		// Inclusive of the whole fim day.
		period.To = to.UTC().AddDate(0, 0, 1)
	}
	return period, nil
}
