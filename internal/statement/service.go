// Package statement provides read-only access to a user's outgoing transfer
// history, optionally bounded by a date range.
package statement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rafaelmunetiko/Carteira/internal/identity"
	"github.com/rafaelmunetiko/Carteira/internal/ledger"
)

// Entry is one outgoing transfer as presented to the caller.
type Entry struct {
	Destination string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// Service reads the transfer log and resolves destination usernames.
type Service struct {
	ledger ledger.Ledger
	users  identity.Repository
}

// NewService builds a statement service.
func NewService(l ledger.Ledger, users identity.Repository) *Service {
	return &Service{ledger: l, users: users}
}

// List returns the caller's outgoing transfers inside the period, oldest
// first. Only transfers sent by the caller are listed; incoming transfers do
// not appear.
func (s *Service) List(ctx context.Context, userID uuid.UUID, period ledger.Period) ([]Entry, error) {
	records, err := s.ledger.OutgoingTransfers(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	usernames := make(map[uuid.UUID]string)
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		name, ok := usernames[rec.DestinationUserID]
		if !ok {
			user, err := s.users.FindByID(ctx, rec.DestinationUserID)
			if err != nil {
				return nil, err
			}
			name = user.Username
			usernames[rec.DestinationUserID] = name
		}
		entries = append(entries, Entry{
			Destination: name,
			Amount:      rec.Amount,
			CreatedAt:   rec.CreatedAt,
		})
	}
	return entries, nil
}
