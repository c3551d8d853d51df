// Package payments implements the wallet-to-wallet transfer operation.
package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rafaelmunetiko/Carteira/internal/identity"
	"github.com/rafaelmunetiko/Carteira/internal/ledger"
	"github.com/rafaelmunetiko/Carteira/internal/money"
	"github.com/rafaelmunetiko/Carteira/internal/notification"
)

// TransferInput captures the data needed to move funds between wallets.
// The source is the authenticated caller; the destination is addressed by
// username.
type TransferInput struct {
	SourceUserID        uuid.UUID
	DestinationUsername string
	Amount              decimal.Decimal
}

// TransferResult describes a completed transfer.
type TransferResult struct {
	Destination   string
	Amount        decimal.Decimal
	SourceBalance decimal.Decimal
	CompletedAt   time.Time
}

// Service resolves the destination user and posts the transfer through the
// ledger.
type Service struct {
	ledger     ledger.Ledger
	users      identity.Repository
	notifier   notification.Notifier
	logger     *slog.Logger
	maxRetries int
}

// NewService constructs a payments service.
func NewService(l ledger.Ledger, users identity.Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{ledger: l, users: users, notifier: notifier, logger: logger, maxRetries: 3}
}

// Transfer atomically debits the caller, credits the destination and records
// the transfer. Lookup and validation happen before any mutation; the ledger
// re-checks the balance under a row lock, so a concurrent transfer cannot
// overdraw the source. Self-transfers are allowed and leave the balance
// untouched.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	if !input.Amount.IsPositive() {
		return TransferResult{}, ledger.ErrInvalidAmount
	}

	destination, err := s.users.FindByUsername(ctx, input.DestinationUsername)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return TransferResult{}, ledger.ErrWalletNotFound
		}
		return TransferResult{}, err
	}

	var (
		res     ledger.TransferResult
		lastErr error
	)
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		res, lastErr = s.ledger.Transfer(ctx, input.SourceUserID, destination.ID, input.Amount)
		if lastErr == nil {
			break
		}
		if !ledger.IsRetryable(lastErr) {
			if !errors.Is(lastErr, ledger.ErrInsufficientFunds) && !errors.Is(lastErr, ledger.ErrWalletNotFound) {
				s.logger.Error("transfer failed",
					"source_user_id", input.SourceUserID.String(),
					"destination", destination.Username,
					"amount", input.Amount.String(),
					"error", lastErr)
			}
			return TransferResult{}, lastErr
		}
		s.logger.Warn("retrying transfer",
			"source_user_id", input.SourceUserID.String(), "attempt", attempt+1, "error", lastErr)
		time.Sleep(time.Duration(1<<attempt) * 10 * time.Millisecond)
	}
	if lastErr != nil {
		return TransferResult{}, lastErr
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransfer,
			Destination: destination.Username,
			Body:        fmt.Sprintf("transferência de %s recebida", money.Format(input.Amount)),
		})
	}

	return TransferResult{
		Destination:   destination.Username,
		Amount:        input.Amount,
		SourceBalance: res.SourceBalance,
		CompletedAt:   res.CompletedAt,
	}, nil
}
