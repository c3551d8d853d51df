// Package wallet exposes the balance operations of the ledger: reading the
// caller's balance and depositing funds.
package wallet

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rafaelmunetiko/Carteira/internal/ledger"
)

// Service wraps the ledger with validation and retry handling for balance
// reads and deposits.
type Service struct {
	ledger     ledger.Ledger
	logger     *slog.Logger
	maxRetries int
}

// NewService builds a wallet service.
func NewService(l ledger.Ledger, logger *slog.Logger) *Service {
	return &Service{ledger: l, logger: logger, maxRetries: 3}
}

// Balance returns the user's current balance. Fails with
// ledger.ErrWalletNotFound when no wallet exists yet.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		if err != ledger.ErrWalletNotFound {
			s.logger.Error("balance read failed", "user_id", userID.String(), "error", err)
		}
		return decimal.Zero, err
	}
	return balance, nil
}

// Deposit credits the user's wallet, creating it if absent, and returns the
// new balance. Transient serialization failures are retried with backoff.
func (s *Service) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	if !amount.IsPositive() {
		return decimal.Zero, false, ledger.ErrInvalidAmount
	}

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		balance, created, err := s.ledger.Deposit(ctx, userID, amount)
		if err == nil {
			return balance, created, nil
		}
		if !ledger.IsRetryable(err) {
			s.logger.Error("deposit failed",
				"user_id", userID.String(), "amount", amount.String(), "error", err)
			return decimal.Zero, false, err
		}
		s.logger.Warn("retrying deposit",
			"user_id", userID.String(), "attempt", attempt+1, "error", err)
		time.Sleep(time.Duration(1<<attempt) * 10 * time.Millisecond)
		lastErr = err
	}
	return decimal.Zero, false, lastErr
}
