// Package ledger owns wallet balances and the append-only transfer log. All
// balance mutations go through an atomic transaction that locks the affected
// wallet rows, so concurrent transfers can never overdraw a wallet.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var (
	// ErrWalletNotFound occurs when a user has no wallet yet. Wallets are
	// created lazily by the first deposit.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientFunds occurs when a transfer would drive the source
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount occurs when an operation amount is not strictly
	// positive.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Record is one completed transfer, immutable once written.
type Record struct {
	SourceUserID      uuid.UUID
	DestinationUserID uuid.UUID
	Amount            decimal.Decimal
	CreatedAt         time.Time
}

// Period bounds a transfer-log query. Zero fields are open-ended; To is
// exclusive so callers can express whole-day inclusive ranges.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether ts falls inside the period.
func (p Period) Contains(ts time.Time) bool {
	if !p.From.IsZero() && ts.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !ts.Before(p.To) {
		return false
	}
	return true
}

// TransferResult captures the post-commit state of a transfer.
type TransferResult struct {
	SourceBalance      decimal.Decimal
	DestinationBalance decimal.Decimal
	CompletedAt        time.Time
}

// Ledger defines the contract implemented by ledger backends.
type Ledger interface {
	// Balance returns the current balance of the user's wallet.
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// Deposit atomically credits the user's wallet, creating it with a zero
	// balance first if absent. It returns the new balance and whether the
	// wallet was created by this call.
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error)

	// Transfer atomically debits the source wallet, credits the destination
	// wallet and appends a Record. A transfer between a wallet and itself is
	// permitted and has net-zero effect, but is still recorded.
	Transfer(ctx context.Context, sourceUserID, destinationUserID uuid.UUID, amount decimal.Decimal) (TransferResult, error)

	// OutgoingTransfers lists the user's outgoing transfers inside the
	// period, oldest first. Incoming transfers are not reported.
	OutgoingTransfers(ctx context.Context, userID uuid.UUID, period Period) ([]Record, error)
}

// IsRetryable reports whether the error is a transient Postgres
// serialization or deadlock failure worth retrying.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
