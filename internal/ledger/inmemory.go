package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type inMemoryLedger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]decimal.Decimal
	records  []Record
	now      func() time.Time
}

// NewInMemory creates a concurrency-safe in-memory ledger used in unit tests
// and in dev mode when no database is configured. A single mutex serializes
// all mutations, which trivially satisfies per-wallet serialization.
func NewInMemory() Ledger {
	return &inMemoryLedger{
		balances: make(map[uuid.UUID]decimal.Decimal),
		now:      time.Now,
	}
}

func (l *inMemoryLedger) Balance(_ context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, ok := l.balances[userID]
	if !ok {
		return decimal.Zero, ErrWalletNotFound
	}
	return balance, nil
}

func (l *inMemoryLedger) Deposit(_ context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	if !amount.IsPositive() {
		return decimal.Zero, false, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[userID]
	newBalance := balance.Add(amount)
	l.balances[userID] = newBalance
	return newBalance, !ok, nil
}

func (l *inMemoryLedger) Transfer(_ context.Context, sourceUserID, destinationUserID uuid.UUID, amount decimal.Decimal) (TransferResult, error) {
	if !amount.IsPositive() {
		return TransferResult{}, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sourceBalance, ok := l.balances[sourceUserID]
	if !ok {
		return TransferResult{}, ErrWalletNotFound
	}
	destinationBalance, ok := l.balances[destinationUserID]
	if !ok {
		return TransferResult{}, ErrWalletNotFound
	}

	if sourceBalance.LessThan(amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	if sourceUserID != destinationUserID {
		sourceBalance = sourceBalance.Sub(amount)
		destinationBalance = destinationBalance.Add(amount)
		l.balances[sourceUserID] = sourceBalance
		l.balances[destinationUserID] = destinationBalance
	}

	completedAt := l.now().UTC()
	l.records = append(l.records, Record{
		SourceUserID:      sourceUserID,
		DestinationUserID: destinationUserID,
		Amount:            amount,
		CreatedAt:         completedAt,
	})

	return TransferResult{
		SourceBalance:      sourceBalance,
		DestinationBalance: destinationBalance,
		CompletedAt:        completedAt,
	}, nil
}

func (l *inMemoryLedger) OutgoingTransfers(_ context.Context, userID uuid.UUID, period Period) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.balances[userID]; !ok {
		return nil, ErrWalletNotFound
	}

	// Records are appended in commit order, so the slice is already
	// chronological.
	var out []Record
	for _, rec := range l.records {
		if rec.SourceUserID != userID {
			continue
		}
		if !period.Contains(rec.CreatedAt) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
