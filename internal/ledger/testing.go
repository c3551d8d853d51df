package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedBalance is a test helper that creates a wallet with the given balance
// when using the in-memory ledger.
func SeedBalance(l Ledger, userID uuid.UUID, balance decimal.Decimal) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.balances[userID] = balance
	}
}

// SetClock is a test helper that overrides the in-memory ledger's clock so
// transfer records get deterministic timestamps.
func SetClock(l Ledger, now func() time.Time) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.now = now
	}
}
