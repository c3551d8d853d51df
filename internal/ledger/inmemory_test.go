package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDepositCreatesWallet(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	userID := uuid.New()

	_, err := l.Balance(ctx, userID)
	assert.ErrorIs(t, err, ErrWalletNotFound)

	balance, created, err := l.Deposit(ctx, userID, decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "100.00", balance.StringFixed(2))

	balance, created, err = l.Deposit(ctx, userID, decimal.RequireFromString("0.50"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "100.50", balance.StringFixed(2))
}

func TestInMemoryDepositRejectsNonPositive(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	_, _, err := l.Deposit(ctx, uuid.New(), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = l.Deposit(ctx, uuid.New(), decimal.RequireFromString("-1"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestInMemoryTransferMovesFunds(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	SeedBalance(l, alice, decimal.RequireFromString("100.00"))
	SeedBalance(l, bob, decimal.Zero)

	res, err := l.Transfer(ctx, alice, bob, decimal.RequireFromString("40.00"))
	require.NoError(t, err)
	assert.Equal(t, "60.00", res.SourceBalance.StringFixed(2))
	assert.Equal(t, "40.00", res.DestinationBalance.StringFixed(2))

	records, err := l.OutgoingTransfers(ctx, alice, Period{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, bob, records[0].DestinationUserID)
	assert.Equal(t, "40.00", records[0].Amount.StringFixed(2))

	// Incoming transfers are not part of bob's outgoing history.
	records, err = l.OutgoingTransfers(ctx, bob, Period{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInMemoryTransferInsufficientFunds(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	SeedBalance(l, alice, decimal.RequireFromString("10.00"))
	SeedBalance(l, bob, decimal.Zero)

	_, err := l.Transfer(ctx, alice, bob, decimal.RequireFromString("20.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	balance, err := l.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "10.00", balance.StringFixed(2))

	records, err := l.OutgoingTransfers(ctx, alice, Period{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInMemoryTransferUnknownWallets(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice := uuid.New()
	SeedBalance(l, alice, decimal.RequireFromString("10.00"))

	_, err := l.Transfer(ctx, alice, uuid.New(), decimal.RequireFromString("5.00"))
	assert.ErrorIs(t, err, ErrWalletNotFound)

	_, err = l.Transfer(ctx, uuid.New(), alice, decimal.RequireFromString("5.00"))
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestInMemorySelfTransferIsNetZero(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice := uuid.New()
	SeedBalance(l, alice, decimal.RequireFromString("50.00"))

	res, err := l.Transfer(ctx, alice, alice, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.Equal(t, "50.00", res.SourceBalance.StringFixed(2))

	balance, err := l.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "50.00", balance.StringFixed(2))

	// A self-transfer is still recorded.
	records, err := l.OutgoingTransfers(ctx, alice, Period{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, alice, records[0].DestinationUserID)
}

func TestInMemorySelfTransferStillRequiresFunds(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice := uuid.New()
	SeedBalance(l, alice, decimal.RequireFromString("10.00"))

	_, err := l.Transfer(ctx, alice, alice, decimal.RequireFromString("20.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestInMemoryConcurrentTransfersNeverOverdraw(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	SeedBalance(l, alice, decimal.RequireFromString("100.00"))
	SeedBalance(l, bob, decimal.Zero)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Transfer(ctx, alice, bob, decimal.RequireFromString("10.00"))
			if err == nil {
				succeeded.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, succeeded.Load())

	balance, err := l.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "0.00", balance.StringFixed(2))

	balance, err = l.Balance(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "100.00", balance.StringFixed(2))
}

func TestInMemoryConcurrentDeposits(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice := uuid.New()
	SeedBalance(l, alice, decimal.Zero)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := l.Deposit(ctx, alice, decimal.RequireFromString("1.00"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := l.Balance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "200.00", balance.StringFixed(2))
}

func TestInMemoryOutgoingTransfersPeriodFilter(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	SeedBalance(l, alice, decimal.RequireFromString("100.00"))
	SeedBalance(l, bob, decimal.Zero)

	days := []time.Time{
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		current := day
		SetClock(l, func() time.Time { return current })
		_, err := l.Transfer(ctx, alice, bob, decimal.RequireFromString("1.00"))
		require.NoError(t, err)
	}

	all, err := l.OutgoingTransfers(ctx, alice, Period{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Inclusive [2026-03-02, 2026-03-02] expressed as From/exclusive-To.
	filtered, err := l.OutgoingTransfers(ctx, alice, Period{
		From: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, days[1], filtered[0].CreatedAt)

	// Open-ended lower bound.
	filtered, err = l.OutgoingTransfers(ctx, alice, Period{
		To: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	// Open-ended upper bound.
	filtered, err = l.OutgoingTransfers(ctx, alice, Period{
		From: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestInMemoryOutgoingTransfersWithoutWallet(t *testing.T) {
	l := NewInMemory()

	_, err := l.OutgoingTransfers(context.Background(), uuid.New(), Period{})
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
