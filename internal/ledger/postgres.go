package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresLedger persists wallets and transfer records in PostgreSQL.
type PostgresLedger struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres constructs a Postgres-backed ledger.
func NewPostgres(db *pgxpool.Pool, logger *slog.Logger) *PostgresLedger {
	return &PostgresLedger{db: db, logger: logger}
}

// Balance returns the committed balance of the user's wallet.
func (l *PostgresLedger) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := l.db.QueryRow(ctx,
		`SELECT balance FROM wallets WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrWalletNotFound
	}
	if err != nil {
		l.logger.Error("failed to read balance", "user_id", userID.String(), "error", err)
		return decimal.Zero, err
	}
	return balance, nil
}

// Deposit credits the user's wallet inside a single transaction, creating the
// wallet first if it does not exist.
func (l *PostgresLedger) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	if !amount.IsPositive() {
		return decimal.Zero, false, ErrInvalidAmount
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("begin deposit tx: %w", err)
	}
	defer l.rollback(ctx, tx, userID)

	wallet, err := lockWalletByUser(ctx, tx, userID)
	created := false
	if errors.Is(err, ErrWalletNotFound) {
		if _, err := tx.Exec(ctx, `INSERT INTO wallets (id, user_id, balance) VALUES ($1, $2, 0)
            ON CONFLICT (user_id) DO NOTHING`, uuid.New(), userID); err != nil {
			return decimal.Zero, false, fmt.Errorf("create wallet: %w", err)
		}
		wallet, err = lockWalletByUser(ctx, tx, userID)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("reselect wallet: %w", err)
		}
		created = true
	} else if err != nil {
		return decimal.Zero, false, err
	}

	newBalance := wallet.balance.Add(amount)
	if _, err := tx.Exec(ctx,
		`UPDATE wallets SET balance = $1 WHERE id = $2`, newBalance, wallet.id); err != nil {
		return decimal.Zero, false, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, false, fmt.Errorf("commit deposit: %w", err)
	}
	return newBalance, created, nil
}

// Transfer moves funds between two wallets and appends a transfer record,
// all inside one transaction. Wallet rows are locked in a deterministic
// order to avoid deadlocks, and the balance check runs against the locked
// row so concurrent transfers cannot jointly overdraw the source.
func (l *PostgresLedger) Transfer(ctx context.Context, sourceUserID, destinationUserID uuid.UUID, amount decimal.Decimal) (TransferResult, error) {
	if !amount.IsPositive() {
		return TransferResult{}, ErrInvalidAmount
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return TransferResult{}, fmt.Errorf("begin transfer tx: %w", err)
	}
	defer l.rollback(ctx, tx, sourceUserID)

	var source, destination walletRow
	if sourceUserID == destinationUserID {
		source, err = lockWalletByUser(ctx, tx, sourceUserID)
		if err != nil {
			return TransferResult{}, err
		}
		destination = source
	} else {
		first, second := sourceUserID, destinationUserID
		if second.String() < first.String() {
			first, second = second, first
		}
		firstRow, err := lockWalletByUser(ctx, tx, first)
		if err != nil {
			return TransferResult{}, err
		}
		secondRow, err := lockWalletByUser(ctx, tx, second)
		if err != nil {
			return TransferResult{}, err
		}
		source, destination = firstRow, secondRow
		if first != sourceUserID {
			source, destination = secondRow, firstRow
		}
	}

	if source.balance.LessThan(amount) {
		return TransferResult{}, ErrInsufficientFunds
	}

	sourceBalance := source.balance
	destinationBalance := destination.balance
	if source.id != destination.id {
		sourceBalance = source.balance.Sub(amount)
		destinationBalance = destination.balance.Add(amount)
		if _, err := tx.Exec(ctx,
			`UPDATE wallets SET balance = $1 WHERE id = $2`, sourceBalance, source.id); err != nil {
			return TransferResult{}, fmt.Errorf("debit source: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE wallets SET balance = $1 WHERE id = $2`, destinationBalance, destination.id); err != nil {
			return TransferResult{}, fmt.Errorf("credit destination: %w", err)
		}
	}

	var completedAt time.Time
	if err := tx.QueryRow(ctx, `INSERT INTO transfers (source_wallet_id, destination_wallet_id, amount)
        VALUES ($1, $2, $3) RETURNING created_at`, source.id, destination.id, amount).Scan(&completedAt); err != nil {
		return TransferResult{}, fmt.Errorf("append transfer record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return TransferResult{}, fmt.Errorf("commit transfer: %w", err)
	}

	return TransferResult{
		SourceBalance:      sourceBalance,
		DestinationBalance: destinationBalance,
		CompletedAt:        completedAt.UTC(),
	}, nil
}

// OutgoingTransfers returns the user's outgoing transfer records inside the
// period, oldest first.
func (l *PostgresLedger) OutgoingTransfers(ctx context.Context, userID uuid.UUID, period Period) ([]Record, error) {
	var walletID uuid.UUID
	err := l.db.QueryRow(ctx, `SELECT id FROM wallets WHERE user_id = $1`, userID).Scan(&walletID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}

	query := `SELECT sw.user_id, dw.user_id, t.amount, t.created_at
        FROM transfers t
        JOIN wallets sw ON sw.id = t.source_wallet_id
        JOIN wallets dw ON dw.id = t.destination_wallet_id
        WHERE t.source_wallet_id = $1`
	args := []any{walletID}

	if !period.From.IsZero() {
		args = append(args, period.From)
		query += fmt.Sprintf(" AND t.created_at >= $%d", len(args))
	}
	if !period.To.IsZero() {
		args = append(args, period.To)
		query += fmt.Sprintf(" AND t.created_at < $%d", len(args))
	}
	query += " ORDER BY t.created_at ASC"

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.SourceUserID, &rec.DestinationUserID, &rec.Amount, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

type walletRow struct {
	id      uuid.UUID
	balance decimal.Decimal
}

func lockWalletByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (walletRow, error) {
	var row walletRow
	err := tx.QueryRow(ctx,
		`SELECT id, balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID).Scan(&row.id, &row.balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return walletRow{}, ErrWalletNotFound
	}
	if err != nil {
		return walletRow{}, fmt.Errorf("lock wallet: %w", err)
	}
	return row, nil
}

func (l *PostgresLedger) rollback(ctx context.Context, tx pgx.Tx, userID uuid.UUID) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		l.logger.Error("failed to rollback transaction", "user_id", userID.String(), "error", err)
	}
}
