package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyastream/backend/internal/models"
)

// TransactionRepo is the append-only ledger store. There are no update or
// delete paths: a stored transaction is immutable.
type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// AppendTx appends a ledger entry inside the given transaction, so the write
// commits or rolls back together with the balance update it accounts for.
func (r *TransactionRepo) AppendTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	if err := validateEntry(t); err != nil {
		return err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err := tx.QueryRow(ctx, `
		INSERT INTO transactions (id, user_id, amount_paise, kind, status, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, t.ID, t.UserID, t.AmountPaise, t.Kind, t.Status, t.Note).Scan(&t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: user %s", models.ErrNotFound, t.UserID)
		}
		return err
	}
	return nil
}

// ListByUser returns the user's transactions, newest first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount_paise, kind, status, note, created_at
		FROM transactions WHERE user_id = $1 ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.AmountPaise, &t.Kind, &t.Status, &t.Note, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// SumCompletedPaise recomputes the balance from the ledger: the signed sum of
// all COMPLETED transactions for the user.
func (r *TransactionRepo) SumCompletedPaise(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN kind = 'PURCHASE' THEN -amount_paise ELSE amount_paise END), 0)
		FROM transactions WHERE user_id = $1 AND status = 'COMPLETED'
	`, userID).Scan(&sum)
	return sum, err
}

func validateEntry(t *models.Transaction) error {
	if t.UserID == uuid.Nil {
		return fmt.Errorf("%w: transaction requires a user", models.ErrValidation)
	}
	if t.AmountPaise <= 0 {
		return fmt.Errorf("%w: amount must be > 0, got %d", models.ErrValidation, t.AmountPaise)
	}
	if !models.ValidTxKind(t.Kind) {
		return fmt.Errorf("%w: unknown transaction kind %q", models.ErrValidation, t.Kind)
	}
	if !models.ValidTxStatus(t.Status) {
		return fmt.Errorf("%w: unknown transaction status %q", models.ErrValidation, t.Status)
	}
	return nil
}
