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

const userColumns = `id, firebase_uid, email, name, role, password_hash, wallet_balance_paise, bonus_credited, streak_count, last_login_at, created_at`

// streakCaseSQL keeps streak_count consistent with the login being recorded:
// same calendar day leaves it alone, the next day extends it, a gap resets it.
const streakCaseSQL = `CASE
			WHEN last_login_at IS NULL THEN 1
			WHEN last_login_at::date = now()::date THEN streak_count
			WHEN last_login_at::date = now()::date - 1 THEN streak_count + 1
			ELSE 1
		END`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// EnsureAccount creates the user for the given external identity if it does
// not exist yet. A concurrent writer losing the uniqueness race on
// firebase_uid is absorbed by DO NOTHING and falls through to the read path.
func (r *UserRepo) EnsureAccount(ctx context.Context, tx pgx.Tx, firebaseUID, email, name string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (firebase_uid, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (firebase_uid) DO NOTHING
	`, firebaseUID, email, name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// A different firebase_uid already owns this email.
			return fmt.Errorf("%w: email %s", models.ErrConflict, email)
		}
		return err
	}
	return nil
}

// CreditBonus atomically credits the welcome bonus iff it has not been
// credited yet. The conditional UPDATE takes the row lock that serializes
// concurrent first-logins for the same account: only one of them observes
// bonus_credited = FALSE. Returns (nil, nil) when the bonus was already
// credited, and the updated user when this call won.
func (r *UserRepo) CreditBonus(ctx context.Context, tx pgx.Tx, firebaseUID string, amountPaise int64) (*models.User, error) {
	if amountPaise <= 0 {
		return nil, fmt.Errorf("%w: bonus amount must be > 0, got %d", models.ErrValidation, amountPaise)
	}
	row := tx.QueryRow(ctx, `
		UPDATE users SET
			wallet_balance_paise = wallet_balance_paise + $2,
			bonus_credited = TRUE,
			streak_count = `+streakCaseSQL+`,
			last_login_at = now()
		WHERE firebase_uid = $1 AND bonus_credited = FALSE
		RETURNING `+userColumns+`
	`, firebaseUID, amountPaise)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// TouchLogin records a login without touching the wallet. Always safe to apply.
func (r *UserRepo) TouchLogin(ctx context.Context, tx pgx.Tx, firebaseUID string) (*models.User, error) {
	row := tx.QueryRow(ctx, `
		UPDATE users SET
			streak_count = `+streakCaseSQL+`,
			last_login_at = now()
		WHERE firebase_uid = $1
		RETURNING `+userColumns+`
	`, firebaseUID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, firebaseUID)
	}
	return u, err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return u, err
}

func (r *UserRepo) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`, firebaseUID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, firebaseUID)
	}
	return u, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, email)
	}
	return u, err
}

// EnsureAdmin upserts the bootstrap admin account. The synthetic firebase_uid
// keeps admins out of the external-identity namespace.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, name, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (firebase_uid, email, name, role, password_hash)
		VALUES ('admin:' || $1, $1, $2, 'ADMIN', $3)
		ON CONFLICT (email) DO UPDATE SET name = $2, role = 'ADMIN', password_hash = $3
	`, email, name, passwordHash)
	return err
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.Name, &u.Role, &u.PasswordHash,
		&u.WalletBalancePaise, &u.BonusCredited, &u.StreakCount, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
