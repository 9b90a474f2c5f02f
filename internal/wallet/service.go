package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidyastream/backend/internal/models"
)

const welcomeBonusNote = "Welcome bonus credited"

// AccountStore is the minimal account interface the wallet service needs.
// CreditBonus must be atomic and conditional on bonus_credited = FALSE: it
// returns (nil, nil) when the bonus was already credited, so concurrent
// first-logins for the same account resolve to exactly one winner.
type AccountStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	EnsureAccount(ctx context.Context, tx pgx.Tx, firebaseUID, email, name string) error
	CreditBonus(ctx context.Context, tx pgx.Tx, firebaseUID string, amountPaise int64) (*models.User, error)
	TouchLogin(ctx context.Context, tx pgx.Tx, firebaseUID string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LedgerStore is the append-only transaction history.
type LedgerStore interface {
	AppendTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
}

// EnqueueReconcileTxFunc enqueues a ledger reconcile job within the given
// transaction. Provided by main using river.Client.InsertTx; nil disables it.
type EnqueueReconcileTxFunc func(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error

type Service interface {
	CreditFirstLoginBonus(ctx context.Context, firebaseUID, email, name string) (*models.User, bool, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
}

type service struct {
	accounts         AccountStore
	ledger           LedgerStore
	bonusPaise       int64
	enqueueReconcile EnqueueReconcileTxFunc
}

func NewService(accounts AccountStore, ledger LedgerStore, bonusPaise int64, enqueueReconcile EnqueueReconcileTxFunc) Service {
	return &service{
		accounts:         accounts,
		ledger:           ledger,
		bonusPaise:       bonusPaise,
		enqueueReconcile: enqueueReconcile,
	}
}

var _ Service = (*service)(nil)

// CreditFirstLoginBonus resolves (or creates) the account for an external
// identity and credits the one-time welcome bonus at most once. The balance
// increment, the bonus flag flip, the login timestamp, and the BONUS ledger
// entry commit in one transaction or not at all. Returns the account and
// whether the bonus was newly applied by this call.
func (s *service) CreditFirstLoginBonus(ctx context.Context, firebaseUID, email, name string) (*models.User, bool, error) {
	if firebaseUID == "" || email == "" || name == "" {
		return nil, false, fmt.Errorf("%w: firebase_uid, email and name are required", models.ErrValidation)
	}

	tx, err := s.accounts.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	if err := s.accounts.EnsureAccount(ctx, tx, firebaseUID, email, name); err != nil {
		return nil, false, err
	}

	user, err := s.accounts.CreditBonus(ctx, tx, firebaseUID, s.bonusPaise)
	if err != nil {
		return nil, false, err
	}

	if user == nil {
		// Bonus already credited: record the login and nothing else.
		user, err = s.accounts.TouchLogin(ctx, tx, firebaseUID)
		if err != nil {
			return nil, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	entry := &models.Transaction{
		UserID:      user.ID,
		AmountPaise: s.bonusPaise,
		Kind:        models.TxKindBonus,
		Status:      models.TxStatusCompleted,
		Note:        welcomeBonusNote,
	}
	if err := s.ledger.AppendTx(ctx, tx, entry); err != nil {
		return nil, false, err
	}

	if s.enqueueReconcile != nil {
		if err := s.enqueueReconcile(ctx, tx, user.ID); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", models.ErrValidation)
	}
	if _, err := s.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.ledger.ListByUser(ctx, userID)
}
