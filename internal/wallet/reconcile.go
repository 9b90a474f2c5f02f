package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/vidyastream/backend/internal/models"
)

// ReconcileArgs identifies the account whose cached balance should be checked
// against the ledger. A job is enqueued transactionally with every credit.
type ReconcileArgs struct {
	UserID uuid.UUID `json:"user_id"`
}

func (ReconcileArgs) Kind() string { return "ledger_reconcile" }

// UserGetter loads the cached balance side of the comparison.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LedgerSummer recomputes the balance from COMPLETED ledger entries.
type LedgerSummer interface {
	SumCompletedPaise(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ReconcileWorker verifies that a user's cached wallet balance equals the
// signed sum of their COMPLETED transactions. A mismatch means an atomic unit
// was broken somewhere; it is fatal-logged and the job fails loudly.
type ReconcileWorker struct {
	river.WorkerDefaults[ReconcileArgs]
	users  UserGetter
	ledger LedgerSummer
	log    *slog.Logger
}

func NewReconcileWorker(users UserGetter, ledger LedgerSummer, log *slog.Logger) *ReconcileWorker {
	if log == nil {
		log = slog.Default()
	}
	return &ReconcileWorker{users: users, ledger: ledger, log: log}
}

func (w *ReconcileWorker) Work(ctx context.Context, job *river.Job[ReconcileArgs]) error {
	user, err := w.users.GetByID(ctx, job.Args.UserID)
	if err != nil {
		return err
	}
	sum, err := w.ledger.SumCompletedPaise(ctx, user.ID)
	if err != nil {
		return err
	}
	if user.WalletBalancePaise != sum {
		w.log.Error("ledger invariant violated",
			"user_id", user.ID,
			"cached_balance_paise", user.WalletBalancePaise,
			"ledger_sum_paise", sum)
		return fmt.Errorf("%w: user %s cached %d, ledger %d",
			models.ErrInvariantViolation, user.ID, user.WalletBalancePaise, sum)
	}
	return nil
}
