package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/vidyastream/backend/internal/models"
)

type stubUsers struct {
	user *models.User
}

func (s *stubUsers) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, nil
}

type stubSummer struct {
	sum int64
}

func (s *stubSummer) SumCompletedPaise(context.Context, uuid.UUID) (int64, error) {
	return s.sum, nil
}

func TestReconcileWorker_BalanceMatches(t *testing.T) {
	user := &models.User{ID: uuid.New(), WalletBalancePaise: 50000}
	w := NewReconcileWorker(&stubUsers{user: user}, &stubSummer{sum: 50000}, nil)

	job := &river.Job[ReconcileArgs]{Args: ReconcileArgs{UserID: user.ID}}
	if err := w.Work(context.Background(), job); err != nil {
		t.Fatalf("Work: %v", err)
	}
}

func TestReconcileWorker_BalanceMismatch(t *testing.T) {
	user := &models.User{ID: uuid.New(), WalletBalancePaise: 50000}
	w := NewReconcileWorker(&stubUsers{user: user}, &stubSummer{sum: 49000}, nil)

	job := &river.Job[ReconcileArgs]{Args: ReconcileArgs{UserID: user.ID}}
	err := w.Work(context.Background(), job)
	if !errors.Is(err, models.ErrInvariantViolation) {
		t.Fatalf("Work: got %v, want ErrInvariantViolation", err)
	}
}
