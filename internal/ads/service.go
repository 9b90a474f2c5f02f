package ads

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"

	"github.com/vidyastream/backend/internal/models"
)

// Store is the minimal ad storage interface for selection and click counting.
type Store interface {
	ListActiveByPlacement(ctx context.Context, placement string) ([]*models.Ad, error)
	IncrementClick(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	// SelectForPlacement draws one active ad for the placement, with each
	// candidate's probability proportional to its weight. Returns (nil, nil)
	// when the placement has nothing to show.
	SelectForPlacement(ctx context.Context, placement string) (*models.Ad, error)
	// RecordClick increments the ad's click counter by exactly one.
	RecordClick(ctx context.Context, adID uuid.UUID) error
}

type service struct {
	store Store
	// draw returns a uniform value in [0, n); swapped out in tests.
	draw func(n int64) int64
}

func NewService(store Store) Service {
	return &service{store: store, draw: rand.Int64N}
}

var _ Service = (*service)(nil)

func (s *service) SelectForPlacement(ctx context.Context, placement string) (*models.Ad, error) {
	if !models.ValidPlacement(placement) {
		return nil, fmt.Errorf("%w: unknown placement %q", models.ErrValidation, placement)
	}
	candidates, err := s.store.ListActiveByPlacement(ctx, placement)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Cumulative-weight sampling: one uniform draw over the prefix-sum range,
	// then a binary search. Memory stays proportional to the candidate count,
	// not the total weight.
	prefix := make([]int64, len(candidates))
	var total int64
	for i, ad := range candidates {
		total += ad.Weight
		prefix[i] = total
	}

	n := s.draw(total)
	idx := sort.Search(len(prefix), func(i int) bool { return prefix[i] > n })
	return candidates[idx], nil
}

func (s *service) RecordClick(ctx context.Context, adID uuid.UUID) error {
	if adID == uuid.Nil {
		return fmt.Errorf("%w: ad id is required", models.ErrValidation)
	}
	return s.store.IncrementClick(ctx, adID)
}
