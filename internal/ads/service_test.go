package ads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/vidyastream/backend/internal/models"
)

// ---------------------------------------------------------------------------
// In-memory Store mock
// ---------------------------------------------------------------------------

type mockAdStore struct {
	mu     sync.Mutex
	ads    []*models.Ad
	clicks map[uuid.UUID]int64
	err    error
}

func newMockAdStore(ads ...*models.Ad) *mockAdStore {
	return &mockAdStore{ads: ads, clicks: make(map[uuid.UUID]int64)}
}

func (m *mockAdStore) ListActiveByPlacement(_ context.Context, placement string) ([]*models.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.Ad
	for _, a := range m.ads {
		if a.Active && a.Placement == placement {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAdStore) IncrementClick(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.ads {
		if a.ID == id {
			m.clicks[id]++
			return nil
		}
	}
	return fmt.Errorf("%w: ad %s", models.ErrNotFound, id)
}

func ad(placement string, weight int64) *models.Ad {
	return &models.Ad{
		ID:        uuid.New(),
		Placement: placement,
		ImageURL:  "https://cdn.example.com/ad.png",
		LinkURL:   "https://example.com",
		Title:     "title",
		Active:    true,
		Weight:    weight,
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

// Sweeping the draw over every value in [0, totalWeight) must hit each ad
// exactly weight times. This checks the whole distribution, not a sample.
func TestSelectForPlacement_WeightedDistribution(t *testing.T) {
	a1 := ad(models.PlacementBanner, 1)
	a2 := ad(models.PlacementBanner, 2)
	a3 := ad(models.PlacementBanner, 3)
	store := newMockAdStore(a1, a2, a3)

	var next int64
	svc := &service{store: store, draw: func(n int64) int64 {
		if n != 6 {
			t.Fatalf("draw range: got %d, want 6", n)
		}
		v := next
		next++
		return v
	}}

	hits := make(map[uuid.UUID]int)
	for i := 0; i < 6; i++ {
		got, err := svc.SelectForPlacement(context.Background(), models.PlacementBanner)
		if err != nil {
			t.Fatalf("SelectForPlacement: %v", err)
		}
		hits[got.ID]++
	}

	want := map[uuid.UUID]int{a1.ID: 1, a2.ID: 2, a3.ID: 3}
	for id, n := range want {
		if hits[id] != n {
			t.Errorf("ad %s: got %d hits, want %d", id, hits[id], n)
		}
	}
}

func TestSelectForPlacement_SingleCandidate(t *testing.T) {
	a := ad(models.PlacementBelowDescription, 7)
	svc := NewService(newMockAdStore(a))

	got, err := svc.SelectForPlacement(context.Background(), models.PlacementBelowDescription)
	if err != nil {
		t.Fatalf("SelectForPlacement: %v", err)
	}
	if got == nil || got.ID != a.ID {
		t.Errorf("got %+v, want the only candidate", got)
	}
}

func TestSelectForPlacement_NoCandidates(t *testing.T) {
	svc := NewService(newMockAdStore())
	got, err := svc.SelectForPlacement(context.Background(), models.PlacementBanner)
	if err != nil {
		t.Fatalf("SelectForPlacement: %v", err)
	}
	if got != nil {
		t.Errorf("empty placement should select nothing, got %+v", got)
	}
}

func TestSelectForPlacement_InactiveExcluded(t *testing.T) {
	active := ad(models.PlacementBanner, 1)
	inactive := ad(models.PlacementBanner, 1000)
	inactive.Active = false
	svc := NewService(newMockAdStore(active, inactive))

	for i := 0; i < 20; i++ {
		got, err := svc.SelectForPlacement(context.Background(), models.PlacementBanner)
		if err != nil {
			t.Fatalf("SelectForPlacement: %v", err)
		}
		if got.ID != active.ID {
			t.Fatalf("inactive ad selected: %+v", got)
		}
	}
}

func TestSelectForPlacement_UnknownPlacement(t *testing.T) {
	svc := NewService(newMockAdStore())
	_, err := svc.SelectForPlacement(context.Background(), "sidebar")
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestRecordClick(t *testing.T) {
	a := ad(models.PlacementBanner, 1)
	store := newMockAdStore(a)
	svc := NewService(store)

	const clicks = 5
	for i := 0; i < clicks; i++ {
		if err := svc.RecordClick(context.Background(), a.ID); err != nil {
			t.Fatalf("RecordClick: %v", err)
		}
	}
	if got := store.clicks[a.ID]; got != clicks {
		t.Errorf("click count: got %d, want %d", got, clicks)
	}

	if err := svc.RecordClick(context.Background(), uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown ad: got %v, want ErrNotFound", err)
	}
	if err := svc.RecordClick(context.Background(), uuid.Nil); !errors.Is(err, models.ErrValidation) {
		t.Errorf("nil ad id: got %v, want ErrValidation", err)
	}
}
