package ads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vidyastream/backend/internal/models"
)

type mockAdminStore struct {
	ads []*models.Ad
}

func (m *mockAdminStore) ListAll(context.Context) ([]*models.Ad, error) {
	return m.ads, nil
}

func (m *mockAdminStore) Create(_ context.Context, a *models.Ad) error {
	if !models.ValidPlacement(a.Placement) || a.Weight <= 0 {
		return models.ErrValidation
	}
	a.ID = uuid.New()
	m.ads = append(m.ads, a)
	return nil
}

func newAdsMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/ads/{placement}", h.Select)
	mux.HandleFunc("POST /api/v1/ads/{id}/click", h.Click)
	mux.HandleFunc("GET /api/v1/admin/ads", h.ListAll)
	mux.HandleFunc("POST /api/v1/admin/ads", h.Create)
	return mux
}

func TestSelect_ReturnsAd(t *testing.T) {
	a := ad(models.PlacementBanner, 1)
	h := NewHandler(NewService(newMockAdStore(a)), &mockAdminStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ads/banner", nil)
	rr := httptest.NewRecorder()
	newAdsMux(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var got models.Ad
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("ad id: got %s, want %s", got.ID, a.ID)
	}
}

func TestSelect_NoAdsIs204(t *testing.T) {
	h := NewHandler(NewService(newMockAdStore()), &mockAdminStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ads/below_description", nil)
	rr := httptest.NewRecorder()
	newAdsMux(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
}

func TestSelect_UnknownPlacementIs400(t *testing.T) {
	h := NewHandler(NewService(newMockAdStore()), &mockAdminStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ads/sidebar", nil)
	rr := httptest.NewRecorder()
	newAdsMux(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestClick(t *testing.T) {
	a := ad(models.PlacementBanner, 1)
	store := newMockAdStore(a)
	h := NewHandler(NewService(store), &mockAdminStore{}, nil)
	mux := newAdsMux(h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ads/"+a.ID.String()+"/click", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if got := store.clicks[a.ID]; got != 1 {
		t.Errorf("click count: got %d, want 1", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/ads/"+uuid.NewString()+"/click", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown ad: got %d, want 404", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/ads/not-a-uuid/click", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad id: got %d, want 400", rr.Code)
	}
}

func TestAdminCreate(t *testing.T) {
	admin := &mockAdminStore{}
	h := NewHandler(NewService(newMockAdStore()), admin, nil)
	mux := newAdsMux(h)

	body := `{"placement":"banner","image_url":"https://cdn.example.com/a.png","link_url":"https://example.com","title":"Sale"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ads", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	var got models.Ad
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Weight != 1 {
		t.Errorf("default weight: got %d, want 1", got.Weight)
	}
	if !got.Active {
		t.Error("ads should default to active")
	}
}

func TestAdminCreate_BadRequests(t *testing.T) {
	h := NewHandler(NewService(newMockAdStore()), &mockAdminStore{}, nil)
	mux := newAdsMux(h)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing image_url", `{"placement":"banner","link_url":"https://example.com","title":"Sale"}`},
		{"unknown placement", `{"placement":"sidebar","image_url":"https://x/a.png","link_url":"https://x","title":"Sale"}`},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ads", strings.NewReader(c.body))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", c.name, rr.Code)
		}
	}
}

func TestAdminListAll(t *testing.T) {
	admin := &mockAdminStore{ads: []*models.Ad{ad(models.PlacementBanner, 1)}}
	h := NewHandler(NewService(newMockAdStore()), admin, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ads", nil)
	rr := httptest.NewRecorder()
	newAdsMux(h).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var got []*models.Ad
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ads: got %d, want 1", len(got))
	}
}
