package ads

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidyastream/backend/internal/models"
)

// AdminStore is the extra ad storage surface used by the admin endpoints.
type AdminStore interface {
	ListAll(ctx context.Context) ([]*models.Ad, error)
	Create(ctx context.Context, a *models.Ad) error
}

type Handler struct {
	svc   Service
	admin AdminStore
	log   *slog.Logger
}

func NewHandler(svc Service, admin AdminStore, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, admin: admin, log: log}
}

// Select handles GET /api/v1/ads/{placement}. A fresh weighted draw on every
// call; 204 when the placement has no active ads.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	placement := r.PathValue("placement")

	ad, err := h.svc.SelectForPlacement(r.Context(), placement)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			http.Error(w, `{"error":"unknown placement"}`, http.StatusBadRequest)
		case pgconn.SafeToRetry(err):
			http.Error(w, `{"error":"storage unavailable, retry"}`, http.StatusServiceUnavailable)
		default:
			h.log.Error("ad selection failed", "placement", placement, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}
	if ad == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

// Click handles POST /api/v1/ads/{id}/click.
func (h *Handler) Click(w http.ResponseWriter, r *http.Request) {
	adID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid ad id"}`, http.StatusBadRequest)
		return
	}

	if err := h.svc.RecordClick(r.Context(), adID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			http.Error(w, `{"error":"ad not found"}`, http.StatusNotFound)
		case pgconn.SafeToRetry(err):
			http.Error(w, `{"error":"storage unavailable, retry"}`, http.StatusServiceUnavailable)
		default:
			h.log.Error("record click failed", "ad_id", adID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- admin endpoints (behind the admin-role middleware) ---

type createAdRequest struct {
	Placement   string  `json:"placement"`
	ImageURL    string  `json:"image_url"`
	LinkURL     string  `json:"link_url"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	Weight      int64   `json:"weight"`
}

// ListAll handles GET /api/v1/admin/ads: every ad, active or not.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.admin.ListAll(r.Context())
	if err != nil {
		h.log.Error("list ads failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if all == nil {
		all = []*models.Ad{}
	}
	writeJSON(w, http.StatusOK, all)
}

// Create handles POST /api/v1/admin/ads.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.ImageURL == "" || req.LinkURL == "" || req.Title == "" {
		http.Error(w, `{"error":"missing required fields"}`, http.StatusBadRequest)
		return
	}
	if req.Weight == 0 {
		req.Weight = 1
	}

	ad := &models.Ad{
		Placement:   req.Placement,
		ImageURL:    req.ImageURL,
		LinkURL:     req.LinkURL,
		Title:       req.Title,
		Description: req.Description,
		Active:      true,
		Weight:      req.Weight,
	}
	if req.Active != nil {
		ad.Active = *req.Active
	}

	if err := h.admin.Create(r.Context(), ad); err != nil {
		if errors.Is(err, models.ErrValidation) {
			http.Error(w, `{"error":"invalid placement or weight"}`, http.StatusBadRequest)
			return
		}
		h.log.Error("create ad failed", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, ad)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
