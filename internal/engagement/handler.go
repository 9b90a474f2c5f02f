package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidyastream/backend/internal/models"
)

// Store is the watch-history and certificate storage surface.
type Store interface {
	UpsertWatchHistory(ctx context.Context, w *models.WatchHistory) error
	ListWatchHistory(ctx context.Context, userID uuid.UUID) ([]*models.WatchHistory, error)
	ListCertificates(ctx context.Context, userID uuid.UUID) ([]*models.Certificate, error)
	GetCertificateByNo(ctx context.Context, certNo string) (*models.Certificate, error)
}

type Handler struct {
	store Store
	log   *slog.Logger
}

func NewHandler(store Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, log: log}
}

type upsertWatchRequest struct {
	UserID          uuid.UUID `json:"user_id"`
	ContentID       uuid.UUID `json:"content_id"`
	PositionSeconds int       `json:"position_seconds"`
}

// UpsertWatchHistory handles POST /api/v1/watch-history.
func (h *Handler) UpsertWatchHistory(w http.ResponseWriter, r *http.Request) {
	var req upsertWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == uuid.Nil || req.ContentID == uuid.Nil {
		http.Error(w, `{"error":"user_id and content_id are required"}`, http.StatusBadRequest)
		return
	}
	if req.PositionSeconds < 0 {
		http.Error(w, `{"error":"position_seconds must be >= 0"}`, http.StatusBadRequest)
		return
	}

	entry := &models.WatchHistory{
		UserID:          req.UserID,
		ContentID:       req.ContentID,
		PositionSeconds: req.PositionSeconds,
	}
	if err := h.store.UpsertWatchHistory(r.Context(), entry); err != nil {
		h.log.Error("upsert watch history failed", "user_id", req.UserID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ListWatchHistory handles GET /api/v1/users/{id}/watch-history.
func (h *Handler) ListWatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}
	list, err := h.store.ListWatchHistory(r.Context(), userID)
	if err != nil {
		h.log.Error("list watch history failed", "user_id", userID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.WatchHistory{}
	}
	writeJSON(w, http.StatusOK, list)
}

// ListCertificates handles GET /api/v1/users/{id}/certificates.
func (h *Handler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}
	list, err := h.store.ListCertificates(r.Context(), userID)
	if err != nil {
		h.log.Error("list certificates failed", "user_id", userID, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []*models.Certificate{}
	}
	writeJSON(w, http.StatusOK, list)
}

// VerifyCertificate handles GET /api/v1/certificates/verify?cert_no=...
// Public: anyone holding a certificate number can check its authenticity.
func (h *Handler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	certNo := r.URL.Query().Get("cert_no")
	if certNo == "" {
		http.Error(w, `{"error":"cert_no is required"}`, http.StatusBadRequest)
		return
	}
	cert, err := h.store.GetCertificateByNo(r.Context(), certNo)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, `{"error":"certificate not found"}`, http.StatusNotFound)
			return
		}
		h.log.Error("verify certificate failed", "cert_no", certNo, "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
