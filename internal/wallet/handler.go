package wallet

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidyastream/backend/internal/models"
)

// Request/response structs use snake_case JSON to match the web client.

type FirstLoginBonusRequest struct {
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

type FirstLoginBonusResponse struct {
	User         *models.User `json:"user"`
	BonusApplied bool         `json:"bonus_applied"`
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// FirstLoginBonus handles POST /api/v1/auth/first-login-bonus. Idempotent:
// repeat calls for the same identity return bonus_applied=false and leave the
// wallet untouched.
func (h *Handler) FirstLoginBonus(w http.ResponseWriter, r *http.Request) {
	var req FirstLoginBonusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.FirebaseUID == "" || req.Email == "" || req.Name == "" {
		http.Error(w, `{"error":"missing required fields"}`, http.StatusBadRequest)
		return
	}

	user, applied, err := h.svc.CreditFirstLoginBonus(r.Context(), req.FirebaseUID, req.Email, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			http.Error(w, `{"error":"invalid request"}`, http.StatusBadRequest)
		case errors.Is(err, models.ErrConflict):
			http.Error(w, `{"error":"identity conflict, retry"}`, http.StatusConflict)
		case pgconn.SafeToRetry(err):
			http.Error(w, `{"error":"storage unavailable, retry"}`, http.StatusServiceUnavailable)
		default:
			h.log.Error("first login bonus failed", "firebase_uid", req.FirebaseUID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, FirstLoginBonusResponse{User: user, BonusApplied: applied})
}

// ListTransactions handles GET /api/v1/users/{id}/transactions.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}

	txs, err := h.svc.ListTransactions(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		case pgconn.SafeToRetry(err):
			http.Error(w, `{"error":"storage unavailable, retry"}`, http.StatusServiceUnavailable)
		default:
			h.log.Error("list transactions failed", "user_id", userID, "error", err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		}
		return
	}

	if txs == nil {
		txs = []*models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
